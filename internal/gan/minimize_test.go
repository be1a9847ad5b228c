package gan_test

import (
	"errors"
	"math"
	"testing"

	"github.com/gannet-ml/gannet/internal/autodiff"
	"github.com/gannet-ml/gannet/internal/backend/cpu"
	"github.com/gannet-ml/gannet/internal/gan"
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/optim"
	"github.com/gannet-ml/gannet/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func variable(t *testing.T, backend adBackend, values ...float32) *nn.Parameter[adBackend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	if err != nil {
		t.Fatal(err)
	}
	return nn.NewParameter("x", x)
}

func TestMinimizeQuadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := variable(t, backend, 5.0)
	params := []*nn.Parameter[adBackend]{param}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	lossFn := func() (*tensor.Tensor[adBackend], error) {
		x := param.Tensor()
		return x.Mul(x).Sum(), nil
	}

	// Gradient descent on x^2 converges to 0.
	var last float32 = 25
	for i := 0; i < 50; i++ {
		loss, err := gan.Minimize(backend, optimizer, lossFn, params)
		if err != nil {
			t.Fatal(err)
		}
		if loss.Item() > last {
			t.Fatalf("step %d: loss increased %v -> %v", i, last, loss.Item())
		}
		last = loss.Item()
	}

	if got := param.Tensor().Data()[0]; math.Abs(float64(got)) > 1e-3 {
		t.Errorf("x = %v, expected near 0", got)
	}
}

func TestMinimizeConstantLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := variable(t, backend, 3.0)
	params := []*nn.Parameter[adBackend]{param}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	// The loss never touches the variable: its gradient is null and the
	// step must complete without error, leaving the variable unchanged.
	lossFn := func() (*tensor.Tensor[adBackend], error) {
		c, err := tensor.FromSlice([]float32{7}, tensor.Shape{1}, backend)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	loss, err := gan.Minimize(backend, optimizer, lossFn, params)
	if err != nil {
		t.Fatalf("constant loss must not fail: %v", err)
	}
	if loss.Item() != 7 {
		t.Errorf("loss = %v, want 7", loss.Item())
	}
	if got := param.Tensor().Data()[0]; got != 3.0 {
		t.Errorf("param = %v, want unchanged 3.0", got)
	}
}

func TestMinimizePartialVarList(t *testing.T) {
	backend := autodiff.New(cpu.New())
	touched := variable(t, backend, 2.0)
	untouched := variable(t, backend, 9.0)
	params := []*nn.Parameter[adBackend]{touched, untouched}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	lossFn := func() (*tensor.Tensor[adBackend], error) {
		x := touched.Tensor()
		return x.Mul(x).Sum(), nil
	}

	if _, err := gan.Minimize(backend, optimizer, lossFn, params); err != nil {
		t.Fatal(err)
	}

	if got := touched.Tensor().Data()[0]; got >= 2.0 {
		t.Errorf("touched param did not move: %v", got)
	}
	if got := untouched.Tensor().Data()[0]; got != 9.0 {
		t.Errorf("untouched param moved: %v", got)
	}
}

func TestMinimizeRestrictsToVarList(t *testing.T) {
	backend := autodiff.New(cpu.New())
	inList := variable(t, backend, 1.0)
	outOfList := variable(t, backend, 1.0)
	optimizer := optim.NewSGD([]*nn.Parameter[adBackend]{inList, outOfList},
		optim.SGDConfig{LR: 0.1}, backend)

	// The loss depends on both variables, but only inList is handed to
	// Minimize; the other must stay frozen even though the optimizer
	// knows about it.
	lossFn := func() (*tensor.Tensor[adBackend], error) {
		return inList.Tensor().Mul(outOfList.Tensor()).Sum(), nil
	}

	if _, err := gan.Minimize(backend, optimizer, lossFn, []*nn.Parameter[adBackend]{inList}); err != nil {
		t.Fatal(err)
	}

	if got := inList.Tensor().Data()[0]; got == 1.0 {
		t.Error("in-list param did not move")
	}
	if got := outOfList.Tensor().Data()[0]; got != 1.0 {
		t.Errorf("out-of-list param moved: %v", got)
	}
}

func TestMinimizeErrorPropagation(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := variable(t, backend, 1.0)
	params := []*nn.Parameter[adBackend]{param}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	sentinel := errors.New("loss exploded")
	_, err := gan.Minimize(backend, optimizer, func() (*tensor.Tensor[adBackend], error) {
		return nil, sentinel
	}, params)
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want wrapped sentinel", err)
	}
	if backend.Tape().NumOps() != 0 {
		t.Error("tape must be cleared after a failed step")
	}
}

func TestMinimizeNonFiniteLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := variable(t, backend, 1.0)
	params := []*nn.Parameter[adBackend]{param}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	_, err := gan.Minimize(backend, optimizer, func() (*tensor.Tensor[adBackend], error) {
		inf, ferr := tensor.FromSlice([]float32{float32(math.Inf(1))}, tensor.Shape{1}, backend)
		return inf, ferr
	}, params)
	if !errors.Is(err, gan.ErrComputation) {
		t.Errorf("got %v, want ErrComputation", err)
	}
	if got := param.Tensor().Data()[0]; got != 1.0 {
		t.Errorf("param moved on failed step: %v", got)
	}
}

func TestMinimizeNilLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := variable(t, backend, 1.0)
	params := []*nn.Parameter[adBackend]{param}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	_, err := gan.Minimize(backend, optimizer, func() (*tensor.Tensor[adBackend], error) {
		return nil, nil
	}, params)
	if !errors.Is(err, gan.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestMinimizeOpRepeatable(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := variable(t, backend, 5.0)
	params := []*nn.Parameter[adBackend]{param}
	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)

	step := gan.MinimizeOp(backend, optimizer, func() (*tensor.Tensor[adBackend], error) {
		x := param.Tensor()
		return x.Mul(x).Sum(), nil
	}, params)

	var last float32 = math.MaxFloat32
	for i := 0; i < 20; i++ {
		loss, err := step()
		if err != nil {
			t.Fatal(err)
		}
		if loss.Item() >= last {
			t.Fatalf("step %d: no progress (%v -> %v)", i, last, loss.Item())
		}
		last = loss.Item()
	}
}
