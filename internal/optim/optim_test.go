package optim_test

import (
	"math"
	"testing"

	"github.com/gannet-ml/gannet/internal/backend/cpu"
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/optim"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func newParam(t *testing.T, backend *cpu.CPUBackend, values ...float32) *nn.Parameter[*cpu.CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	if err != nil {
		t.Fatal(err)
	}
	return nn.NewParameter("x", x)
}

func gradFor(t *testing.T, param *nn.Parameter[*cpu.CPUBackend], values ...float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(tensor.Shape{len(values)}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(grad.Data(), values)
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1},
		backend,
	)

	optimizer.Step(gradFor(t, param, 1.0))

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if got := param.Tensor().Data()[0]; !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("param = %v, want 1.9", got)
	}
}

// TestSGD_Momentum tests SGD with momentum over two steps.
func TestSGD_Momentum(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9},
		backend,
	)

	// Step 1: v = 1.0, x = 1.0 - 0.1*1.0 = 0.9
	optimizer.Step(gradFor(t, param, 1.0))
	if got := param.Tensor().Data()[0]; !floatEqual(got, 0.9, 1e-6) {
		t.Fatalf("after step 1: param = %v, want 0.9", got)
	}

	// Step 2: v = 0.9*1.0 + 1.0 = 1.9, x = 0.9 - 0.1*1.9 = 0.71
	optimizer.Step(gradFor(t, param, 1.0))
	if got := param.Tensor().Data()[0]; !floatEqual(got, 0.71, 1e-6) {
		t.Fatalf("after step 2: param = %v, want 0.71", got)
	}
}

// TestSGD_SkipsMissingGradient verifies parameters absent from the gradient
// map are left unchanged.
func TestSGD_SkipsMissingGradient(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 3.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1},
		backend,
	)

	optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	if got := param.Tensor().Data()[0]; got != 3.0 {
		t.Errorf("param = %v, want unchanged 3.0", got)
	}
}

// TestAdam_FirstStep tests the first Adam update with bias correction.
func TestAdam_FirstStep(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.001},
		backend,
	)

	optimizer.Step(gradFor(t, param, 0.5))

	// After bias correction the first step moves by almost exactly lr.
	// m_hat = grad, v_hat = grad^2, update = lr * grad/(|grad| + eps).
	if got := param.Tensor().Data()[0]; !floatEqual(got, 0.999, 1e-5) {
		t.Errorf("param = %v, want ~0.999", got)
	}
	if optimizer.GetTimestep() != 1 {
		t.Errorf("timestep = %d, want 1", optimizer.GetTimestep())
	}
}

// TestAdam_ZeroBeta1 verifies an explicit beta1 of zero survives config
// defaulting when beta2 is set.
func TestAdam_ZeroBeta1(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.1, Betas: [2]float32{0, 0.999}},
		backend,
	)

	// With beta1 = 0 the first moment is exactly the gradient, so two
	// steps with opposite gradients must move in opposite directions.
	optimizer.Step(gradFor(t, param, 1.0))
	afterFirst := param.Tensor().Data()[0]
	if afterFirst >= 1.0 {
		t.Fatalf("first step did not descend: %v", afterFirst)
	}

	optimizer.Step(gradFor(t, param, -1.0))
	if got := param.Tensor().Data()[0]; got <= afterFirst {
		t.Errorf("second step with opposite gradient did not reverse: %v", got)
	}
}

// TestSGD_Convergence minimizes f(x) = x^2 by hand-computed gradients.
func TestSGD_Convergence(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 5.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1},
		backend,
	)

	for i := 0; i < 100; i++ {
		x := param.Tensor().Data()[0]
		optimizer.Step(gradFor(t, param, 2*x))
	}

	if got := param.Tensor().Data()[0]; math.Abs(float64(got)) > 1e-3 {
		t.Errorf("x = %v, expected convergence to 0", got)
	}
}

// TestAdam_Convergence minimizes f(x) = x^2 with Adam.
func TestAdam_Convergence(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 5.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.01},
		backend,
	)

	// Adam steps are bounded by roughly the learning rate, so give it
	// enough iterations to cross the distance and settle.
	for i := 0; i < 2000; i++ {
		x := param.Tensor().Data()[0]
		optimizer.Step(gradFor(t, param, 2*x))
	}

	if got := param.Tensor().Data()[0]; math.Abs(float64(got)) > 0.05 {
		t.Errorf("x = %v, expected convergence to 0", got)
	}
}

// TestSGD_StateDictRoundTrip checks momentum state survives save/load.
func TestSGD_StateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9},
		backend,
	)
	optimizer.Step(gradFor(t, param, 1.0))

	state := optimizer.StateDict()
	if len(state) != 1 {
		t.Fatalf("len(state) = %d, want 1", len(state))
	}

	restored := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9},
		backend,
	)
	if err := restored.LoadStateDict(state); err != nil {
		t.Fatal(err)
	}
	if restored.StateDict()["velocity.0"].Data()[0] != state["velocity.0"].Data()[0] {
		t.Error("velocity not restored")
	}
}

// TestAdam_StateDictRoundTrip checks moment buffers survive save/load.
func TestAdam_StateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.001},
		backend,
	)
	optimizer.Step(gradFor(t, param, 0.5))

	state := optimizer.StateDict()
	if len(state) != 3 {
		t.Fatalf("len(state) = %d, want 3 (m, v and t)", len(state))
	}

	restored := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.001},
		backend,
	)
	if err := restored.LoadStateDict(state); err != nil {
		t.Fatal(err)
	}
	if restored.GetTimestep() != 1 {
		t.Errorf("timestep = %d, want 1", restored.GetTimestep())
	}
}

// TestAdam_StateDictResume verifies a restored optimizer takes exactly the
// step an uninterrupted one would. Late in training the moment buffers only
// make sense together with the timestep: bias correction restarted at t=1
// would divide v by 1-beta2, inflating v_hat and collapsing the update.
func TestAdam_StateDictResume(t *testing.T) {
	backend := cpu.New()
	cfg := optim.AdamConfig{LR: 0.1, Betas: [2]float32{0, 0.999}}

	continued := newParam(t, backend, 5.0)
	contOpt := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{continued}, cfg, backend)
	for i := 0; i < 100; i++ {
		contOpt.Step(gradFor(t, continued, 1.0))
	}

	// Snapshot deep-copies, as the checkpoint round trip does; loading the
	// live buffers would alias the two optimizers.
	state := contOpt.StateDict()
	snapshot := make(map[string]*tensor.RawTensor, len(state))
	for key, raw := range state {
		snapshot[key] = raw.Clone()
	}

	restored := newParam(t, backend, continued.Tensor().Data()[0])
	restOpt := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{restored}, cfg, backend)
	if err := restOpt.LoadStateDict(snapshot); err != nil {
		t.Fatal(err)
	}
	if restOpt.GetTimestep() != contOpt.GetTimestep() {
		t.Fatalf("timestep = %d, want %d", restOpt.GetTimestep(), contOpt.GetTimestep())
	}

	contOpt.Step(gradFor(t, continued, 1.0))
	restOpt.Step(gradFor(t, restored, 1.0))

	got, want := restored.Tensor().Data()[0], continued.Tensor().Data()[0]
	if !floatEqual(got, want, 1e-6) {
		t.Errorf("post-restore param = %v, uninterrupted run has %v", got, want)
	}
}

// TestAdam_LoadStateDictShapeMismatch verifies shape validation on load.
func TestAdam_LoadStateDictShapeMismatch(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.001},
		backend,
	)

	bad, _ := tensor.NewRaw(tensor.Shape{2}, tensor.CPU)
	err := optimizer.LoadStateDict(map[string]*tensor.RawTensor{"m.0": bad})
	if err == nil {
		t.Error("expected shape mismatch error")
	}
}

// TestSetLR verifies learning rate scheduling hooks.
func TestSetLR(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)
	sgd.SetLR(0.01)
	if sgd.GetLR() != 0.01 {
		t.Errorf("GetLR = %v, want 0.01", sgd.GetLR())
	}

	adam := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.AdamConfig{LR: 0.001}, backend)
	adam.SetLR(0.1)
	if adam.GetLR() != 0.1 {
		t.Errorf("GetLR = %v, want 0.1", adam.GetLR())
	}
}
