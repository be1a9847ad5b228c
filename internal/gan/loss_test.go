package gan_test

import (
	"errors"
	"math"
	"testing"

	"github.com/gannet-ml/gannet/internal/backend/cpu"
	"github.com/gannet-ml/gannet/internal/gan"
	"github.com/gannet-ml/gannet/internal/tensor"
)

func logits(t *testing.T, values ...float32) *tensor.Tensor[*cpu.CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values), 1}, cpu.New())
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func closeTo(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestDiscriminatorHingeLossBoundary(t *testing.T) {
	// Logits exactly on the hinge margins contribute nothing:
	// relu(1 - 1) + relu(1 + (-1)) = 0.
	real := logits(t, 1)
	fake := logits(t, -1)

	loss, err := gan.DiscriminatorHingeLoss(real, fake, 1)
	if err != nil {
		t.Fatal(err)
	}
	if loss.Item() != 0 {
		t.Errorf("loss = %v, want 0", loss.Item())
	}
}

func TestDiscriminatorHingeLossUndecided(t *testing.T) {
	// An undecided discriminator (all-zero logits) pays the full margin on
	// both terms: relu(1) + relu(1) = 2.
	real := logits(t, 0)
	fake := logits(t, 0)

	loss, err := gan.DiscriminatorHingeLoss(real, fake, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(loss.Item(), 2) {
		t.Errorf("loss = %v, want 2", loss.Item())
	}
}

func TestDiscriminatorHingeLossNonNegative(t *testing.T) {
	cases := [][2][]float32{
		{{5, -3, 0.5}, {-5, 3, -0.5}},
		{{-10, -10, -10}, {10, 10, 10}},
		{{0.1, 0.2, 0.3}, {0.3, 0.2, 0.1}},
	}

	for _, c := range cases {
		loss, err := gan.DiscriminatorHingeLoss(logits(t, c[0]...), logits(t, c[1]...), 3)
		if err != nil {
			t.Fatal(err)
		}
		if loss.Item() < 0 {
			t.Errorf("loss = %v for %v, must be non-negative", loss.Item(), c)
		}
	}
}

func TestDiscriminatorHingeLossValue(t *testing.T) {
	// real = [0.5, 2], fake = [-0.5, 1], batch 2:
	// real terms: relu(0.5) + relu(-1) = 0.5
	// fake terms: relu(0.5) + relu(2) = 2.5
	// loss = 3.0 / 2 = 1.5
	loss, err := gan.DiscriminatorHingeLoss(logits(t, 0.5, 2), logits(t, -0.5, 1), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(loss.Item(), 1.5) {
		t.Errorf("loss = %v, want 1.5", loss.Item())
	}
}

func TestGeneratorHingeLossValue(t *testing.T) {
	// gen loss = -sum(fake)/b = -(3 + -3)/1 = 0
	loss, err := gan.GeneratorHingeLoss(logits(t, 3, -3), 1)
	if err != nil {
		t.Fatal(err)
	}
	if loss.Item() != 0 {
		t.Errorf("loss = %v, want 0", loss.Item())
	}

	// -(2 + 4)/2 = -3
	loss, err = gan.GeneratorHingeLoss(logits(t, 2, 4), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(loss.Item(), -3) {
		t.Errorf("loss = %v, want -3", loss.Item())
	}
}

func TestHingeLossMatchesStandalone(t *testing.T) {
	real := logits(t, 0.7, -1.2, 2.5)
	fake := logits(t, -0.3, 1.8, -2.1)

	genLoss, discLoss, err := gan.HingeLoss(real, fake, 3)
	if err != nil {
		t.Fatal(err)
	}

	wantGen, err := gan.GeneratorHingeLoss(fake, 3)
	if err != nil {
		t.Fatal(err)
	}
	wantDisc, err := gan.DiscriminatorHingeLoss(real, fake, 3)
	if err != nil {
		t.Fatal(err)
	}

	if !closeTo(genLoss.Item(), wantGen.Item()) {
		t.Errorf("generator loss %v != standalone %v", genLoss.Item(), wantGen.Item())
	}
	if !closeTo(discLoss.Item(), wantDisc.Item()) {
		t.Errorf("discriminator loss %v != standalone %v", discLoss.Item(), wantDisc.Item())
	}
}

func TestHingeLossGlobalBatchScaling(t *testing.T) {
	real := logits(t, 0.5, -0.5)
	fake := logits(t, 0.1, -0.9)

	atB, _, err := gan.HingeLoss(real, fake, 2)
	if err != nil {
		t.Fatal(err)
	}
	at2B, _, err := gan.HingeLoss(real, fake, 4)
	if err != nil {
		t.Fatal(err)
	}

	// Doubling the global batch size halves the loss value.
	if !closeTo(atB.Item(), 2*at2B.Item()) {
		t.Errorf("scaling broken: loss(b)=%v loss(2b)=%v", atB.Item(), at2B.Item())
	}
}

func TestLossInvalidBatchSize(t *testing.T) {
	real := logits(t, 1)
	fake := logits(t, -1)

	_, err := gan.DiscriminatorHingeLoss(real, fake, 0)
	if !errors.Is(err, gan.ErrInvalidArgument) {
		t.Errorf("batch 0: got %v, want ErrInvalidArgument", err)
	}

	_, err = gan.GeneratorHingeLoss(fake, -1)
	if !errors.Is(err, gan.ErrInvalidArgument) {
		t.Errorf("batch -1: got %v, want ErrInvalidArgument", err)
	}

	_, _, err = gan.HingeLoss(real, fake, 0)
	if !errors.Is(err, gan.ErrInvalidArgument) {
		t.Errorf("HingeLoss batch 0: got %v, want ErrInvalidArgument", err)
	}
}

func TestDiscriminatorLossShapeMismatch(t *testing.T) {
	real := logits(t, 1, 2)
	fake := logits(t, -1)

	_, err := gan.DiscriminatorHingeLoss(real, fake, 2)
	if !errors.Is(err, gan.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestLossNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	negInf := float32(math.Inf(-1))

	_, err := gan.GeneratorHingeLoss(logits(t, nan), 1)
	if !errors.Is(err, gan.ErrComputation) {
		t.Errorf("NaN logits: got %v, want ErrComputation", err)
	}

	// A real logit of -Inf drives the hinge term to +Inf.
	_, err = gan.DiscriminatorHingeLoss(logits(t, negInf), logits(t, 0), 1)
	if !errors.Is(err, gan.ErrComputation) {
		t.Errorf("Inf hinge term: got %v, want ErrComputation", err)
	}
}
