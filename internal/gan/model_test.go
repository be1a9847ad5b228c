package gan_test

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/gannet-ml/gannet/internal/autodiff"
	"github.com/gannet-ml/gannet/internal/backend/cpu"
	"github.com/gannet-ml/gannet/internal/data"
	"github.com/gannet-ml/gannet/internal/gan"
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/tensor"
)

func tinyGAN(t *testing.T, backend adBackend, latentDim int) *gan.GAN[*cpu.CPUBackend] {
	t.Helper()
	rng := rand.New(rand.NewSource(3))

	generator := nn.NewSequential[adBackend](
		nn.NewLinear(latentDim, 8, rng, backend),
		nn.NewReLU[adBackend](),
		nn.NewLinear(8, 2, rng, backend),
	)
	discriminator := nn.NewSequential[adBackend](
		nn.NewLinear(2, 8, rng, backend),
		nn.NewLeakyReLU[adBackend](0.2),
		nn.NewLinear(8, 1, rng, backend),
	)

	return gan.NewGAN(generator, discriminator, gan.GANConfig{
		LatentDim: latentDim,
		Seed:      3,
	}, backend)
}

func ringDataset(t *testing.T, batchSize int) *data.TensorDataset[*cpu.CPUBackend] {
	t.Helper()
	rng := rand.New(rand.NewSource(5))
	samples, err := data.GaussianMixture(batchSize*8, 4, 2.0, 0.1, rng, cpu.New())
	if err != nil {
		t.Fatal(err)
	}
	ds, err := data.NewTensorDataset(samples, batchSize, 5, cpu.New())
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestGANTrainStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyGAN(t, backend, 4)

	real, err := data.GaussianMixture(8, 4, 2.0, 0.1, rand.New(rand.NewSource(1)), cpu.New())
	if err != nil {
		t.Fatal(err)
	}
	realAD := tensor.New(real.Raw(), backend)

	dLoss, gLoss, err := model.TrainStep(realAD, 8)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(dLoss) || math.IsInf(dLoss, 0) {
		t.Errorf("discriminator loss = %v", dLoss)
	}
	if math.IsNaN(gLoss) || math.IsInf(gLoss, 0) {
		t.Errorf("generator loss = %v", gLoss)
	}
	if dLoss < 0 {
		t.Errorf("discriminator hinge loss %v must be non-negative", dLoss)
	}
	if backend.Tape().NumOps() != 0 {
		t.Error("tape must be empty after a step")
	}
}

func TestGANTrainStepUpdatesBothNetworks(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyGAN(t, backend, 4)

	genBefore := model.Generator().Parameters()[0].Tensor().Clone()
	discBefore := model.Discriminator().Parameters()[0].Tensor().Clone()

	real, err := data.GaussianMixture(8, 4, 2.0, 0.1, rand.New(rand.NewSource(1)), cpu.New())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := model.TrainStep(tensor.New(real.Raw(), backend), 8); err != nil {
		t.Fatal(err)
	}

	changed := func(before, after *tensor.Tensor[adBackend]) bool {
		for i, v := range after.Data() {
			if v != before.Data()[i] {
				return true
			}
		}
		return false
	}
	if !changed(genBefore, model.Generator().Parameters()[0].Tensor()) {
		t.Error("generator parameters unchanged")
	}
	if !changed(discBefore, model.Discriminator().Parameters()[0].Tensor()) {
		t.Error("discriminator parameters unchanged")
	}
}

type countingCallback struct {
	epochs []int
	steps  []int
}

func (c *countingCallback) OnEpochEnd(m gan.EpochMetrics) error {
	c.epochs = append(c.epochs, m.Epoch)
	c.steps = append(c.steps, m.Step)
	return nil
}

func TestGANFitInvokesCallbacks(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyGAN(t, backend, 4)
	ds := ringDataset(t, 8)
	cb := &countingCallback{}

	err := model.Fit(ds, []gan.Callback{cb}, gan.FitConfig{
		Epochs:          3,
		StepsPerEpoch:   2,
		GlobalBatchSize: 8,
	})
	if err != nil {
		t.Fatal(err)
	}

	wantEpochs := []int{0, 1, 2}
	wantSteps := []int{2, 4, 6}
	if len(cb.epochs) != 3 {
		t.Fatalf("callbacks = %d, want 3", len(cb.epochs))
	}
	for i := range wantEpochs {
		if cb.epochs[i] != wantEpochs[i] || cb.steps[i] != wantSteps[i] {
			t.Errorf("callback %d: epoch=%d step=%d, want epoch=%d step=%d",
				i, cb.epochs[i], cb.steps[i], wantEpochs[i], wantSteps[i])
		}
	}
}

func TestGANFitResumeSkipsEpochs(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyGAN(t, backend, 4)
	ds := ringDataset(t, 8)
	cb := &countingCallback{}

	err := model.Fit(ds, []gan.Callback{cb}, gan.FitConfig{
		Epochs:          4,
		StepsPerEpoch:   2,
		InitialEpoch:    2,
		GlobalBatchSize: 8,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(cb.epochs) != 2 {
		t.Fatalf("callbacks = %d, want 2 (epochs 2 and 3)", len(cb.epochs))
	}
	if cb.epochs[0] != 2 || cb.steps[0] != 6 {
		t.Errorf("first resumed callback: epoch=%d step=%d, want 2/6", cb.epochs[0], cb.steps[0])
	}
}

func TestGANCheckpointRestore(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyGAN(t, backend, 4)
	ds := ringDataset(t, 8)

	// Take a few steps so optimizer state exists, then snapshot.
	err := model.Fit(ds, nil, gan.FitConfig{
		Epochs:          1,
		StepsPerEpoch:   3,
		GlobalBatchSize: 8,
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "model.ckpt")
	err = model.SaveCheckpoint(path, gan.EpochMetrics{Epoch: 0, Step: 3})
	if err != nil {
		t.Fatal(err)
	}

	restored := tinyGAN(t, autodiff.New(cpu.New()), 4)
	step, err := restored.Restore(path)
	if err != nil {
		t.Fatal(err)
	}
	if step != 3 {
		t.Errorf("restored step = %d, want 3", step)
	}

	// Restored parameters match the saved model exactly.
	orig := model.Generator().Parameters()
	rest := restored.Generator().Parameters()
	for i := range orig {
		a, b := orig[i].Tensor().Data(), rest[i].Tensor().Data()
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("generator param %d differs after restore", i)
			}
		}
	}
}

func TestGANCreateCallbacks(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyGAN(t, backend, 4)

	callbacks := model.CreateCallbacks(t.TempDir())
	if len(callbacks) != 2 {
		t.Errorf("callbacks = %d, want logging + checkpoint", len(callbacks))
	}
}
