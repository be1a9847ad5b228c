package gan

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gannet-ml/gannet/internal/autodiff"
	"github.com/gannet-ml/gannet/internal/data"
	"github.com/gannet-ml/gannet/internal/metrics"
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/optim"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// GANConfig configures a GAN model.
//
// The default learning rates and betas follow the BigGAN recipe: the
// discriminator steps at four times the generator's rate and both Adam
// instances run with beta1 = 0.
type GANConfig struct {
	LatentDim       int     // Noise vector size (default 32)
	GeneratorLR     float32 // default 1e-4
	DiscriminatorLR float32 // default 4e-4
	Seed            int64   // Noise RNG seed (default 1)
}

// GAN pairs a generator and a discriminator with their optimizers and
// implements the alternating hinge-loss training scheme.
type GAN[B tensor.Backend] struct {
	generator     nn.Module[*autodiff.AutodiffBackend[B]]
	discriminator nn.Module[*autodiff.AutodiffBackend[B]]
	genOpt        *optim.Adam[*autodiff.AutodiffBackend[B]]
	discOpt       *optim.Adam[*autodiff.AutodiffBackend[B]]
	latentDim     int
	rng           *rand.Rand
	backend       *autodiff.AutodiffBackend[B]
}

// NewGAN builds a GAN from the two networks. Zero config fields fall back
// to the defaults documented on GANConfig.
func NewGAN[B tensor.Backend](
	generator, discriminator nn.Module[*autodiff.AutodiffBackend[B]],
	cfg GANConfig,
	backend *autodiff.AutodiffBackend[B],
) *GAN[B] {
	if cfg.LatentDim == 0 {
		cfg.LatentDim = 32
	}
	if cfg.GeneratorLR == 0 {
		cfg.GeneratorLR = 1e-4
	}
	if cfg.DiscriminatorLR == 0 {
		cfg.DiscriminatorLR = 4e-4
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	// Betas[1] set alone keeps beta1 at zero instead of triggering the
	// optimizer's [0.9, 0.999] default.
	genOpt := optim.NewAdam(generator.Parameters(), optim.AdamConfig{
		LR:    cfg.GeneratorLR,
		Betas: [2]float32{0, 0.999},
	}, backend)
	discOpt := optim.NewAdam(discriminator.Parameters(), optim.AdamConfig{
		LR:    cfg.DiscriminatorLR,
		Betas: [2]float32{0, 0.999},
	}, backend)

	return &GAN[B]{
		generator:     generator,
		discriminator: discriminator,
		genOpt:        genOpt,
		discOpt:       discOpt,
		latentDim:     cfg.LatentDim,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		backend:       backend,
	}
}

// Generator returns the generator network.
func (g *GAN[B]) Generator() nn.Module[*autodiff.AutodiffBackend[B]] {
	return g.generator
}

// Discriminator returns the discriminator network.
func (g *GAN[B]) Discriminator() nn.Module[*autodiff.AutodiffBackend[B]] {
	return g.discriminator
}

// sampleNoise draws a [batchSize, latentDim] standard normal batch.
func (g *GAN[B]) sampleNoise(batchSize int) *tensor.Tensor[*autodiff.AutodiffBackend[B]] {
	return tensor.Randn(tensor.Shape{batchSize, g.latentDim}, g.rng, g.backend)
}

// TrainStep runs one alternating optimization step: a discriminator update
// on real versus generated samples, then a generator update on fresh noise.
//
// The generated batch for the discriminator step is produced before its
// minimization begins, so the generator's forward pass is not recorded and
// the discriminator update cannot reach generator parameters. The generator
// step records the full generator-discriminator chain but hands only
// generator parameters to its optimizer.
func (g *GAN[B]) TrainStep(real *tensor.Tensor[*autodiff.AutodiffBackend[B]], globalBatchSize int) (dLoss, gLoss float64, err error) {
	batchSize := real.Shape()[0]

	fake := g.generator.Forward(g.sampleNoise(batchSize))
	dLossT, err := Minimize(g.backend, g.discOpt, func() (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
		logitsReal := g.discriminator.Forward(real)
		logitsFake := g.discriminator.Forward(fake)
		return DiscriminatorHingeLoss(logitsReal, logitsFake, globalBatchSize)
	}, g.discriminator.Parameters())
	if err != nil {
		return 0, 0, fmt.Errorf("discriminator step: %w", err)
	}

	noise := g.sampleNoise(batchSize)
	gLossT, err := Minimize(g.backend, g.genOpt, func() (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
		logits := g.discriminator.Forward(g.generator.Forward(noise))
		return GeneratorHingeLoss(logits, globalBatchSize)
	}, g.generator.Parameters())
	if err != nil {
		return 0, 0, fmt.Errorf("generator step: %w", err)
	}

	return float64(dLossT.Item()), float64(gLossT.Item()), nil
}

// Fit implements Model. It runs cfg.Epochs - cfg.InitialEpoch epochs of
// cfg.StepsPerEpoch steps each and invokes every callback at each epoch
// boundary. An exhausted dataset is reset and the read retried; any other
// dataset error aborts the run.
func (g *GAN[B]) Fit(dataset data.Dataset[B], callbacks []Callback, cfg FitConfig) error {
	var window metrics.Window

	for epoch := cfg.InitialEpoch; epoch < cfg.Epochs; epoch++ {
		for s := 0; s < cfg.StepsPerEpoch; s++ {
			dataStart := time.Now()
			batch, err := g.nextBatch(dataset)
			if err != nil {
				return err
			}
			dataTime := time.Since(dataStart)

			// Batches arrive on the plain backend; re-home the raw data on
			// the recording backend for the step.
			real := tensor.New(batch.Raw(), g.backend)

			computeStart := time.Now()
			dLoss, gLoss, err := g.TrainStep(real, cfg.GlobalBatchSize)
			if err != nil {
				return err
			}
			window.Record(batch.Shape()[0], dataTime, time.Since(computeStart), dLoss, gLoss)
		}

		m := EpochMetrics{
			Epoch:    epoch,
			Step:     (epoch + 1) * cfg.StepsPerEpoch,
			Snapshot: window.Snapshot(),
		}
		for _, cb := range callbacks {
			if err := cb.OnEpochEnd(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *GAN[B]) nextBatch(dataset data.Dataset[B]) (*tensor.Tensor[B], error) {
	batch, err := dataset.Next()
	if errors.Is(err, data.ErrEndOfData) {
		if err := dataset.Reset(); err != nil {
			return nil, fmt.Errorf("resetting dataset: %w", err)
		}
		batch, err = dataset.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}
	return batch, nil
}

// CreateCallbacks implements Model: a logging callback plus a per-epoch
// checkpoint callback writing under modelDir. If the run directory cannot
// be created the run proceeds without checkpoints.
func (g *GAN[B]) CreateCallbacks(modelDir string) []Callback {
	callbacks := []Callback{LoggingCallback{}}
	ckpt, err := NewCheckpointCallback(g, modelDir)
	if err != nil {
		log.Printf("checkpointing disabled: %v", err)
		return callbacks
	}
	return append(callbacks, ckpt)
}

// StateDict exports all trainable parameters and optimizer moments, keyed
// by network and parameter index, e.g. "generator.0.weight" or
// "opt.discriminator.m.3".
func (g *GAN[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	for i, p := range g.generator.Parameters() {
		state[fmt.Sprintf("generator.%d.%s", i, p.Name())] = p.Tensor().Raw()
	}
	for i, p := range g.discriminator.Parameters() {
		state[fmt.Sprintf("discriminator.%d.%s", i, p.Name())] = p.Tensor().Raw()
	}
	for key, raw := range g.genOpt.StateDict() {
		state["opt.generator."+key] = raw
	}
	for key, raw := range g.discOpt.StateDict() {
		state["opt.discriminator."+key] = raw
	}
	return state
}

// LoadStateDict restores parameters and optimizer moments saved by
// StateDict. Parameter entries must match the current network shapes;
// missing optimizer moments are tolerated and re-created lazily.
func (g *GAN[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	load := func(prefix string, params []*nn.Parameter[*autodiff.AutodiffBackend[B]]) error {
		for i, p := range params {
			key := fmt.Sprintf("%s.%d.%s", prefix, i, p.Name())
			raw, ok := state[key]
			if !ok {
				return fmt.Errorf("state dict missing %q: %w", key, ErrInvalidArgument)
			}
			if !raw.Shape().Equal(p.Tensor().Shape()) {
				return fmt.Errorf("state dict shape mismatch for %q: expected %v, got %v: %w",
					key, p.Tensor().Shape(), raw.Shape(), ErrInvalidArgument)
			}
			copy(p.Tensor().Data(), raw.Data())
		}
		return nil
	}
	if err := load("generator", g.generator.Parameters()); err != nil {
		return err
	}
	if err := load("discriminator", g.discriminator.Parameters()); err != nil {
		return err
	}

	genOptState := make(map[string]*tensor.RawTensor)
	discOptState := make(map[string]*tensor.RawTensor)
	for key, raw := range state {
		if rest, ok := strings.CutPrefix(key, "opt.generator."); ok {
			genOptState[rest] = raw
		} else if rest, ok := strings.CutPrefix(key, "opt.discriminator."); ok {
			discOptState[rest] = raw
		}
	}
	if err := g.genOpt.LoadStateDict(genOptState); err != nil {
		return fmt.Errorf("generator optimizer: %w", err)
	}
	if err := g.discOpt.LoadStateDict(discOptState); err != nil {
		return fmt.Errorf("discriminator optimizer: %w", err)
	}
	return nil
}

// SaveCheckpoint implements Checkpointer for the checkpoint callback.
func (g *GAN[B]) SaveCheckpoint(path string, m EpochMetrics) error {
	return SaveCheckpoint(path, &Checkpoint{
		Epoch:             m.Epoch,
		Step:              m.Step,
		DiscriminatorLoss: m.Snapshot.DiscriminatorLoss,
		GeneratorLoss:     m.Snapshot.GeneratorLoss,
		State:             g.StateDict(),
	})
}

// Restore loads a checkpoint file into the model and returns the step it
// was taken at, for use as TrainOptions.InitialStep.
func (g *GAN[B]) Restore(path string) (int, error) {
	ckpt, err := LoadCheckpoint(path)
	if err != nil {
		return 0, err
	}
	if err := g.LoadStateDict(ckpt.State); err != nil {
		return 0, err
	}
	return ckpt.Step, nil
}
