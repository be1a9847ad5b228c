// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gan

import (
	"github.com/gannet-ml/gannet/internal/autodiff"
	"github.com/gannet-ml/gannet/internal/data"
	"github.com/gannet-ml/gannet/internal/gan"
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/optim"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Optimizer is the update rule Minimize drives after the backward pass.
type Optimizer = optim.Optimizer

// Error kinds. Callers match with errors.Is.
var (
	// ErrInvalidArgument marks caller mistakes such as a non-positive
	// global batch size or mismatched logit shapes.
	ErrInvalidArgument = gan.ErrInvalidArgument

	// ErrComputation marks numeric failures such as NaN or Inf losses.
	ErrComputation = gan.ErrComputation
)

// Losses

// DiscriminatorHingeLoss computes the hinge discriminator loss:
//
//	L_D = (sum(relu(1 - logits_real)) + sum(relu(1 + logits_fake))) / globalBatchSize
func DiscriminatorHingeLoss[B tensor.Backend](logitsReal, logitsFake *tensor.Tensor[B], globalBatchSize int) (*tensor.Tensor[B], error) {
	return gan.DiscriminatorHingeLoss(logitsReal, logitsFake, globalBatchSize)
}

// GeneratorHingeLoss computes the hinge generator loss:
//
//	L_G = -sum(logits_fake) / globalBatchSize
func GeneratorHingeLoss[B tensor.Backend](logitsFake *tensor.Tensor[B], globalBatchSize int) (*tensor.Tensor[B], error) {
	return gan.GeneratorHingeLoss(logitsFake, globalBatchSize)
}

// HingeLoss computes both hinge losses and returns the generator loss and
// the discriminator loss, in that order.
func HingeLoss[B tensor.Backend](logitsReal, logitsFake *tensor.Tensor[B], globalBatchSize int) (genLoss, discLoss *tensor.Tensor[B], err error) {
	return gan.HingeLoss(logitsReal, logitsFake, globalBatchSize)
}

// Minimization

// LossFunc produces a scalar loss tensor under a recording tape.
type LossFunc[B tensor.Backend] = gan.LossFunc[B]

// Minimize runs one gradient descent step of lossFn over params.
func Minimize[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	optimizer Optimizer,
	lossFn LossFunc[*autodiff.AutodiffBackend[B]],
	params []*nn.Parameter[*autodiff.AutodiffBackend[B]],
) (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
	return gan.Minimize(backend, optimizer, lossFn, params)
}

// MinimizeOp composes a minimization step once and returns it as a
// deferred operation to be executed repeatedly.
func MinimizeOp[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	optimizer Optimizer,
	lossFn LossFunc[*autodiff.AutodiffBackend[B]],
	params []*nn.Parameter[*autodiff.AutodiffBackend[B]],
) func() (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
	return gan.MinimizeOp(backend, optimizer, lossFn, params)
}

// Training

// Model is the trainable collaborator the Train driver orchestrates.
type Model[B tensor.Backend] = gan.Model[B]

// FitConfig carries the derived schedule and batch geometry into Fit.
type FitConfig = gan.FitConfig

// TrainOptions are the user-facing knobs of a training run.
type TrainOptions = gan.TrainOptions

// Train runs opts.NumSteps optimization steps of model over dataset.
//
// Example:
//
//	trained, err := gan.Train(model, dataset, "runs", gan.TrainOptions{
//	    NumSteps: 10000,
//	    LogEvery: 100,
//	})
func Train[B tensor.Backend](model Model[B], dataset data.Dataset[B], modelDir string, opts TrainOptions) (Model[B], error) {
	return gan.Train(model, dataset, modelDir, opts)
}

// Callbacks

// Callback observes epoch boundaries of a fit loop.
type Callback = gan.Callback

// EpochMetrics is what a fit loop hands to callbacks at an epoch boundary.
type EpochMetrics = gan.EpochMetrics

// LoggingCallback prints one key=value line per epoch.
type LoggingCallback = gan.LoggingCallback

// CheckpointCallback writes one checkpoint file per epoch into a per-run
// directory under the model directory.
type CheckpointCallback = gan.CheckpointCallback

// NewCheckpointCallback creates the per-run directory under modelDir and
// returns a callback that checkpoints target into it.
func NewCheckpointCallback(target Checkpointer, modelDir string) (*CheckpointCallback, error) {
	return gan.NewCheckpointCallback(target, modelDir)
}

// Checkpointer is the persistence hook CheckpointCallback drives.
type Checkpointer = gan.Checkpointer

// Reference model

// GAN pairs a generator and a discriminator with their optimizers and
// implements the alternating hinge-loss training scheme.
type GAN[B tensor.Backend] = gan.GAN[B]

// GANConfig configures a GAN model.
type GANConfig = gan.GANConfig

// NewGAN builds a GAN from the two networks.
//
// Example:
//
//	model := gan.NewGAN(generator, discriminator, gan.GANConfig{
//	    LatentDim: 32,
//	}, backend)
func NewGAN[B tensor.Backend](
	generator, discriminator nn.Module[*autodiff.AutodiffBackend[B]],
	cfg GANConfig,
	backend *autodiff.AutodiffBackend[B],
) *GAN[B] {
	return gan.NewGAN(generator, discriminator, cfg, backend)
}

// Checkpoints

// Checkpoint is a restorable snapshot of a training run.
type Checkpoint = gan.Checkpoint

// SaveCheckpoint writes ckpt to path atomically.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	return gan.SaveCheckpoint(path, ckpt)
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return gan.LoadCheckpoint(path)
}
