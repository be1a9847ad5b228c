// Package gan implements the hinge-loss GAN training core: the loss
// functions, the gradient minimization step, and the training driver.
package gan

import (
	"fmt"

	"github.com/gannet-ml/gannet/internal/data"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// FitConfig carries the derived schedule and batch geometry into a model's
// fit loop. The global batch size is threaded explicitly here instead of
// being poked onto the model as a mutable attribute, so the loss
// normalization has no hidden ordering dependency on the driver.
type FitConfig struct {
	// Epochs is the total number of bookkeeping epochs. An "epoch" is a
	// fixed number of steps, not a pass over the dataset.
	Epochs int

	// StepsPerEpoch is the number of optimization steps per epoch; equal
	// to the logging interval.
	StepsPerEpoch int

	// InitialEpoch is where a resumed run picks up. Epochs before it are
	// skipped entirely.
	InitialEpoch int

	// GlobalBatchSize is the total sample count of one step across all
	// replicas, used as the loss normalization divisor.
	GlobalBatchSize int
}

// Model is the trainable collaborator the driver orchestrates.
type Model[B tensor.Backend] interface {
	// CreateCallbacks returns the monitoring and persistence hooks for a
	// run that stores its artifacts under modelDir.
	CreateCallbacks(modelDir string) []Callback

	// Fit runs the step loop over the dataset, invoking every callback at
	// each epoch boundary.
	Fit(dataset data.Dataset[B], callbacks []Callback, cfg FitConfig) error
}

// TrainOptions are the user-facing knobs of a training run.
type TrainOptions struct {
	NumSteps    int // Total number of optimization steps
	LogEvery    int // Steps between callback invocations; one epoch
	InitialStep int // Step to resume from (0 for a fresh run)
}

// Train runs NumSteps optimization steps of model over dataset, invoking
// the model's callbacks every LogEvery steps and persisting artifacts
// under modelDir. It returns the trained model.
//
// The step budget is converted to an epoch schedule by floor division:
// epochs = NumSteps/LogEvery and initialEpoch = InitialStep/LogEvery.
// When NumSteps is not an exact multiple of LogEvery the remainder steps
// are dropped, deliberately: resumption arithmetic relies on every epoch
// being exactly LogEvery steps, so the truncation is kept rather than
// rounding up.
//
// The global batch size is derived once, from the leading dimension of the
// first batch the dataset yields. That batch is replayed to the fit loop,
// so streaming datasets that cannot rewind lose nothing to the peek.
func Train[B tensor.Backend](model Model[B], dataset data.Dataset[B], modelDir string, opts TrainOptions) (Model[B], error) {
	if opts.NumSteps <= 0 {
		return nil, fmt.Errorf("train: num steps must be positive, got %d: %w", opts.NumSteps, ErrInvalidArgument)
	}
	if opts.LogEvery <= 0 {
		return nil, fmt.Errorf("train: log interval must be positive, got %d: %w", opts.LogEvery, ErrInvalidArgument)
	}
	if opts.InitialStep < 0 {
		return nil, fmt.Errorf("train: initial step must not be negative, got %d: %w", opts.InitialStep, ErrInvalidArgument)
	}

	first, err := dataset.Next()
	if err != nil {
		return nil, fmt.Errorf("train: reading first batch: %w", err)
	}
	globalBatchSize := first.Shape()[0]

	callbacks := model.CreateCallbacks(modelDir)

	cfg := FitConfig{
		Epochs:          opts.NumSteps / opts.LogEvery,
		StepsPerEpoch:   opts.LogEvery,
		InitialEpoch:    opts.InitialStep / opts.LogEvery,
		GlobalBatchSize: globalBatchSize,
	}

	replay := &peekedDataset[B]{dataset: dataset, peeked: first}
	if err := model.Fit(replay, callbacks, cfg); err != nil {
		return nil, err
	}
	return model, nil
}

// peekedDataset hands the batch consumed for batch size derivation back to
// the fit loop before delegating to the wrapped dataset. Rewinding instead
// would discard that batch on datasets whose Reset cannot rewind, such as
// the prefetcher.
type peekedDataset[B tensor.Backend] struct {
	dataset data.Dataset[B]
	peeked  *tensor.Tensor[B]
}

func (p *peekedDataset[B]) Next() (*tensor.Tensor[B], error) {
	if p.peeked != nil {
		batch := p.peeked
		p.peeked = nil
		return batch, nil
	}
	return p.dataset.Next()
}

func (p *peekedDataset[B]) Reset() error {
	return p.dataset.Reset()
}
