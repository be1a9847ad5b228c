// Package optim implements optimization algorithms for training.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with momentum
//   - Adam: adaptive moment estimation
//
// Design inspired by PyTorch's torch.optim but adapted for Go with type
// safety. Optimizer state (momentum buffers, Adam moments) lives for the
// whole process and is mutated exactly once per Step call; no concurrent
// use is supported or needed, the training loop runs one step at a time.
package optim

import (
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update model parameters based on computed gradients to
// minimize the loss function during training.
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// Takes the gradient map produced by a backward pass, keyed by the
	// parameter's RawTensor. Parameters without an entry are skipped:
	// a variable absent from the loss's computation graph has a null
	// gradient and is left unchanged.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// StatefulOptimizer is an optimizer whose internal state can be saved and
// restored, used by checkpointing to make runs resumable.
type StatefulOptimizer interface {
	Optimizer

	// StateDict returns the optimizer state for serialization.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads optimizer state from serialization.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// getGradient safely retrieves the gradient for a parameter.
//
// Returns nil if no gradient is found (the parameter wasn't part of the
// computation graph).
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
