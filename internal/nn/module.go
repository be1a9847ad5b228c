// Package nn implements neural network modules for the Gannet framework.
//
// This package provides the building blocks the training core operates on:
//   - Module interface: base interface for all network components
//   - Parameter: trainable tensors referenced by optimizers
//   - Linear: fully connected layer
//   - Activations: ReLU, LeakyReLU
//   - Sequential: container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build architectures:
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(64, 128, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(128, 1, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module, in a
	// stable order. Modules without trainable parameters return nil.
	Parameters() []*Parameter[B]
}

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a Sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Forward runs the input through every module in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	out := input
	for _, m := range s.modules {
		out = m.Forward(out)
	}
	return out
}

// Parameters returns the parameters of all contained modules, in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}
