// Package ops defines operation records for automatic differentiation.
//
// Each operation captures its inputs and output during the forward pass and
// knows how to compute input gradients from the output gradient during the
// backward pass (the vector-Jacobian product).
package ops

import "github.com/gannet-ml/gannet/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input tensor, in input order. A nil entry
	// means no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
