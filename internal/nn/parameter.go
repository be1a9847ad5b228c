package nn

import (
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that gradient descent updates during training.
// They typically represent weights and biases of layers.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[B]
	grad   *tensor.Tensor[B]
}

// NewParameter creates a new trainable parameter.
//
// The tensor should be initialized before creating the Parameter; the
// gradient stays nil until the first backward pass.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name (e.g. "generator.fc1.weight").
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before the first backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
// Called by the minimization routines after a backward pass.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor so gradients from previous steps
// cannot accumulate.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
