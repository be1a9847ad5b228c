package nn

import (
	"github.com/gannet-ml/gannet/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.ReLU()
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// LeakyReLU is a leaky rectified linear unit: f(x) = x for x > 0 and
// slope*x otherwise. The non-zero negative slope keeps discriminator
// gradients alive for inputs the plain ReLU would silence.
//
// Computed as relu(x) - slope*relu(-x), which routes through existing
// differentiable operations.
type LeakyReLU[B tensor.Backend] struct {
	slope float32
}

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
// A slope of 0.2 is the usual GAN discriminator choice.
func NewLeakyReLU[B tensor.Backend](slope float32) *LeakyReLU[B] {
	return &LeakyReLU[B]{slope: slope}
}

// Forward applies the leaky ReLU activation.
func (l *LeakyReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	positive := input.ReLU()
	negative := input.Neg().ReLU().MulScalar(l.slope)
	return positive.Sub(negative)
}

// Parameters returns nil (LeakyReLU has no trainable parameters).
func (l *LeakyReLU[B]) Parameters() []*Parameter[B] {
	return nil
}
