package data

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// GaussianMixture draws n two-dimensional samples from a ring of modes,
// the standard toy target for checking that a GAN learns a multi-modal
// distribution instead of collapsing.
func GaussianMixture[B tensor.Backend](n, modes int, radius, stddev float64, rng *rand.Rand, backend B) (*tensor.Tensor[B], error) {
	if n <= 0 || modes <= 0 {
		return nil, fmt.Errorf("data: n and modes must be > 0, got n=%d modes=%d", n, modes)
	}

	samples := tensor.Zeros(tensor.Shape{n, 2}, backend)
	out := samples.Data()
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(rng.Intn(modes)) / float64(modes)
		cx := radius * math.Cos(angle)
		cy := radius * math.Sin(angle)
		out[2*i] = float32(cx + rng.NormFloat64()*stddev)
		out[2*i+1] = float32(cy + rng.NormFloat64()*stddev)
	}
	return samples, nil
}
