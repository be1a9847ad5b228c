package nn

import (
	"math"
	"math/rand"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// Xavier creates a tensor initialized with Xavier/Glorot uniform values:
// U(-limit, limit) with limit = sqrt(6 / (fanIn + fanOut)).
//
// Keeps activation variance roughly constant across layers, which matters
// for the deep stacks the generator and discriminator are built from.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))

	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = (rng.Float32()*2 - 1) * limit
	}
	return t
}

// ZerosInit creates a zero-initialized tensor, the conventional start for
// bias vectors.
func ZerosInit[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}
