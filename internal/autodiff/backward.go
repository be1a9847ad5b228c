package autodiff

import (
	"github.com/gannet-ml/gannet/internal/tensor"
)

// BackwardCapable is an interface for backends that support a backward
// pass. AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t with respect to every tensor on the
// tape, seeding the output gradient with ones.
//
// An empty tape returns an empty map rather than failing: a loss that never
// touched any recorded input is a constant, and constants have no
// gradients.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y := x.Mul(x)
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x.Raw()]
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		return make(map[*tensor.RawTensor]*tensor.RawTensor)
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), backend.Device())
	if err != nil {
		panic(err)
	}
	data := outputGrad.Data()
	for i := range data {
		data[i] = 1.0
	}

	return tape.Backward(t.Raw(), outputGrad, backend)
}
