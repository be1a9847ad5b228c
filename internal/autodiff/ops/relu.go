package ops

import "github.com/gannet-ml/gannet/internal/tensor"

// ReLUOp records a rectified linear unit activation: output = max(0, x).
//
// Backward: the gradient passes through where the input was positive and is
// zero elsewhere.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask, err := tensor.NewRaw(op.input.Shape(), op.input.Device())
	if err != nil {
		panic(err)
	}
	in, md := op.input.Data(), mask.Data()
	for i, v := range in {
		if v > 0 {
			md[i] = 1
		}
	}
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }
