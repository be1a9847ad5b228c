package ops

import "github.com/gannet-ml/gannet/internal/tensor"

// SumOp records a total-sum reduction to a shape {1} scalar.
//
// Backward: the scalar gradient is broadcast to every input element.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward computes the input gradient for the sum reduction.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		fullLike(op.input.Shape(), outputGrad.Data()[0], op.input.Device()),
	}
}

// Inputs returns [x].
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sum(x) with shape {1}.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }
