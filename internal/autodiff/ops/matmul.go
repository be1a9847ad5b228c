package ops

import "github.com/gannet-ml/gannet/internal/tensor"

// MatMulOp records matrix multiplication: output = a @ b.
//
// Backward:
//
//	d(A@B)/dA = grad @ Bᵀ
//	d(A@B)/dB = Aᵀ @ grad
type MatMulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{a: a, b: b, output: output}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.MatMul(outputGrad, backend.Transpose(op.b))
	gradB := backend.MatMul(backend.Transpose(op.a), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns [a, b].
func (op *MatMulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns a @ b.
func (op *MatMulOp) Output() *tensor.RawTensor { return op.output }
