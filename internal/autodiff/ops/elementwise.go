package ops

import "github.com/gannet-ml/gannet/internal/tensor"

// AddOp records element-wise addition: output = a + b.
//
// Backward: gradient flows unchanged to both inputs, reduced back to each
// input's shape when the forward pass broadcast it.
type AddOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{a: a, b: b, output: output}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceToShape(outputGrad, op.a.Shape()),
		reduceToShape(outputGrad, op.b.Shape()),
	}
}

// Inputs returns [a, b].
func (op *AddOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns a + b.
func (op *AddOp) Output() *tensor.RawTensor { return op.output }

// SubOp records element-wise subtraction: output = a - b.
type SubOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{a: a, b: b, output: output}
}

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceToShape(outputGrad, op.a.Shape()),
		reduceToShape(backend.MulScalar(outputGrad, -1), op.b.Shape()),
	}
}

// Inputs returns [a, b].
func (op *SubOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns a - b.
func (op *SubOp) Output() *tensor.RawTensor { return op.output }

// MulOp records element-wise multiplication: output = a * b.
//
// Backward: d(a*b)/da = b, d(a*b)/db = a.
type MulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{a: a, b: b, output: output}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceToShape(backend.Mul(outputGrad, op.b), op.a.Shape()),
		reduceToShape(backend.Mul(outputGrad, op.a), op.b.Shape()),
	}
}

// Inputs returns [a, b].
func (op *MulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns a * b.
func (op *MulOp) Output() *tensor.RawTensor { return op.output }

// DivOp records element-wise division: output = a / b.
//
// Backward: d(a/b)/da = 1/b, d(a/b)/db = -a/b².
type DivOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{a: a, b: b, output: output}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.Div(outputGrad, op.b)
	// -a/b² = -(a/b)/b = -output/b
	gradB := backend.MulScalar(backend.Div(backend.Mul(outputGrad, op.output), op.b), -1)
	return []*tensor.RawTensor{
		reduceToShape(gradA, op.a.Shape()),
		reduceToShape(gradB, op.b.Shape()),
	}
}

// Inputs returns [a, b].
func (op *DivOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns a / b.
func (op *DivOp) Output() *tensor.RawTensor { return op.output }
