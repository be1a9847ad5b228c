package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
//   - Autodiff: decorator that records operations on a gradient tape
//     (internal/autodiff)
type Backend interface {
	// Element-wise binary operations (with broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar float32) *RawTensor
	AddScalar(x *RawTensor, scalar float32) *RawTensor

	// Activation functions
	ReLU(x *RawTensor) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor // total sum, scalar result of shape {1}

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
