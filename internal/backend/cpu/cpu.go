// Package cpu implements the pure-Go CPU compute backend.
package cpu

import (
	"fmt"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// CPUBackend computes tensor operations in pure Go on the host CPU.
//
// Every operation allocates a fresh result tensor; inputs are never
// modified. That property is what lets the autodiff decorator keep input
// values alive for the backward pass.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (b *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *CPUBackend) Device() tensor.Device {
	return tensor.CPU
}

// Add performs element-wise addition with broadcasting.
func (b *CPUBackend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *CPUBackend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *CPUBackend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a * c })
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE-754 float32 semantics (Inf/NaN).
func (b *CPUBackend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a / c })
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (b *CPUBackend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("MatMul: expected 2D tensors, got %v and %v", xs, ys))
	}
	if xs[1] != ys[0] {
		panic(fmt.Sprintf("MatMul: inner dimensions must match, got %v and %v", xs, ys))
	}

	m, k, n := xs[0], xs[1], ys[1]
	result := mustNewRaw(tensor.Shape{m, n})

	xd, yd, rd := x.Data(), y.Data(), result.Data()
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			a := xd[i*k+p]
			if a == 0 {
				continue
			}
			row := yd[p*n : (p+1)*n]
			out := rd[i*n : (i+1)*n]
			for j, v := range row {
				out[j] += a * v
			}
		}
	}
	return result
}

// MulScalar multiplies every element by a scalar.
func (b *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v * scalar })
}

// AddScalar adds a scalar to every element.
func (b *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v + scalar })
}

// ReLU applies max(0, x) element-wise.
func (b *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sum reduces the tensor to its total sum, returned with shape {1}.
func (b *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(tensor.Shape{1})
	var sum float32
	for _, v := range x.Data() {
		sum += v
	}
	result.Data()[0] = sum
	return result
}

// Reshape returns a view of the tensor data under a new shape.
func (b *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("Reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions.
// If axes is empty, all dimensions are reversed.
func (b *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("Transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}
	result := mustNewRaw(newShape)

	srcStrides := t.Strides()
	dstStrides := result.Strides()
	src, dst := t.Data(), result.Data()

	idx := make([]int, ndim)
	for flat := 0; flat < len(dst); flat++ {
		// Decompose destination index, map through the permutation.
		rem := flat
		srcOffset := 0
		for d := 0; d < ndim; d++ {
			idx[d] = rem / dstStrides[d]
			rem %= dstStrides[d]
			srcOffset += idx[d] * srcStrides[axes[d]]
		}
		dst[flat] = src[srcOffset]
	}
	return result
}

func mustNewRaw(shape tensor.Shape) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, tensor.CPU)
	if err != nil {
		panic(err)
	}
	return raw
}

func unaryOp(x *tensor.RawTensor, f func(float32) float32) *tensor.RawTensor {
	result := mustNewRaw(x.Shape())
	xd, rd := x.Data(), result.Data()
	for i, v := range xd {
		rd[i] = f(v)
	}
	return result
}

func binaryOp(x, y *tensor.RawTensor, f func(float32, float32) float32) *tensor.RawTensor {
	if x.Shape().Equal(y.Shape()) {
		result := mustNewRaw(x.Shape())
		xd, yd, rd := x.Data(), y.Data(), result.Data()
		for i := range rd {
			rd[i] = f(xd[i], yd[i])
		}
		return result
	}

	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("binary op: %v", err))
	}

	result := mustNewRaw(outShape)
	rd := result.Data()
	outStrides := result.Strides()
	xIdx := broadcastStrides(x.Shape(), outShape)
	yIdx := broadcastStrides(y.Shape(), outShape)
	xd, yd := x.Data(), y.Data()

	ndim := len(outShape)
	for flat := 0; flat < len(rd); flat++ {
		rem := flat
		xOff, yOff := 0, 0
		for d := 0; d < ndim; d++ {
			i := rem / outStrides[d]
			rem %= outStrides[d]
			xOff += i * xIdx[d]
			yOff += i * yIdx[d]
		}
		rd[flat] = f(xd[xOff], yd[yOff])
	}
	return result
}

// broadcastStrides computes per-output-dimension strides into an input of
// the given shape. Broadcasted dimensions (size 1 or missing) get stride 0.
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	inStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for d := range out {
		if d < offset {
			continue
		}
		if in[d-offset] == 1 && out[d] != 1 {
			continue
		}
		strides[d] = inStrides[d-offset]
	}
	return strides
}
