package ops

import "github.com/gannet-ml/gannet/internal/tensor"

// reduceToShape sums a gradient down to a target shape, undoing the
// broadcasting the forward pass applied. Dimensions that were expanded
// (size 1 in the target, or missing entirely) are summed over.
func reduceToShape(grad *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}

	out, err := tensor.NewRaw(target, grad.Device())
	if err != nil {
		panic(err)
	}

	gradShape := grad.Shape()
	gradStrides := grad.Strides()
	ndim := len(gradShape)
	offset := ndim - len(target)

	// Stride into the target for each gradient dimension; 0 where the
	// dimension was broadcast.
	targetStrides := make([]int, ndim)
	outStrides := target.ComputeStrides()
	for d := 0; d < ndim; d++ {
		if d < offset {
			continue
		}
		if target[d-offset] == 1 && gradShape[d] != 1 {
			continue
		}
		targetStrides[d] = outStrides[d-offset]
	}

	gd, od := grad.Data(), out.Data()
	for flat := 0; flat < len(gd); flat++ {
		rem := flat
		outOff := 0
		for d := 0; d < ndim; d++ {
			i := rem / gradStrides[d]
			rem %= gradStrides[d]
			outOff += i * targetStrides[d]
		}
		od[outOff] += gd[flat]
	}
	return out
}

// fullLike creates a tensor of the given shape filled with a constant.
func fullLike(shape tensor.Shape, value float32, device tensor.Device) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, device)
	if err != nil {
		panic(err)
	}
	data := out.Data()
	for i := range data {
		data[i] = value
	}
	return out
}
