package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Ones(Shape{3, 1}, backend)
//	b := tensor.Ones(Shape{3, 5}, backend)
//	c := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	result := t.backend.Add(t.raw, other.raw)
	return New(result, t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[B]) Sub(other *Tensor[B]) *Tensor[B] {
	result := t.backend.Sub(t.raw, other.raw)
	return New(result, t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[B]) Mul(other *Tensor[B]) *Tensor[B] {
	result := t.backend.Mul(t.raw, other.raw)
	return New(result, t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[B]) Div(other *Tensor[B]) *Tensor[B] {
	result := t.backend.Div(t.raw, other.raw)
	return New(result, t.backend)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[B]) MatMul(other *Tensor[B]) *Tensor[B] {
	result := t.backend.MatMul(t.raw, other.raw)
	return New(result, t.backend)
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[B]) MulScalar(scalar float32) *Tensor[B] {
	result := t.backend.MulScalar(t.raw, scalar)
	return New(result, t.backend)
}

// AddScalar adds a scalar to every element.
func (t *Tensor[B]) AddScalar(scalar float32) *Tensor[B] {
	result := t.backend.AddScalar(t.raw, scalar)
	return New(result, t.backend)
}

// Neg negates every element.
func (t *Tensor[B]) Neg() *Tensor[B] {
	return t.MulScalar(-1)
}

// ReLU applies the rectified linear unit element-wise: max(0, x).
func (t *Tensor[B]) ReLU() *Tensor[B] {
	result := t.backend.ReLU(t.raw)
	return New(result, t.backend)
}

// Sum reduces the tensor to its total sum, returned as a shape {1} tensor.
func (t *Tensor[B]) Sum() *Tensor[B] {
	result := t.backend.Sum(t.raw)
	return New(result, t.backend)
}

// Reshape returns a tensor with the same data but a different shape.
// The new shape must have the same number of elements.
func (t *Tensor[B]) Reshape(newShape ...int) *Tensor[B] {
	result := t.backend.Reshape(t.raw, Shape(newShape))
	return New(result, t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
// If axes is empty, all dimensions are reversed.
func (t *Tensor[B]) Transpose(axes ...int) *Tensor[B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New(result, t.backend)
}

// T is a shortcut for 2D transpose (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[B]) T() *Tensor[B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}
