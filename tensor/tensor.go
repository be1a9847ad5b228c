// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// Type aliases for public API

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Backend is the interface device-specific compute implementations satisfy.
type Backend = tensor.Backend

// RawTensor is the untyped tensor the backends and optimizers operate on.
type RawTensor = tensor.RawTensor

// Tensor is a generic float32 tensor bound to a backend.
//
// B is the backend implementation (CPU, or an autodiff wrapper around it).
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Element-wise addition
type Tensor[B Backend] = tensor.Tensor[B]

// Creation functions

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros(shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Ones(shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	return tensor.Full(shape, value, b)
}

// Randn creates a tensor filled with random values from the standard normal
// distribution N(0, 1), drawn from rng.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	return tensor.Randn(shape, rng, b)
}

// Rand creates a tensor filled with random values from the uniform
// distribution U(0, 1), drawn from rng.
func Rand[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	return tensor.Rand(shape, rng, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	backend := cpu.New()
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions
// like Zeros, Ones, or FromSlice instead.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return tensor.New(raw, b)
}

// NewRaw creates a new raw tensor with the given shape and device.
//
// This is a low-level function. Most users should use high-level creation
// functions instead.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}

// Utility functions

// BroadcastShapes computes the broadcast shape for two shapes following
// NumPy broadcasting rules. Returns the resulting shape and a flag
// indicating whether either operand needs broadcasting.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
