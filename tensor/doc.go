// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the Gannet
// framework.
//
// # Overview
//
// Tensors are the fundamental data structure in Gannet. This package
// provides:
//   - Generic backend-bound tensors (Tensor[B])
//   - NumPy-style broadcasting
//   - Device abstraction
//
// # Basic Usage
//
//	import (
//	    "github.com/gannet-ml/gannet/tensor"
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones(tensor.Shape{2, 3}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	    result := x.MatMul(y.T())
//	}
//
// # Broadcasting
//
// Tensor operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros(tensor.Shape{3, 1}, backend)  // (3, 1)
//	b := tensor.Ones(tensor.Shape{3, 4}, backend)   // (3, 4)
//	c := a.Add(b)                                   // (3, 4)
//
// # Available Operations
//
// Tensor[B] provides element-wise arithmetic (Add, Sub, Mul, Div), scalar
// variants (AddScalar, MulScalar), matrix multiplication (MatMul), the
// ReLU non-linearity, reductions (Sum), and shape manipulation (Reshape,
// Transpose, T). See method documentation for details.
package tensor
