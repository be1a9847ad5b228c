// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/gannet-ml/gannet/autodiff"
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	    "github.com/gannet-ml/gannet/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    base := cpu.New()
//	    backend := autodiff.New(base)
//
//	    backend.Tape().StartRecording()
//	    x := tensor.Ones(tensor.Shape{2, 3}, backend)
//	    y := x.Mul(x).Sum()
//	    backend.Tape().StopRecording()
//
//	    // Compute gradients
//	    grads := autodiff.Backward(y, backend)
//	}
package autodiff

import (
	"github.com/gannet-ml/gannet/internal/autodiff"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is the interface for backends that support
// backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t with respect to every tensor on the
// tape, keyed by raw tensor. A tape with no recorded operations yields an
// empty map.
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
