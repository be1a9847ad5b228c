// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - NumPy-compatible broadcasting
//   - Batch processing
//
// # Basic Usage
//
//	import (
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	    "github.com/gannet-ml/gannet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each operation allocates
// its result and does not share mutable state.
package cpu
