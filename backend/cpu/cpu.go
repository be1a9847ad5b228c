// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/gannet-ml/gannet/internal/backend/cpu"
	"github.com/gannet-ml/gannet/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of all tensor
// operations.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	    "github.com/gannet-ml/gannet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
