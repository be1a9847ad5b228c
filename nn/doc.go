// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks for the Gannet
// framework.
//
// # Overview
//
// This package provides:
//   - Module: base interface for all network components
//   - Parameter: trainable tensors referenced by optimizers
//   - Linear: fully connected layer
//   - ReLU, LeakyReLU: activations
//   - Sequential: container for stacking layers
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/gannet-ml/gannet/autodiff"
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	    "github.com/gannet-ml/gannet/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    rng := rand.New(rand.NewSource(1))
//
//	    model := nn.NewSequential[*autodiff.Backend[*cpu.Backend]](
//	        nn.NewLinear(32, 64, rng, backend),
//	        nn.NewLeakyReLU[*autodiff.Backend[*cpu.Backend]](0.2),
//	        nn.NewLinear(64, 1, rng, backend),
//	    )
//	    _ = model
//	}
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn
