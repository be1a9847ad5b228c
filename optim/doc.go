// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural
// networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/gannet-ml/gannet/autodiff"
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	    "github.com/gannet-ml/gannet/nn"
//	    "github.com/gannet-ml/gannet/optim"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewLinear(64, 1, rng, backend)
//
//	    optimizer := optim.NewAdam(
//	        model.Parameters(),
//	        optim.AdamConfig{LR: 0.001},
//	        backend,
//	    )
//
//	    for range numSteps {
//	        optimizer.ZeroGrad()
//	        loss := forward(model)
//	        grads := autodiff.Backward(loss, backend)
//	        optimizer.Step(grads)
//	    }
//	}
//
// Most training code does not drive an optimizer by hand; the gan package
// wraps the record-backward-step cycle in its Minimize function.
package optim
