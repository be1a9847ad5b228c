// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gan provides hinge-loss GAN training for the Gannet framework.
//
// # Overview
//
// This package contains the three layers of GAN training:
//   - Hinge losses: DiscriminatorHingeLoss, GeneratorHingeLoss, HingeLoss
//   - Minimization: Minimize runs one record-backward-step cycle
//   - Driver: Train converts a step budget into an epoch schedule and
//     runs a Model's fit loop with logging and checkpoint callbacks
//
// The GAN type is a ready-made Model implementation pairing a generator
// and discriminator with per-network Adam optimizers.
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/gannet-ml/gannet/autodiff"
//	    "github.com/gannet-ml/gannet/backend/cpu"
//	    "github.com/gannet-ml/gannet/gan"
//	    "github.com/gannet-ml/gannet/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    rng := rand.New(rand.NewSource(1))
//
//	    generator := nn.NewSequential[*autodiff.Backend[*cpu.Backend]](
//	        nn.NewLinear(32, 64, rng, backend),
//	        nn.NewReLU[*autodiff.Backend[*cpu.Backend]](),
//	        nn.NewLinear(64, 2, rng, backend),
//	    )
//	    discriminator := nn.NewSequential[*autodiff.Backend[*cpu.Backend]](
//	        nn.NewLinear(2, 64, rng, backend),
//	        nn.NewLeakyReLU[*autodiff.Backend[*cpu.Backend]](0.2),
//	        nn.NewLinear(64, 1, rng, backend),
//	    )
//
//	    model := gan.NewGAN(generator, discriminator, gan.GANConfig{LatentDim: 32}, backend)
//	    _, err := gan.Train[*cpu.Backend](model, dataset, "runs", gan.TrainOptions{
//	        NumSteps: 10000,
//	        LogEvery: 100,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Loss Normalization
//
// Both hinge losses divide by the global batch size, the total sample
// count of one step across all replicas, so per-sample averaging stays
// correct when a step is split. Single-process training passes the local
// batch size.
//
// # Error Handling
//
// Functions return ErrInvalidArgument for caller mistakes and
// ErrComputation for non-finite losses; both are matched with errors.Is.
// A failed step is fatal for the run; resuming from a checkpoint is the
// recovery mechanism.
package gan
