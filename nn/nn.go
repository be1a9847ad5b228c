// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Module interface defines the common interface for all neural network
// modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization, drawing
// initial weights from rng.
//
// Example:
//
//	backend := cpu.New()
//	rng := rand.New(rand.NewSource(1))
//	layer := nn.NewLinear(64, 128, rng, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Activations

// ReLU applies the rectified linear unit element-wise.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// LeakyReLU applies the leaky rectified linear unit element-wise.
type LeakyReLU[B tensor.Backend] = nn.LeakyReLU[B]

// NewLeakyReLU creates a new LeakyReLU activation with the given negative
// slope.
func NewLeakyReLU[B tensor.Backend](slope float32) *LeakyReLU[B] {
	return nn.NewLeakyReLU[B](slope)
}

// Containers

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container from the given modules.
//
// Example:
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(32, 64, rng, backend),
//	    nn.NewLeakyReLU[B](0.2),
//	    nn.NewLinear(64, 1, rng, backend),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}
