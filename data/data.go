// Copyright 2026 Gannet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides dataset abstractions for training loops.
//
// A Dataset yields batch tensors whose leading dimension is the batch
// size. TensorDataset serves shuffled batches from an in-memory sample
// tensor; Prefetcher overlaps batch preparation with compute.
package data

import (
	"context"
	"math/rand"

	"github.com/gannet-ml/gannet/internal/data"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// ErrEndOfData signals that a dataset has been exhausted for the current
// pass. Callers reset the dataset and continue; it is not a failure.
var ErrEndOfData = data.ErrEndOfData

// Dataset yields training batches.
type Dataset[B tensor.Backend] = data.Dataset[B]

// TensorDataset serves fixed-size batches sliced from an in-memory sample
// tensor, reshuffling on every Reset.
type TensorDataset[B tensor.Backend] = data.TensorDataset[B]

// NewTensorDataset creates a dataset over the given samples of shape
// [num_samples, features...]. A trailing partial batch is dropped so every
// batch has the same leading dimension.
func NewTensorDataset[B tensor.Backend](samples *tensor.Tensor[B], batchSize int, seed int64, backend B) (*TensorDataset[B], error) {
	return data.NewTensorDataset(samples, batchSize, seed, backend)
}

// Prefetcher wraps a Dataset and prepares batches ahead of the consumer on
// a background goroutine.
type Prefetcher[B tensor.Backend] = data.Prefetcher[B]

// NewPrefetcher starts prefetching up to depth batches from source. Close
// must be called to release the background goroutine.
func NewPrefetcher[B tensor.Backend](ctx context.Context, source Dataset[B], depth int) *Prefetcher[B] {
	return data.NewPrefetcher(ctx, source, depth)
}

// GaussianMixture samples n two-dimensional points from a ring of modes
// centered on the origin, a standard toy distribution for GAN demos.
func GaussianMixture[B tensor.Backend](n, modes int, radius, stddev float64, rng *rand.Rand, backend B) (*tensor.Tensor[B], error) {
	return data.GaussianMixture(n, modes, radius, stddev, rng, backend)
}
