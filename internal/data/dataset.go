// Package data provides dataset abstractions for the training loop.
package data

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// ErrEndOfData signals that a dataset has been exhausted for the current
// pass. Callers reset the dataset and continue; it is not a failure.
var ErrEndOfData = errors.New("data: end of dataset")

// Dataset yields training batches. Each batch is a tensor whose leading
// dimension is the batch size; the training driver derives the global batch
// size from the first batch it sees.
//
// Implementations are not safe for concurrent use; the training loop pulls
// one batch at a time.
type Dataset[B tensor.Backend] interface {
	// Next returns the next batch, or ErrEndOfData when the pass is done.
	Next() (*tensor.Tensor[B], error)

	// Reset rewinds the dataset for another pass.
	Reset() error
}

// TensorDataset serves fixed-size batches sliced from an in-memory sample
// tensor of shape [num_samples, features...], reshuffling on every Reset.
type TensorDataset[B tensor.Backend] struct {
	samples   *tensor.Tensor[B]
	batchSize int
	order     []int
	cursor    int
	rng       *rand.Rand
	backend   B
}

// NewTensorDataset creates a dataset over the given samples.
// Samples must have at least batchSize rows; a trailing partial batch is
// dropped so every batch has the same leading dimension.
func NewTensorDataset[B tensor.Backend](samples *tensor.Tensor[B], batchSize int, seed int64, backend B) (*TensorDataset[B], error) {
	shape := samples.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("data: samples must have shape [n, features...], got %v", shape)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("data: batch size must be > 0, got %d", batchSize)
	}
	if shape[0] < batchSize {
		return nil, fmt.Errorf("data: need at least %d samples, got %d", batchSize, shape[0])
	}

	d := &TensorDataset[B]{
		samples:   samples,
		batchSize: batchSize,
		rng:       rand.New(rand.NewSource(seed)),
		backend:   backend,
	}
	d.shuffle()
	return d, nil
}

func (d *TensorDataset[B]) shuffle() {
	n := d.samples.Shape()[0]
	d.order = d.rng.Perm(n)
	d.cursor = 0
}

// BatchSize returns the per-batch leading dimension.
func (d *TensorDataset[B]) BatchSize() int {
	return d.batchSize
}

// Next returns the next shuffled batch, or ErrEndOfData at the end of the
// pass.
func (d *TensorDataset[B]) Next() (*tensor.Tensor[B], error) {
	if d.cursor+d.batchSize > len(d.order) {
		return nil, ErrEndOfData
	}

	shape := d.samples.Shape()
	rowLen := shape.NumElements() / shape[0]

	batchShape := shape.Clone()
	batchShape[0] = d.batchSize
	batch := tensor.Zeros(batchShape, d.backend)

	src := d.samples.Data()
	dst := batch.Data()
	for i := 0; i < d.batchSize; i++ {
		row := d.order[d.cursor+i]
		copy(dst[i*rowLen:(i+1)*rowLen], src[row*rowLen:(row+1)*rowLen])
	}
	d.cursor += d.batchSize

	return batch, nil
}

// Reset reshuffles the samples and rewinds to the start.
func (d *TensorDataset[B]) Reset() error {
	d.shuffle()
	return nil
}
