package data

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// Prefetcher decouples batch preparation from the compute loop: a
// background goroutine pulls batches from the wrapped dataset into a
// buffered channel while the training step runs.
//
// The wrapped dataset is only ever touched from the loader goroutine, so a
// non-thread-safe Dataset is fine. Closing happens through context
// cancellation.
type Prefetcher[B tensor.Backend] struct {
	source  Dataset[B]
	batches chan *tensor.Tensor[B]
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPrefetcher starts prefetching from source with the given buffer depth.
// The source is reset and re-read endlessly; the consumer sees an infinite
// stream and never receives ErrEndOfData.
func NewPrefetcher[B tensor.Backend](ctx context.Context, source Dataset[B], depth int) *Prefetcher[B] {
	if depth <= 0 {
		depth = 2
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	p := &Prefetcher[B]{
		source:  source,
		batches: make(chan *tensor.Tensor[B], depth),
		group:   group,
		ctx:     ctx,
		cancel:  cancel,
	}

	group.Go(p.loop)
	return p
}

func (p *Prefetcher[B]) loop() error {
	defer close(p.batches)
	for {
		batch, err := p.source.Next()
		if errors.Is(err, ErrEndOfData) {
			if err := p.source.Reset(); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		select {
		case p.batches <- batch:
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
	}
}

// Next returns the next prefetched batch.
func (p *Prefetcher[B]) Next() (*tensor.Tensor[B], error) {
	select {
	case batch, ok := <-p.batches:
		if !ok {
			if err := p.group.Wait(); err != nil {
				return nil, err
			}
			return nil, ErrEndOfData
		}
		return batch, nil
	case <-p.ctx.Done():
		return nil, p.ctx.Err()
	}
}

// Reset is a no-op: the loader already cycles the source dataset.
func (p *Prefetcher[B]) Reset() error {
	return nil
}

// Close stops the loader goroutine and waits for it to exit.
func (p *Prefetcher[B]) Close() error {
	p.cancel()
	err := p.group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
