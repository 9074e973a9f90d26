package batch

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hyperjump/manabu/internal/sampler"
	"go.uber.org/zap"
)

// Streamer shuffles a fixed sample set and delivers collated batches over a
// bounded channel. The channel capacity gives the consumer prefetching with
// backpressure: when the training step falls behind, the producer blocks
// instead of buffering without bound.
type Streamer struct {
	samples   []sampler.Sample
	batchSize int
	prefetch  int
	rng       *rand.Rand
	logger    *zap.Logger // optional; when set, logs skipped batches
}

// StreamerOption configures a Streamer.
type StreamerOption func(*Streamer)

// WithLogger sets a logger for defensive-skip events.
func WithLogger(l *zap.Logger) StreamerOption {
	return func(s *Streamer) { s.logger = l }
}

// NewStreamer creates a streamer over samples. The final batch of a pass may
// be smaller than batchSize.
func NewStreamer(samples []sampler.Sample, batchSize, prefetch int, rng *rand.Rand, opts ...StreamerOption) (*Streamer, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to stream")
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", batchSize)
	}
	if prefetch < 1 {
		return nil, fmt.Errorf("prefetch must be >= 1, got %d", prefetch)
	}
	s := &Streamer{
		samples:   samples,
		batchSize: batchSize,
		prefetch:  prefetch,
		rng:       rng,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Stream starts one pass over the samples in a fresh random order and returns
// the batch channel. The producer goroutine exits on context cancellation or
// when the pass completes, then closes the channel. Degenerate batches are
// skipped with a warning rather than aborting the pass.
func (s *Streamer) Stream(ctx context.Context) <-chan *Batch {
	out := make(chan *Batch, s.prefetch)
	order := s.rng.Perm(len(s.samples))
	go func() {
		defer close(out)
		for start := 0; start < len(order); start += s.batchSize {
			end := min(start+s.batchSize, len(order))
			group := make([]sampler.Sample, 0, end-start)
			for _, j := range order[start:end] {
				group = append(group, s.samples[j])
			}
			b, err := Collate(group)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("skipping degenerate batch", zap.Error(err))
				}
				continue
			}
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
