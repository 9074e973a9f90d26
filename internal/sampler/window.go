package sampler

import (
	"fmt"
	"math/rand"
)

// WindowExtractor emits one (center, contexts) sample per token position,
// with the window radius re-drawn uniformly from [1, maxWindow] for every
// center.
type WindowExtractor struct {
	maxWindow int
	rng       *rand.Rand
}

// NewWindowExtractor creates an extractor with the given maximum window size.
func NewWindowExtractor(maxWindow int, rng *rand.Rand) (*WindowExtractor, error) {
	if maxWindow < 1 {
		return nil, fmt.Errorf("max window size must be >= 1, got %d", maxWindow)
	}
	return &WindowExtractor{maxWindow: maxWindow, rng: rng}, nil
}

// Extract emits samples for every position of every sequence, in input order.
// Sequences shorter than 2 tokens cannot hold both a center and a context and
// are skipped. Near sequence boundaries the realized context is naturally
// smaller than 2·radius.
func (w *WindowExtractor) Extract(seqs [][]int) []Sample {
	var out []Sample
	for _, seq := range seqs {
		if len(seq) < 2 {
			continue
		}
		for i := range seq {
			radius := w.rng.Intn(w.maxWindow) + 1
			lo := max(i-radius, 0)
			hi := min(i+radius+1, len(seq))
			ctx := make([]int, 0, hi-lo-1)
			for j := lo; j < hi; j++ {
				if j != i {
					ctx = append(ctx, seq[j])
				}
			}
			out = append(out, Sample{Center: seq[i], Contexts: ctx})
		}
	}
	return out
}
