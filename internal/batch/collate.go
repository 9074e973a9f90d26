// Package batch packs ragged skip-gram samples into fixed-width padded
// batches and streams them to the training step.
package batch

import (
	"fmt"

	"github.com/hyperjump/manabu/internal/sampler"
)

// Batch holds four parallel arrays over B samples, padded to a common width
// L = max(len(contexts)+len(negatives)). Tokens is zero-padded on the right;
// the mask, not the padding value, is the sole source of truth for validity
// (0 is also a legitimate vocabulary index).
type Batch struct {
	Centers []int       // (B), one center token per row
	Tokens  [][]int     // (B,L), contexts then negatives, zero-padded
	Mask    [][]float32 // (B,L), 1 where the position is valid
	Labels  [][]float32 // (B,L), 1 where the position is a true context
}

// Size returns the number of rows B.
func (b *Batch) Size() int {
	return len(b.Centers)
}

// Width returns the padded row width L.
func (b *Batch) Width() int {
	if len(b.Tokens) == 0 {
		return 0
	}
	return len(b.Tokens[0])
}

// Collate packs samples into a Batch. It is a pure reshape: no randomness,
// rows independent, so the same input always produces identical tensors.
// A batch whose samples all have empty contexts would have width 0; that is
// an upstream invariant violation (the window extractor skips sequences
// shorter than 2) and is reported as an error.
func Collate(samples []sampler.Sample) (*Batch, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	width := 0
	for _, sm := range samples {
		if n := len(sm.Contexts) + len(sm.Negatives); n > width {
			width = n
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("zero-width batch: no sample has contexts or negatives")
	}

	b := &Batch{
		Centers: make([]int, len(samples)),
		Tokens:  make([][]int, len(samples)),
		Mask:    make([][]float32, len(samples)),
		Labels:  make([][]float32, len(samples)),
	}
	for i, sm := range samples {
		tokens := make([]int, width)
		mask := make([]float32, width)
		labels := make([]float32, width)

		n := copy(tokens, sm.Contexts)
		copy(tokens[n:], sm.Negatives)
		valid := len(sm.Contexts) + len(sm.Negatives)
		for j := 0; j < valid; j++ {
			mask[j] = 1
		}
		for j := 0; j < len(sm.Contexts); j++ {
			labels[j] = 1
		}

		b.Centers[i] = sm.Center
		b.Tokens[i] = tokens
		b.Mask[i] = mask
		b.Labels[i] = labels
	}
	return b, nil
}
