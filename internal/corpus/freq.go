// Package corpus provides the token frequency table and frequency-based
// subsampling over pre-tokenized sequences.
package corpus

import (
	"fmt"
	"math"
)

// smoothing is the exponent applied to raw counts for negative sampling,
// from the word2vec unigram distribution.
const smoothing = 0.75

// FreqTable maps token indices to occurrence counts, plus the statistics
// derived from them: the subsampling drop probability per token and the
// smoothed negative-sampling weight per token. Read-only after construction.
type FreqTable struct {
	counts  []int
	total   int
	dropP   []float64
	weights []float64
}

// NewFreqTable builds a frequency table from per-index counts. counts[i] is
// the number of occurrences of token index i in the corpus; threshold is the
// subsampling threshold τ.
func NewFreqTable(counts []int, threshold float64) (*FreqTable, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("empty count table")
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("subsample threshold must be positive, got %g", threshold)
	}
	total := 0
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("negative count %d for token %d", c, i)
		}
		total += c
	}
	if total == 0 {
		return nil, fmt.Errorf("corpus has no token occurrences")
	}

	t := &FreqTable{
		counts:  append([]int(nil), counts...),
		total:   total,
		dropP:   make([]float64, len(counts)),
		weights: make([]float64, len(counts)),
	}
	for i, c := range counts {
		if c == 0 {
			continue
		}
		// Tokens with c <= τ·N get p <= 0 and are never dropped.
		p := 1 - math.Sqrt(threshold*float64(total)/float64(c))
		if p > 0 {
			t.dropP[i] = p
		}
		t.weights[i] = math.Pow(float64(c), smoothing)
	}
	return t, nil
}

// CountsFromSequences tallies token occurrences across seqs. The table size
// is the largest token index plus one. Returns an error on a negative index.
func CountsFromSequences(seqs [][]int) ([]int, error) {
	maxIdx := -1
	for _, seq := range seqs {
		for _, tok := range seq {
			if tok < 0 {
				return nil, fmt.Errorf("negative token index %d", tok)
			}
			if tok > maxIdx {
				maxIdx = tok
			}
		}
	}
	if maxIdx < 0 {
		return nil, fmt.Errorf("corpus has no token occurrences")
	}
	counts := make([]int, maxIdx+1)
	for _, seq := range seqs {
		for _, tok := range seq {
			counts[tok]++
		}
	}
	return counts, nil
}

// Len returns the vocabulary size (largest token index plus one).
func (t *FreqTable) Len() int {
	return len(t.counts)
}

// Total returns the total token occurrence count N.
func (t *FreqTable) Total() int {
	return t.total
}

// Count returns the occurrence count for token i, or 0 if i is out of range.
func (t *FreqTable) Count(i int) int {
	if i < 0 || i >= len(t.counts) {
		return 0
	}
	return t.counts[i]
}

// DropProb returns the subsampling drop probability for token i, or 0 if i
// is out of range.
func (t *FreqTable) DropProb(i int) float64 {
	if i < 0 || i >= len(t.dropP) {
		return 0
	}
	return t.dropP[i]
}

// Weights returns the smoothed negative-sampling weights, indexed by token.
// The slice is shared and must not be modified.
func (t *FreqTable) Weights() []float64 {
	return t.weights
}
