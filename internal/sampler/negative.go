package sampler

import (
	"fmt"
	"math/rand"
	"sort"
)

// NegativeSampler draws noise tokens from the smoothed unigram distribution.
// Draws are amortized through a buffer of pre-drawn candidates shared across
// consecutive samples: a cursor advances through the buffer and a refill only
// happens on exhaustion, so per-sample cost stays near O(contexts·multiplier)
// instead of O(vocabulary) per draw.
//
// The buffer and cursor are instance state; a sampler is not safe for
// concurrent use. Parallel pipelines get one sampler per worker.
type NegativeSampler struct {
	cdf        []float64 // cumulative unnormalized weights
	totalW     float64
	positive   []bool // weight > 0, per token
	nPositive  int
	multiplier int
	buf        []int
	cursor     int
	rng        *rand.Rand
}

// NewNegativeSampler creates a sampler over the given per-token weights.
// multiplier is the number of negatives per context token; bufSize is the
// candidate buffer size.
func NewNegativeSampler(weights []float64, multiplier, bufSize int, rng *rand.Rand) (*NegativeSampler, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("empty weight table")
	}
	if multiplier < 1 {
		return nil, fmt.Errorf("negative multiplier must be >= 1, got %d", multiplier)
	}
	if bufSize < 1 {
		return nil, fmt.Errorf("candidate buffer size must be >= 1, got %d", bufSize)
	}

	s := &NegativeSampler{
		cdf:        make([]float64, len(weights)),
		positive:   make([]bool, len(weights)),
		multiplier: multiplier,
		buf:        make([]int, bufSize),
		cursor:     bufSize, // force a refill on first draw
		rng:        rng,
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %g for token %d", w, i)
		}
		if w > 0 {
			s.positive[i] = true
			s.nPositive++
		}
		sum += w
		s.cdf[i] = sum
	}
	if sum == 0 {
		return nil, fmt.Errorf("no token has positive sampling weight")
	}
	s.totalW = sum
	return s, nil
}

// Attach fills in Negatives for every sample, drawing exactly
// multiplier·len(Contexts) tokens and rejecting members of that sample's own
// context set. Negatives for one sample may coincide with another sample's
// contexts. Samples with no contexts get no negatives.
func (s *NegativeSampler) Attach(samples []Sample) error {
	for i := range samples {
		if err := s.attachOne(&samples[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *NegativeSampler) attachOne(sm *Sample) error {
	if len(sm.Contexts) == 0 {
		sm.Negatives = nil
		return nil
	}
	ctxSet := make(map[int]struct{}, len(sm.Contexts))
	excluded := 0
	for _, c := range sm.Contexts {
		if _, ok := ctxSet[c]; ok {
			continue
		}
		ctxSet[c] = struct{}{}
		if c >= 0 && c < len(s.positive) && s.positive[c] {
			excluded++
		}
	}
	// Every drawable token could be excluded by the context set; rejection
	// sampling would then never terminate.
	if excluded >= s.nPositive {
		return fmt.Errorf(
			"vocabulary too small for negative sampling: all %d drawable tokens are in the context set",
			s.nPositive)
	}

	need := s.multiplier * len(sm.Contexts)
	negs := make([]int, 0, need)
	for len(negs) < need {
		cand := s.next()
		if _, ok := ctxSet[cand]; ok {
			continue
		}
		negs = append(negs, cand)
	}
	sm.Negatives = negs
	return nil
}

// next returns the next pre-drawn candidate, refilling the buffer when the
// cursor runs off the end.
func (s *NegativeSampler) next() int {
	if s.cursor >= len(s.buf) {
		s.refill()
	}
	v := s.buf[s.cursor]
	s.cursor++
	return v
}

func (s *NegativeSampler) refill() {
	for i := range s.buf {
		r := s.rng.Float64() * s.totalW
		s.buf[i] = sort.SearchFloat64s(s.cdf, r)
	}
	s.cursor = 0
}
