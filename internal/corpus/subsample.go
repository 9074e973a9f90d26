package corpus

import "math/rand"

// Subsampler stochastically thins high-frequency tokens out of sequences.
// Each occurrence is dropped independently with the table's drop probability,
// so frequent tokens are probabilistically thinned throughout the corpus
// rather than removed outright.
type Subsampler struct {
	table *FreqTable
	rng   *rand.Rand
}

// NewSubsampler creates a subsampler over table using rng for drop draws.
func NewSubsampler(table *FreqTable, rng *rand.Rand) *Subsampler {
	return &Subsampler{table: table, rng: rng}
}

// Apply returns a copy of seqs with occurrences dropped. The input is never
// mutated; sequences may come back shorter or empty.
func (s *Subsampler) Apply(seqs [][]int) [][]int {
	out := make([][]int, len(seqs))
	for i, seq := range seqs {
		kept := make([]int, 0, len(seq))
		for _, tok := range seq {
			p := s.table.DropProb(tok)
			if p > 0 && s.rng.Float64() < p {
				continue
			}
			kept = append(kept, tok)
		}
		out[i] = kept
	}
	return out
}
