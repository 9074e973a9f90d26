// Package sampler turns subsampled sequences into skip-gram training samples:
// (center, contexts) pairs from randomly sized windows, with frequency-weighted
// negatives attached.
package sampler

// Sample pairs a center token with the contexts drawn from its window and,
// once attached by a NegativeSampler, the noise tokens drawn against them.
type Sample struct {
	Center    int
	Contexts  []int
	Negatives []int
}
