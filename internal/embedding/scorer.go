package embedding

import (
	"fmt"

	"github.com/hyperjump/manabu/internal/batch"
	"gonum.org/v1/gonum/blas/blas32"
)

// Scorer computes batched skip-gram forward scores: for every row
// independently, the dot product of the center embedding with each
// context/negative embedding. Padding positions get a score like any other;
// validity is decided downstream by the mask.
type Scorer struct {
	center  *Table
	context *Table
}

// NewScorer creates a scorer over a center-role and a context-role table.
// The tables must be distinct objects of the same shape.
func NewScorer(center, context *Table) (*Scorer, error) {
	if center == nil || context == nil {
		return nil, fmt.Errorf("scorer needs both tables")
	}
	if center == context {
		return nil, fmt.Errorf("center and context roles must use distinct tables")
	}
	if center.Dim() != context.Dim() || center.Rows() != context.Rows() {
		return nil, fmt.Errorf("table shape mismatch: %dx%d vs %dx%d",
			center.Rows(), center.Dim(), context.Rows(), context.Dim())
	}
	return &Scorer{center: center, context: context}, nil
}

// Score returns the (B,L) score grid for b: entry [i][j] is the inner product
// of the center vector for row i with the embedding of token [i][j]. Each row
// is scored on its own, never as a cross-batch matrix product.
func (s *Scorer) Score(b *batch.Batch) [][]float32 {
	out := make([][]float32, b.Size())
	for i, c := range b.Centers {
		v := asBlas(s.center.Vector(c))
		row := make([]float32, b.Width())
		for j, tok := range b.Tokens[i] {
			row[j] = blas32.Dot(v, asBlas(s.context.Vector(tok)))
		}
		out[i] = row
	}
	return out
}
