// Package embedding provides dense embedding tables and the skip-gram
// forward scorer over them.
package embedding

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/blas/blas32"
)

// Table is a dense vocab×dim embedding table stored row-major. A skip-gram
// model owns two independent tables, one for the center role and one for the
// context/negative role; they must diverge during training and are never
// shared.
type Table struct {
	rows int
	dim  int
	data []float32
}

// NewTable creates a table initialized uniformly in [-0.5/dim, 0.5/dim),
// the word2vec initialization scale.
func NewTable(rows, dim int, rng *rand.Rand) (*Table, error) {
	if rows < 1 {
		return nil, fmt.Errorf("table rows must be >= 1, got %d", rows)
	}
	if dim < 1 {
		return nil, fmt.Errorf("embedding dim must be >= 1, got %d", dim)
	}
	t := &Table{
		rows: rows,
		dim:  dim,
		data: make([]float32, rows*dim),
	}
	scale := 1 / float32(dim)
	for i := range t.data {
		t.data[i] = (rng.Float32() - 0.5) * scale
	}
	return t, nil
}

// Rows returns the vocabulary size.
func (t *Table) Rows() int {
	return t.rows
}

// Dim returns the embedding dimension.
func (t *Table) Dim() int {
	return t.dim
}

// Vector returns the embedding for token i. The slice aliases the table's
// backing storage, so in-place updates train the table.
func (t *Table) Vector(i int) []float32 {
	return t.data[i*t.dim : (i+1)*t.dim : (i+1)*t.dim]
}

// asBlas wraps a vector for blas32 calls.
func asBlas(v []float32) blas32.Vector {
	return blas32.Vector{N: len(v), Inc: 1, Data: v}
}
