// Package train provides the masked skip-gram objective and the SGD training
// loop over the sampling pipeline.
package train

import "math"

// MaskedLoss computes the masked, renormalized sigmoid binary cross-entropy
// over a (B,L) score grid. Per-element losses are weighted by the mask so
// padded positions contribute nothing, summed across the whole batch, then
// scaled by L / sum(mask). Rows have different true lengths, so this — not a
// mean over rows or over all B·L cells — gives every valid position equal
// weight in the scalar.
func MaskedLoss(pred, labels, mask [][]float32) float64 {
	if len(pred) == 0 {
		return 0
	}
	width := len(pred[0])
	var sum, valid float64
	for i := range pred {
		for j := range pred[i] {
			m := float64(mask[i][j])
			if m == 0 {
				continue
			}
			sum += m * bceWithLogits(float64(pred[i][j]), float64(labels[i][j]))
			valid += m
		}
	}
	if valid == 0 {
		return 0
	}
	return sum * float64(width) / valid
}

// bceWithLogits is the numerically stable form of
// -y·log(σ(x)) - (1-y)·log(1-σ(x)).
func bceWithLogits(x, y float64) float64 {
	return math.Max(x, 0) - x*y + math.Log1p(math.Exp(-math.Abs(x)))
}

// sigmoid is numerically stable for large negative x.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
