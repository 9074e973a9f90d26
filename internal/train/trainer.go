package train

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/hyperjump/manabu/internal/batch"
	"github.com/hyperjump/manabu/internal/config"
	"github.com/hyperjump/manabu/internal/corpus"
	"github.com/hyperjump/manabu/internal/embedding"
	"github.com/hyperjump/manabu/internal/sampler"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/blas/blas32"
)

// Trainer runs the full pipeline per epoch — subsample, window extraction,
// negative attachment, batch streaming — and applies plain SGD updates to the
// two embedding tables.
type Trainer struct {
	cfg     *config.Config
	center  *embedding.Table
	context *embedding.Table
	scorer  *embedding.Scorer
	rng     *rand.Rand
	logger  *zap.Logger // optional; when set, logs per-epoch progress
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithLogger sets a logger for progress output.
func WithLogger(l *zap.Logger) TrainerOption {
	return func(t *Trainer) { t.logger = l }
}

// NewTrainer creates a trainer updating the given center and context tables.
func NewTrainer(cfg *config.Config, center, context *embedding.Table, rng *rand.Rand, opts ...TrainerOption) (*Trainer, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	scorer, err := embedding.NewScorer(center, context)
	if err != nil {
		return nil, err
	}
	if center.Dim() != cfg.Model.EmbeddingDim {
		return nil, fmt.Errorf("table dim %d does not match configured embedding_dim %d",
			center.Dim(), cfg.Model.EmbeddingDim)
	}
	t := &Trainer{
		cfg:     cfg,
		center:  center,
		context: context,
		scorer:  scorer,
		rng:     rng,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Run trains for the configured number of epochs over seqs. Subsampling and
// window extraction are re-drawn every epoch. Returns the context error on
// cancellation; the tables keep whatever progress was made.
func (t *Trainer) Run(ctx context.Context, seqs [][]int, table *corpus.FreqTable) error {
	runID := uuid.NewString()

	sub := corpus.NewSubsampler(table, t.rng)
	extractor, err := sampler.NewWindowExtractor(t.cfg.Sampling.MaxWindowSize, t.rng)
	if err != nil {
		return err
	}
	negatives, err := sampler.NewNegativeSampler(
		table.Weights(),
		t.cfg.Sampling.NegativeMultiplier,
		t.cfg.Sampling.CandidateBufferSize,
		t.rng,
	)
	if err != nil {
		return fmt.Errorf("negative sampler: %w", err)
	}

	if t.logger != nil {
		t.logger.Info("training started",
			zap.String("run_id", runID),
			zap.Int("sequences", len(seqs)),
			zap.Int("vocabulary", table.Len()),
			zap.Int("tokens", table.Total()),
			zap.Int("epochs", t.cfg.Training.Epochs),
		)
	}

	for epoch := 1; epoch <= t.cfg.Training.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		samples := extractor.Extract(sub.Apply(seqs))
		if len(samples) == 0 {
			if t.logger != nil {
				t.logger.Warn("epoch produced no samples",
					zap.String("run_id", runID), zap.Int("epoch", epoch))
			}
			continue
		}
		if err := negatives.Attach(samples); err != nil {
			return fmt.Errorf("attach negatives: %w", err)
		}

		streamOpts := []batch.StreamerOption{}
		if t.logger != nil {
			streamOpts = append(streamOpts, batch.WithLogger(t.logger))
		}
		streamer, err := batch.NewStreamer(samples,
			t.cfg.Training.BatchSize, t.cfg.Training.Prefetch, t.rng, streamOpts...)
		if err != nil {
			return err
		}

		var lossSum float64
		steps := 0
		for b := range streamer.Stream(ctx) {
			lossSum += t.Step(b)
			steps++
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.logger != nil && steps > 0 {
			t.logger.Info("epoch finished",
				zap.String("run_id", runID),
				zap.Int("epoch", epoch),
				zap.Int("samples", len(samples)),
				zap.Int("steps", steps),
				zap.Float64("avg_loss", lossSum/float64(steps)),
			)
		}
	}
	return nil
}

// Step scores one batch, applies the SGD update to both tables, and returns
// the batch's masked loss. The gradient matches the MaskedLoss reduction:
// d/dx = (σ(x) - y) · mask · L / sum(mask).
func (t *Trainer) Step(b *batch.Batch) float64 {
	pred := t.scorer.Score(b)
	loss := MaskedLoss(pred, b.Labels, b.Mask)

	var valid float64
	for i := range b.Mask {
		for _, m := range b.Mask[i] {
			valid += float64(m)
		}
	}
	if valid == 0 {
		return loss
	}
	scale := float64(b.Width()) / valid
	lr := float32(t.cfg.Training.LearningRate)

	dim := t.center.Dim()
	grad := make([]float32, dim)
	for i, c := range b.Centers {
		v := t.center.Vector(c)
		vVec := blas32.Vector{N: dim, Inc: 1, Data: v}
		for j := range grad {
			grad[j] = 0
		}
		gradVec := blas32.Vector{N: dim, Inc: 1, Data: grad}

		for j, tok := range b.Tokens[i] {
			if b.Mask[i][j] == 0 {
				continue
			}
			g := float32((sigmoid(float64(pred[i][j])) - float64(b.Labels[i][j])) * scale)
			u := t.context.Vector(tok)
			uVec := blas32.Vector{N: dim, Inc: 1, Data: u}
			// Accumulate the center gradient from u before updating u,
			// then update u with the not-yet-updated v.
			blas32.Axpy(g, uVec, gradVec)
			blas32.Axpy(-lr*g, vVec, uVec)
		}
		blas32.Axpy(-lr, gradVec, vVec)
	}
	return loss
}
