package train

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/hyperjump/manabu/internal/batch"
	"github.com/hyperjump/manabu/internal/config"
	"github.com/hyperjump/manabu/internal/corpus"
	"github.com/hyperjump/manabu/internal/embedding"
	"github.com/hyperjump/manabu/internal/sampler"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Sampling.MaxWindowSize = 2
	cfg.Sampling.NegativeMultiplier = 2
	cfg.Sampling.CandidateBufferSize = 128
	cfg.Model.EmbeddingDim = 16
	cfg.Training.BatchSize = 8
	cfg.Training.Epochs = 2
	cfg.Training.LearningRate = 0.05
	return cfg
}

func testTables(t *testing.T, cfg *config.Config, vocab int, rng *rand.Rand) (*embedding.Table, *embedding.Table) {
	t.Helper()
	center, err := embedding.NewTable(vocab, cfg.Model.EmbeddingDim, rng)
	if err != nil {
		t.Fatal(err)
	}
	context, err := embedding.NewTable(vocab, cfg.Model.EmbeddingDim, rng)
	if err != nil {
		t.Fatal(err)
	}
	return center, context
}

func TestTrainer_stepReducesLossOnFixedBatch(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(13))
	center, context := testTables(t, cfg, 10, rng)
	tr, err := NewTrainer(cfg, center, context, rng)
	if err != nil {
		t.Fatal(err)
	}

	b, err := batch.Collate([]sampler.Sample{
		{Center: 1, Contexts: []int{2, 3}, Negatives: []int{4, 5, 6, 7}},
		{Center: 8, Contexts: []int{9}, Negatives: []int{0, 4}},
	})
	if err != nil {
		t.Fatal(err)
	}

	first := tr.Step(b)
	var last float64
	for i := 0; i < 30; i++ {
		last = tr.Step(b)
	}
	if !(last < first) {
		t.Errorf("loss did not decrease on repeated steps: first %v, last %v", first, last)
	}
	if math.IsNaN(last) || math.IsInf(last, 0) {
		t.Errorf("loss is not finite: %v", last)
	}
}

func TestTrainer_stepUpdatesBothTables(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(21))
	center, context := testTables(t, cfg, 6, rng)
	tr, err := NewTrainer(cfg, center, context, rng)
	if err != nil {
		t.Fatal(err)
	}

	before := append([]float32(nil), center.Vector(1)...)
	beforeCtx := append([]float32(nil), context.Vector(2)...)

	b, err := batch.Collate([]sampler.Sample{
		{Center: 1, Contexts: []int{2}, Negatives: []int{3, 4}},
	})
	if err != nil {
		t.Fatal(err)
	}
	tr.Step(b)

	changed := func(a, b []float32) bool {
		for i := range a {
			if a[i] != b[i] {
				return true
			}
		}
		return false
	}
	if !changed(before, center.Vector(1)) {
		t.Error("center table row not updated")
	}
	if !changed(beforeCtx, context.Vector(2)) {
		t.Error("context table row not updated")
	}
}

func TestTrainer_run(t *testing.T) {
	cfg := testConfig()
	// High threshold so the tiny corpus is not subsampled away.
	cfg.Sampling.SubsampleThreshold = 0.1
	rng := rand.New(rand.NewSource(99))

	// Repetitive corpus over a 10-token vocabulary.
	seqs := make([][]int, 40)
	for i := range seqs {
		seqs[i] = []int{i % 10, (i + 1) % 10, (i + 2) % 10, (i + 3) % 10, (i + 4) % 10}
	}
	counts, err := corpus.CountsFromSequences(seqs)
	if err != nil {
		t.Fatal(err)
	}
	table, err := corpus.NewFreqTable(counts, cfg.Sampling.SubsampleThreshold)
	if err != nil {
		t.Fatal(err)
	}

	center, ctxTable := testTables(t, cfg, table.Len(), rng)
	tr, err := NewTrainer(cfg, center, ctxTable, rng)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Run(context.Background(), seqs, table); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestTrainer_runCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Training.Epochs = 1000
	rng := rand.New(rand.NewSource(7))

	seqs := [][]int{{0, 1, 2, 3}, {1, 2, 3, 0}}
	counts, err := corpus.CountsFromSequences(seqs)
	if err != nil {
		t.Fatal(err)
	}
	table, err := corpus.NewFreqTable(counts, cfg.Sampling.SubsampleThreshold)
	if err != nil {
		t.Fatal(err)
	}
	center, ctxTable := testTables(t, cfg, table.Len(), rng)
	tr, err := NewTrainer(cfg, center, ctxTable, rng)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tr.Run(ctx, seqs, table); err == nil {
		t.Error("expected context error from cancelled run")
	}
}

func TestNewTrainer_dimMismatch(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(1))
	center, _ := embedding.NewTable(5, 4, rng)
	context, _ := embedding.NewTable(5, 4, rng)
	if _, err := NewTrainer(cfg, center, context, rng); err == nil {
		t.Error("expected error for table dim != configured embedding_dim")
	}
}
