package batch

import (
	"context"
	"math/rand"
	"testing"

	"github.com/hyperjump/manabu/internal/sampler"
)

func streamSamples(n int) []sampler.Sample {
	samples := make([]sampler.Sample, n)
	for i := range samples {
		samples[i] = sampler.Sample{
			Center:    i,
			Contexts:  []int{i + 1},
			Negatives: []int{i + 2, i + 3},
		}
	}
	return samples
}

func TestStreamer_deliversAllSamplesOnce(t *testing.T) {
	s, err := NewStreamer(streamSamples(10), 3, 2, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]int)
	total := 0
	for b := range s.Stream(context.Background()) {
		for _, c := range b.Centers {
			seen[c]++
			total++
		}
	}
	if total != 10 {
		t.Fatalf("delivered %d samples, want 10", total)
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("center %d delivered %d times", c, n)
		}
	}
}

func TestStreamer_finalPartialBatch(t *testing.T) {
	s, err := NewStreamer(streamSamples(10), 4, 1, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatal(err)
	}
	var sizes []int
	for b := range s.Stream(context.Background()) {
		sizes = append(sizes, b.Size())
	}
	if len(sizes) != 3 || sizes[0] != 4 || sizes[1] != 4 || sizes[2] != 2 {
		t.Errorf("batch sizes = %v, want [4 4 2]", sizes)
	}
}

func TestStreamer_cancellation(t *testing.T) {
	s, err := NewStreamer(streamSamples(100), 1, 1, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Stream(ctx)
	<-ch
	cancel()
	// Drain: the channel must close rather than keep producing forever.
	n := 0
	for range ch {
		n++
	}
	if n > 2 {
		t.Errorf("received %d batches after cancel; producer should stop promptly", n)
	}
}

func TestNewStreamer_errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewStreamer(nil, 4, 1, rng); err == nil {
		t.Error("expected error for no samples")
	}
	if _, err := NewStreamer(streamSamples(3), 0, 1, rng); err == nil {
		t.Error("expected error for batch size 0")
	}
	if _, err := NewStreamer(streamSamples(3), 4, 0, rng); err == nil {
		t.Error("expected error for prefetch 0")
	}
}
