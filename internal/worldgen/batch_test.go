package worldgen

import (
	"errors"
	"math"
	"testing"
)

func TestBatch_ElementwiseEqualsPoint(t *testing.T) {
	g := mustGenerator(t, 12345)

	var xs, zs []float64
	for i := 0; i < 60; i++ {
		xs = append(xs, float64(i)*937.3-25000)
		zs = append(zs, float64(i)*-613.1+12000)
	}
	// Duplicates and reversals must not change any element.
	xs = append(xs, xs[0], xs[10], xs[10])
	zs = append(zs, zs[0], zs[10], zs[10])

	elevs, errs, err := g.ElevationBatch(xs, zs)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	for i := range xs {
		want, werr := g.Elevation(xs[i], zs[i])
		if (errs[i] == nil) != (werr == nil) || elevs[i] != want {
			t.Fatalf("element %d: batch (%v, %v) vs point (%v, %v)", i, elevs[i], errs[i], want, werr)
		}
	}

	rev := func(s []float64) []float64 {
		out := make([]float64, len(s))
		for i, v := range s {
			out[len(s)-1-i] = v
		}
		return out
	}
	relevs, _, err := g.ElevationBatch(rev(xs), rev(zs))
	if err != nil {
		t.Fatalf("reversed batch: %v", err)
	}
	for i := range xs {
		if relevs[len(xs)-1-i] != elevs[i] {
			t.Fatalf("order sensitivity at element %d", i)
		}
	}

	clims, cerrs, err := g.ClimateBatch(xs, zs)
	if err != nil {
		t.Fatalf("climate batch: %v", err)
	}
	for i := range xs {
		want, werr := g.Climate(xs[i], zs[i])
		if (cerrs[i] == nil) != (werr == nil) || clims[i] != want {
			t.Fatalf("climate element %d diverged", i)
		}
	}

	biomes, berrs, err := g.BiomeBatch(xs, zs)
	if err != nil {
		t.Fatalf("biome batch: %v", err)
	}
	for i := range xs {
		want, werr := g.Biome(xs[i], zs[i])
		if (berrs[i] == nil) != (werr == nil) || biomes[i] != want {
			t.Fatalf("biome element %d diverged", i)
		}
	}
}

func TestBatch_PerElementErrors(t *testing.T) {
	g := mustGenerator(t, 7)
	xs := []float64{100, math.NaN(), 300}
	zs := []float64{-100, 0, math.Inf(1)}

	elevs, errs, err := g.ElevationBatch(xs, zs)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if errs[0] != nil {
		t.Fatalf("element 0 failed: %v", errs[0])
	}
	if !errors.Is(errs[1], ErrOutOfRange) || !errors.Is(errs[2], ErrOutOfRange) {
		t.Fatalf("bad elements not flagged: %v, %v", errs[1], errs[2])
	}
	want, _ := g.Elevation(100, -100)
	if elevs[0] != want {
		t.Fatalf("good element contaminated: %v vs %v", elevs[0], want)
	}
}

func TestBatch_LengthMismatch(t *testing.T) {
	g := mustGenerator(t, 7)
	if _, _, err := g.ElevationBatch([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatalf("length mismatch accepted")
	}
	if _, _, err := g.RiverBatch([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatalf("length mismatch accepted")
	}
}

func TestBatch_EmptyIsFine(t *testing.T) {
	g := mustGenerator(t, 7)
	vals, errs, err := g.ElevationBatch(nil, nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(vals) != 0 || len(errs) != 0 {
		t.Fatalf("empty batch produced %d values", len(vals))
	}
}

func TestBatch_LargeFanOutMatchesSequential(t *testing.T) {
	cfg := DefaultConfig()
	g, err := New(9, cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	cfg.BatchWorkers = 1
	seq, err2 := New(9, cfg)
	if err2 != nil {
		t.Fatalf("generator: %v", err2)
	}

	n := batchSplitMin + 512
	xs := make([]float64, n)
	zs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i%701)*13.7 - 4000
		zs[i] = float64(i%523)*-17.3 + 3000
	}

	a, _, err := g.ElevationBatch(xs, zs)
	if err != nil {
		t.Fatalf("parallel batch: %v", err)
	}
	b, _, err := seq.ElevationBatch(xs, zs)
	if err != nil {
		t.Fatalf("sequential batch: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("fan-out changed element %d: %v vs %v", i, a[i], b[i])
		}
	}
}
