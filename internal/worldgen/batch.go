package worldgen

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/biome"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/climate"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/rivers"
)

// Batch queries are the element-wise application of the point query: result i
// depends only on (xs[i], zs[i]), never on the other elements or their order.
// A bad element yields its own non-nil errs[i]; the batch itself only fails
// when the input slices disagree in length.

// batchSplitMin is the batch size below which fan-out is not worth it.
const batchSplitMin = 2048

func (g *Generator) checkBatch(xs, zs []float64) error {
	if len(xs) != len(zs) {
		return fmt.Errorf("worldgen: batch length mismatch: %d x vs %d z", len(xs), len(zs))
	}
	return nil
}

// forEach runs fn for every index, fanning out over workers for large
// batches. fn must only touch state at its own index.
func (g *Generator) forEach(n int, fn func(i int)) {
	workers := g.cfg.BatchWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n < batchSplitMin || workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// ElevationBatch is the batch form of Elevation.
func (g *Generator) ElevationBatch(xs, zs []float64) ([]float64, []error, error) {
	if err := g.checkBatch(xs, zs); err != nil {
		return nil, nil, err
	}
	out := make([]float64, len(xs))
	errs := make([]error, len(xs))
	g.forEach(len(xs), func(i int) {
		out[i], errs[i] = g.Elevation(xs[i], zs[i])
	})
	return out, errs, nil
}

// ElevationWithRiversBatch is the batch form of ElevationWithRivers.
func (g *Generator) ElevationWithRiversBatch(xs, zs []float64) ([]float64, []error, error) {
	if err := g.checkBatch(xs, zs); err != nil {
		return nil, nil, err
	}
	out := make([]float64, len(xs))
	errs := make([]error, len(xs))
	g.forEach(len(xs), func(i int) {
		out[i], errs[i] = g.ElevationWithRivers(xs[i], zs[i])
	})
	return out, errs, nil
}

// ClimateBatch is the batch form of Climate.
func (g *Generator) ClimateBatch(xs, zs []float64) ([]climate.Sample, []error, error) {
	if err := g.checkBatch(xs, zs); err != nil {
		return nil, nil, err
	}
	out := make([]climate.Sample, len(xs))
	errs := make([]error, len(xs))
	g.forEach(len(xs), func(i int) {
		out[i], errs[i] = g.Climate(xs[i], zs[i])
	})
	return out, errs, nil
}

// RiverBatch is the batch form of River.
func (g *Generator) RiverBatch(xs, zs []float64) ([]rivers.QueryResult, []error, error) {
	if err := g.checkBatch(xs, zs); err != nil {
		return nil, nil, err
	}
	out := make([]rivers.QueryResult, len(xs))
	errs := make([]error, len(xs))
	g.forEach(len(xs), func(i int) {
		out[i], errs[i] = g.River(xs[i], zs[i])
	})
	return out, errs, nil
}

// BiomeBatch is the batch form of Biome.
func (g *Generator) BiomeBatch(xs, zs []float64) ([]biome.Type, []error, error) {
	if err := g.checkBatch(xs, zs); err != nil {
		return nil, nil, err
	}
	out := make([]biome.Type, len(xs))
	errs := make([]error, len(xs))
	g.forEach(len(xs), func(i int) {
		out[i], errs[i] = g.Biome(xs[i], zs[i])
	})
	return out, errs, nil
}
