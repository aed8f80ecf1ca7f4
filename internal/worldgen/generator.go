// Package worldgen is the query facade over the deterministic generation
// pipeline. A Generator built from (seed, config) answers point and batch
// queries for elevation, climate, rivers and biomes; equal inputs always
// produce bit-identical outputs, with no ordering or batching effects.
package worldgen

import (
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/biome"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/climate"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/rivers"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/terrain"
)

// Generator owns the whole pipeline. Safe for concurrent use; the only
// mutable state is the river region cache, which is built once per region.
type Generator struct {
	cfg     Config
	seed    seed.WorldSeed
	terrain *terrain.Synthesizer
	climate *climate.Model
	biomes  *biome.Classifier
	rivers  *rivers.Manager
}

// New builds a Generator or fails with a ConfigurationError. A Generator
// that constructs successfully never reports configuration problems from
// queries.
func New(master int64, cfg Config) (*Generator, error) {
	if master < 0 {
		return nil, configErrorf("seed must not be negative, got %d", master)
	}
	// The shared scale wins over anything set on the nested sections.
	cfg.Terrain.VoxelScale = cfg.VoxelScale
	cfg.Climate.VoxelScale = cfg.VoxelScale
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ws := seed.New(master)
	g := &Generator{
		cfg:     cfg,
		seed:    ws,
		terrain: terrain.New(ws, cfg.Terrain),
		climate: climate.New(ws, cfg.Climate),
		biomes:  biome.New(cfg.Biomes),
	}
	g.rivers = rivers.NewManager(cfg.Rivers, fieldSampler{t: g.terrain, c: g.climate})
	return g, nil
}

// Seed returns the master seed the Generator was built from.
func (g *Generator) Seed() int64 { return g.seed.Master() }

// Config returns a copy of the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// fieldSampler feeds river tracing from the deterministic base fields.
// Tracing must never observe carved elevation, so it reads the synthesizer
// directly.
type fieldSampler struct {
	t *terrain.Synthesizer
	c *climate.Model
}

func (f fieldSampler) Elevation(x, z float64) float64 {
	return f.t.Elevation(x, z)
}

func (f fieldSampler) Precipitation(x, z, elevation float64) float64 {
	t := f.c.Temperature(x, z, elevation)
	return f.c.Precipitation(x, z, t, elevation)
}

// Elevation returns the base surface elevation in meters, before river
// carving.
func (g *Generator) Elevation(x, z float64) (float64, error) {
	if err := checkCoord(x, z); err != nil {
		return 0, err
	}
	return g.terrain.Elevation(x, z), nil
}

// ElevationWithRivers returns the surface elevation after river carving.
// Without a river nearby it equals Elevation exactly.
func (g *Generator) ElevationWithRivers(x, z float64) (float64, error) {
	if err := checkCoord(x, z); err != nil {
		return 0, err
	}
	return g.carvedElevation(x, z), nil
}

func (g *Generator) carvedElevation(x, z float64) float64 {
	base := g.terrain.Elevation(x, z)
	r := g.rivers.Query(x, z)
	if !r.HasRiver {
		return base
	}
	carve := r.Depth + g.cfg.Carving.WidthFactor*r.Width
	if carve > g.cfg.Carving.MaxDepth {
		carve = g.cfg.Carving.MaxDepth
	}
	carved := base - carve
	if floor := -g.cfg.Terrain.HardLimit * g.cfg.VoxelScale; carved < floor {
		carved = floor
	}
	return carved
}

// Climate returns temperature, precipitation and humidity at (x, z),
// evaluated at the base surface elevation.
func (g *Generator) Climate(x, z float64) (climate.Sample, error) {
	if err := checkCoord(x, z); err != nil {
		return climate.Sample{}, err
	}
	elev := g.terrain.Elevation(x, z)
	return g.climate.Sample(x, z, elev), nil
}

// River returns the interpolated river state at (x, z). A miss is the zero
// QueryResult, not an error.
func (g *Generator) River(x, z float64) (rivers.QueryResult, error) {
	if err := checkCoord(x, z); err != nil {
		return rivers.QueryResult{}, err
	}
	return g.rivers.Query(x, z), nil
}

// Biome classifies (x, z) from base elevation and climate.
func (g *Generator) Biome(x, z float64) (biome.Type, error) {
	if err := checkCoord(x, z); err != nil {
		return "", err
	}
	elev := g.terrain.Elevation(x, z)
	cl := g.climate.Sample(x, z, elev)
	return g.biomes.Classify(elev, cl.Temperature, cl.Precipitation), nil
}

// RegionOf reports which river region a coordinate falls in.
func (g *Generator) RegionOf(x, z float64) (rivers.Key, error) {
	if err := checkCoord(x, z); err != nil {
		return rivers.Key{}, err
	}
	return g.cfg.Rivers.RegionOf(x, z), nil
}

// WarmRegion forces the river network of a region to be traced and cached,
// so later queries in it are cheap. Useful before streaming a world area.
func (g *Generator) WarmRegion(k rivers.Key) {
	g.rivers.Network(k)
}

// CachedRegions reports how many river region networks are cached.
func (g *Generator) CachedRegions() int {
	return g.rivers.CachedRegions()
}
