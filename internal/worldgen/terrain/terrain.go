// Package terrain composes four noise layers into bounded surface elevation.
package terrain

import (
	"math"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/noise"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
)

// Layer names used for sub-seed derivation. Part of the world format.
const (
	LayerContinental = "terrain/continental"
	LayerRidge       = "terrain/ridge"
	LayerHill        = "terrain/hills"
	LayerDetail      = "terrain/detail"
)

// Params are the elevation-synthesis tunables. Amplitudes and limits are in
// world units; wavelengths are in world units per noise lattice cell.
type Params struct {
	VoxelScale float64 `yaml:"voxel_scale"` // meters per world unit

	ContinentalWavelength float64 `yaml:"continental_wavelength"`
	MountainWavelength    float64 `yaml:"mountain_wavelength"`
	HillWavelength        float64 `yaml:"hill_wavelength"`
	DetailWavelength      float64 `yaml:"detail_wavelength"`

	ContinentalAmp float64 `yaml:"continental_amp"`
	MountainAmp    float64 `yaml:"mountain_amp"`
	HillAmp        float64 `yaml:"hill_amp"`
	DetailAmp      float64 `yaml:"detail_amp"`

	MountainBias  float64 `yaml:"mountain_bias"`  // shifts where mountains can grow
	RidgeExponent float64 `yaml:"ridge_exponent"` // <1 sharpens peaks and valleys

	SoftKnee  float64 `yaml:"soft_knee"`  // units where soft compression starts
	SoftScale float64 `yaml:"soft_scale"` // excess multiplier beyond the knee
	HardLimit float64 `yaml:"hard_limit"` // absolute unit bound after compression
}

func DefaultParams() Params {
	return Params{
		VoxelScale:            0.25,
		ContinentalWavelength: 50000,
		MountainWavelength:    15000,
		HillWavelength:        5000,
		DetailWavelength:      1000,
		ContinentalAmp:        3200,
		MountainAmp:           4800,
		HillAmp:               1000,
		DetailAmp:             120,
		MountainBias:          0.3,
		RidgeExponent:         0.6,
		SoftKnee:              7200,
		SoftScale:             0.3,
		HardLimit:             8192,
	}
}

// Sample holds the per-layer unit contributions and the combined result.
type Sample struct {
	Continental float64 // units, pre-compression
	Mountain    float64
	Hill        float64
	Detail      float64
	Units       float64 // combined, compressed, clamped
	Meters      float64 // Units * VoxelScale
}

// Synthesizer is a pure function of coordinate once built. Safe for
// concurrent use.
type Synthesizer struct {
	p           Params
	continental *noise.Field
	mountain    *noise.Field
	hill        *noise.Field
	detail      *noise.Field
}

func New(ws seed.WorldSeed, p Params) *Synthesizer {
	return &Synthesizer{
		p:           p,
		continental: noise.New(ws.Subseed(LayerContinental)),
		mountain:    noise.New(ws.Subseed(LayerRidge)),
		hill:        noise.New(ws.Subseed(LayerHill)),
		detail:      noise.New(ws.Subseed(LayerDetail)),
	}
}

// Elevation returns the surface elevation in meters at (x, z) world units.
func (s *Synthesizer) Elevation(x, z float64) float64 {
	return s.Sample(x, z).Meters
}

// Sample synthesizes elevation at (x, z). The continental layer sets the
// broad land/ocean shape; a ridged transform of the mountain layer, gated by
// continental uplift, adds sharp ranges; hill and detail layers add relief.
func (s *Synthesizer) Sample(x, z float64) Sample {
	p := s.p

	continental := s.continental.Noise(x/p.ContinentalWavelength, z/p.ContinentalWavelength)
	m := s.mountain.Noise(x/p.MountainWavelength, z/p.MountainWavelength)
	hill := s.hill.Noise(x/p.HillWavelength, z/p.HillWavelength)
	detail := s.detail.Noise(x/p.DetailWavelength, z/p.DetailWavelength)

	mountainFactor := continental + p.MountainBias
	if mountainFactor < 0 {
		mountainFactor = 0
	}
	ridged := ridge(m, p.RidgeExponent)

	sm := Sample{
		Continental: continental * p.ContinentalAmp,
		Mountain:    ridged * mountainFactor * p.MountainAmp,
		Hill:        hill * p.HillAmp,
		Detail:      detail * p.DetailAmp,
	}

	units := sm.Continental + sm.Mountain + sm.Hill + sm.Detail
	units = compress(units, p.SoftKnee, p.SoftScale)
	if units > p.HardLimit {
		units = p.HardLimit
	} else if units < -p.HardLimit {
		units = -p.HardLimit
	}

	sm.Units = units
	sm.Meters = units * p.VoxelScale
	return sm
}

// ridge is the ridged-noise transform sign(m)*|m|^e.
func ridge(m, exponent float64) float64 {
	if m == 0 {
		return 0
	}
	r := math.Pow(math.Abs(m), exponent)
	if m < 0 {
		return -r
	}
	return r
}

// compress scales the excess beyond the knee, keeping extreme terrain sloped
// instead of plateauing at the hard clamp.
func compress(units, knee, scale float64) float64 {
	if units > knee {
		return knee + (units-knee)*scale
	}
	if units < -knee {
		return -knee + (units+knee)*scale
	}
	return units
}
