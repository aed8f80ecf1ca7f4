// Package climate derives temperature, precipitation and humidity from
// position, elevation and seed.
package climate

import (
	"math"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/noise"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
)

// Layer names used for sub-seed derivation. Part of the world format.
const (
	LayerTemperature = "climate/temperature"
	LayerPrecip      = "climate/precipitation"
	LayerHumidity    = "climate/humidity"
	LayerOcean       = "climate/ocean"
)

type Params struct {
	VoxelScale float64 `yaml:"voxel_scale"` // meters per world unit

	BaseTemp        float64 `yaml:"base_temp"`        // degC at the equator band
	LatitudeFalloff float64 `yaml:"latitude_falloff"` // degC lost per LatitudeScale meters of |z|
	LatitudeScale   float64 `yaml:"latitude_scale"`   // meters
	LapseRate       float64 `yaml:"lapse_rate"`       // degC per meter of elevation
	TempWavelength  float64 `yaml:"temp_wavelength"`  // world units
	TempNoiseAmp    float64 `yaml:"temp_noise_amp"`   // degC

	PrecipWavelength float64 `yaml:"precip_wavelength"` // world units
	PrecipMax        float64 `yaml:"precip_max"`        // mm/yr at noise=+1
	ColdPrecipFactor float64 `yaml:"cold_precip_factor"`
	OrographicScale  float64 `yaml:"orographic_scale"` // meters
	OrographicGain   float64 `yaml:"orographic_gain"`

	HumidityDecay      float64 `yaml:"humidity_decay"`      // meters of virtual ocean distance
	HumidityWavelength float64 `yaml:"humidity_wavelength"` // world units, local variation
	OceanWavelength    float64 `yaml:"ocean_wavelength"`    // world units, virtual coastline scale
}

func DefaultParams() Params {
	return Params{
		VoxelScale:         0.25,
		BaseTemp:           25,
		LatitudeFalloff:    30,
		LatitudeScale:      10000,
		LapseRate:          0.0065,
		TempWavelength:     5000,
		TempNoiseAmp:       15,
		PrecipWavelength:   8000,
		PrecipMax:          2000,
		ColdPrecipFactor:   0.3,
		OrographicScale:    2000,
		OrographicGain:     0.5,
		HumidityDecay:      100000,
		HumidityWavelength: 5000,
		OceanWavelength:    50000,
	}
}

// Sample is the climate at one point.
type Sample struct {
	Temperature   float64 // degC
	Precipitation float64 // mm/yr
	Humidity      float64 // 0..1
}

// Model is a pure function of (coordinate, elevation) once built. Safe for
// concurrent use.
type Model struct {
	p        Params
	temp     *noise.Field
	precip   *noise.Field
	humidity *noise.Field
	ocean    *noise.Field
}

func New(ws seed.WorldSeed, p Params) *Model {
	return &Model{
		p:        p,
		temp:     noise.New(ws.Subseed(LayerTemperature)),
		precip:   noise.New(ws.Subseed(LayerPrecip)),
		humidity: noise.New(ws.Subseed(LayerHumidity)),
		ocean:    noise.New(ws.Subseed(LayerOcean)),
	}
}

// Temperature in degC at (x, z) world units with the given surface elevation
// in meters. Latitude bands run along z; elevation cools at the lapse rate.
func (m *Model) Temperature(x, z, elevation float64) float64 {
	p := m.p
	zMeters := math.Abs(z * p.VoxelScale)
	latitude := p.BaseTemp - zMeters/p.LatitudeScale*p.LatitudeFalloff
	lapse := -p.LapseRate * elevation
	variation := m.temp.Noise(x/p.TempWavelength, z/p.TempWavelength) * p.TempNoiseAmp
	return latitude + lapse + variation
}

// Precipitation in mm/yr. Depends on temperature, so Sample computes
// temperature first; callers passing their own value must do the same.
func (m *Model) Precipitation(x, z, temperature, elevation float64) float64 {
	p := m.p
	base := (m.precip.Noise(x/p.PrecipWavelength, z/p.PrecipWavelength) + 1) * 0.5 * p.PrecipMax
	tempFactor := 1.0
	if temperature <= 0 {
		tempFactor = p.ColdPrecipFactor
	}
	orographic := 1 + elevation/p.OrographicScale*p.OrographicGain
	precip := base * tempFactor * orographic
	if precip < 0 {
		precip = 0
	}
	return precip
}

// Humidity estimates relative humidity in [0, 1]: exponential decay with
// distance from a virtual ocean (negative coastline noise reads as coast),
// drier with elevation, with short-range variation on top.
func (m *Model) Humidity(x, z, elevation float64) float64 {
	p := m.p
	coast := m.ocean.Noise(x/p.OceanWavelength, z/p.OceanWavelength)
	oceanDist := (coast + 0.5) * p.HumidityDecay
	if oceanDist < 0 {
		oceanDist = 0
	}
	base := math.Exp(-oceanDist / p.HumidityDecay)

	elevFactor := 1 - elevation/3000
	if elevFactor < 0.5 {
		elevFactor = 0.5
	}

	local := 1 + m.humidity.Noise(x/p.HumidityWavelength, z/p.HumidityWavelength)*0.3

	h := base * elevFactor * local
	if h < 0 {
		return 0
	}
	if h > 1 {
		return 1
	}
	return h
}

// Sample computes the full climate at one point. Temperature is computed
// before precipitation (data dependency).
func (m *Model) Sample(x, z, elevation float64) Sample {
	t := m.Temperature(x, z, elevation)
	return Sample{
		Temperature:   t,
		Precipitation: m.Precipitation(x, z, t, elevation),
		Humidity:      m.Humidity(x, z, elevation),
	}
}
