// Package rivers generates and queries the regional hydrological network.
//
// The world is partitioned into fixed-size square regions. Each region owns a
// lazily-built, cached network of traced channels: candidate sources are
// admitted by elevation band and precipitation, then traced downhill by
// steepest descent until they leave the region, hit a local minimum, reach
// the ocean, or merge into an already-traced channel. A region's network
// also resumes channels that exited into it from neighbor networks, carrying
// their accumulated flow, so flow stays continuous across boundaries up to a
// fixed resume horizon.
package rivers

import "math"

// Params are the hydrology tunables. Distances are in world units, elevations
// and channel dimensions in meters, precipitation in mm/yr.
type Params struct {
	RegionSize    float64 `yaml:"region_size"`
	SourceSpacing float64 `yaml:"source_spacing"`

	SourceMinElev   float64 `yaml:"source_min_elev"`
	SourceMaxElev   float64 `yaml:"source_max_elev"`
	SourceMinPrecip float64 `yaml:"source_min_precip"`

	StepLength  float64 `yaml:"step_length"`
	MaxSteps    int     `yaml:"max_steps"`
	MergeRadius float64 `yaml:"merge_radius"`
	QueryRadius float64 `yaml:"query_radius"`

	SourceFlow float64 `yaml:"source_flow"`
	FlowGain   float64 `yaml:"flow_gain"`   // flow added per step at PrecipNorm rainfall
	PrecipNorm float64 `yaml:"precip_norm"` // mm/yr treated as unit rainfall

	WidthScale float64 `yaml:"width_scale"`
	WidthExp   float64 `yaml:"width_exp"`
	DepthScale float64 `yaml:"depth_scale"`
	DepthExp   float64 `yaml:"depth_exp"`

	VelocityScale float64 `yaml:"velocity_scale"` // m/s per sqrt unit of flow
	VelocityGain  float64 `yaml:"velocity_gain"`  // slope multiplier on velocity
	VelocityMin   float64 `yaml:"velocity_min"`   // m/s
	VelocityMax   float64 `yaml:"velocity_max"`   // m/s

	OceanLevel float64 `yaml:"ocean_level"` // meters; tracing stops at the sea
}

func DefaultParams() Params {
	return Params{
		RegionSize:      25000,
		SourceSpacing:   1250,
		SourceMinElev:   20,
		SourceMaxElev:   1200,
		SourceMinPrecip: 300,
		StepLength:      200,
		MaxSteps:        400,
		MergeRadius:     150,
		QueryRadius:     250,
		SourceFlow:      1,
		FlowGain:        0.1,
		PrecipNorm:      2000,
		WidthScale:      6,
		WidthExp:        0.5,
		DepthScale:      1.3,
		DepthExp:        0.4,
		VelocityScale:   0.1,
		VelocityGain:    10,
		VelocityMin:     0.1,
		VelocityMax:     5,
		OceanLevel:      -50,
	}
}

// Sampler supplies the terrain and climate reads tracing needs. Both must be
// pure functions of their arguments.
type Sampler interface {
	Elevation(x, z float64) float64
	Precipitation(x, z, elevation float64) float64
}

// Key identifies a region: floor(coord / RegionSize) per axis.
type Key struct {
	X, Z int
}

// Sample is one traced point along a channel.
type Sample struct {
	X, Z     float64 // world units
	Elev     float64 // meters
	Slope    float64 // meters dropped per world unit of the arriving step
	Flow     float64
	Width    float64 // meters
	Depth    float64 // meters
	Velocity float64 // m/s
}

// Channel is an ordered path of samples from source (or region entry) to
// terminus, merge point, or region exit.
type Channel struct {
	Samples []Sample
}

// Network is the immutable traced river network of one region.
type Network struct {
	Key      Key
	Channels []Channel

	index gridIndex
}

// QueryResult is the river state at one queried point, interpolated from the
// nearest channel segment within the lateral query radius.
type QueryResult struct {
	HasRiver bool
	Width    float64 // meters
	Depth    float64 // meters
	Flow     float64
	Velocity float64 // m/s, 0 when no river
	Order    int     // Strahler-style stream order, 0 when no river
}

func (p Params) width(flow float64) float64 {
	return p.WidthScale * math.Pow(flow, p.WidthExp)
}

func (p Params) depth(flow float64) float64 {
	return p.DepthScale * math.Pow(flow, p.DepthExp)
}

// velocity grows with the square root of flow, sped up by the local channel
// slope, clamped to a plausible surface-water range.
func (p Params) velocity(flow, slope float64) float64 {
	v := math.Sqrt(flow) * p.VelocityScale * (1 + slope*p.VelocityGain)
	if v < p.VelocityMin {
		return p.VelocityMin
	}
	if v > p.VelocityMax {
		return p.VelocityMax
	}
	return v
}

// streamOrder buckets flow into a Strahler-style order. Monotonic in flow.
func streamOrder(flow float64) int {
	if flow <= 0 {
		return 0
	}
	order := 1
	for threshold := 2.0; flow >= threshold && order < 12; threshold *= 2 {
		order++
	}
	return order
}

// RegionOf maps a world coordinate to its region key.
func (p Params) RegionOf(x, z float64) Key {
	return Key{
		X: int(math.Floor(x / p.RegionSize)),
		Z: int(math.Floor(z / p.RegionSize)),
	}
}

func (p Params) contains(k Key, x, z float64) bool {
	x0 := float64(k.X) * p.RegionSize
	z0 := float64(k.Z) * p.RegionSize
	return x >= x0 && x < x0+p.RegionSize && z >= z0 && z < z0+p.RegionSize
}
