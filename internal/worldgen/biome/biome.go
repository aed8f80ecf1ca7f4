// Package biome maps climate and elevation to a biome category.
package biome

// Type names a biome category.
type Type string

const (
	Ocean      Type = "OCEAN"
	Alpine     Type = "ALPINE"
	Tundra     Type = "TUNDRA"
	Taiga      Type = "TAIGA"
	Grassland  Type = "GRASSLAND"
	Forest     Type = "FOREST"
	Desert     Type = "DESERT"
	Savanna    Type = "SAVANNA"
	Rainforest Type = "RAINFOREST"
)

// Def declares a scored biome's admissible temperature and precipitation
// bands. Declaration order breaks score ties.
type Def struct {
	Name      Type    `yaml:"name"`
	TempMin   float64 `yaml:"temp_min"`
	TempMax   float64 `yaml:"temp_max"`
	PrecipMin float64 `yaml:"precip_min"`
	PrecipMax float64 `yaml:"precip_max"`
}

type Params struct {
	OceanLevel   float64 `yaml:"ocean_level"`   // meters; below this is ocean
	AlpineLevel  float64 `yaml:"alpine_level"`  // meters; above this is alpine
	PrecipWeight float64 `yaml:"precip_weight"`
	Defs         []Def   `yaml:"defs"`
}

func DefaultParams() Params {
	return Params{
		OceanLevel:   -50,
		AlpineLevel:  1500,
		PrecipWeight: 0.001,
		Defs: []Def{
			{Name: Tundra, TempMin: -30, TempMax: 0, PrecipMin: 0, PrecipMax: 400},
			{Name: Taiga, TempMin: -5, TempMax: 5, PrecipMin: 300, PrecipMax: 900},
			{Name: Grassland, TempMin: 5, TempMax: 20, PrecipMin: 200, PrecipMax: 600},
			{Name: Forest, TempMin: 5, TempMax: 20, PrecipMin: 600, PrecipMax: 1400},
			{Name: Desert, TempMin: 10, TempMax: 40, PrecipMin: 0, PrecipMax: 200},
			{Name: Savanna, TempMin: 20, TempMax: 35, PrecipMin: 200, PrecipMax: 800},
			{Name: Rainforest, TempMin: 20, TempMax: 35, PrecipMin: 1400, PrecipMax: 4000},
		},
	}
}

// Classifier scores climate samples against declared biome bands. Immutable
// after construction.
type Classifier struct {
	p Params
}

func New(p Params) *Classifier {
	return &Classifier{p: p}
}

// Classify picks the biome for one point. Extreme elevations short-circuit:
// below the ocean level the category is always Ocean and above the alpine
// level always Alpine, regardless of climate. Everything else takes the
// minimum out-of-band score, first declaration winning ties.
func (c *Classifier) Classify(elevation, temperature, precipitation float64) Type {
	if elevation < c.p.OceanLevel {
		return Ocean
	}
	if elevation > c.p.AlpineLevel {
		return Alpine
	}

	best := c.p.Defs[0].Name
	bestScore := c.score(c.p.Defs[0], temperature, precipitation)
	for _, d := range c.p.Defs[1:] {
		if s := c.score(d, temperature, precipitation); s < bestScore {
			best = d.Name
			bestScore = s
		}
	}
	return best
}

func (c *Classifier) score(d Def, temperature, precipitation float64) float64 {
	return bandDist(temperature, d.TempMin, d.TempMax) +
		bandDist(precipitation, d.PrecipMin, d.PrecipMax)*c.p.PrecipWeight
}

// bandDist is the distance from v to [lo, hi], zero inside the band.
func bandDist(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}
