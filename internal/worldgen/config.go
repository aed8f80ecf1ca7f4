package worldgen

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/biome"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/climate"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/rivers"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/terrain"
)

//go:embed config.schema.json
var configSchemaJSON string

// CarvingParams shape how traced channels cut into the base terrain.
type CarvingParams struct {
	// WidthFactor adds a fraction of channel width on top of channel depth.
	WidthFactor float64 `yaml:"width_factor"`
	// MaxDepth is the hard floor for a single carve, in meters.
	MaxDepth float64 `yaml:"max_depth"`
}

func DefaultCarvingParams() CarvingParams {
	return CarvingParams{
		WidthFactor: 0.1,
		MaxDepth:    15,
	}
}

// Config bundles every tunable of the generation pipeline. The zero value is
// not usable; start from DefaultConfig or Load.
type Config struct {
	// VoxelScale converts world units to meters and is shared by every stage.
	VoxelScale float64 `yaml:"voxel_scale"`

	Terrain terrain.Params `yaml:"terrain"`
	Climate climate.Params `yaml:"climate"`
	Rivers  rivers.Params  `yaml:"rivers"`
	Biomes  biome.Params   `yaml:"biomes"`
	Carving CarvingParams  `yaml:"carving"`

	// BatchWorkers caps the goroutines used by batch queries. Zero means
	// GOMAXPROCS.
	BatchWorkers int `yaml:"batch_workers"`
}

func DefaultConfig() Config {
	return Config{
		VoxelScale: 0.25,
		Terrain:    terrain.DefaultParams(),
		Climate:    climate.DefaultParams(),
		Rivers:     rivers.DefaultParams(),
		Biomes:     biome.DefaultParams(),
		Carving:    DefaultCarvingParams(),
	}
}

// Load reads a YAML config file, checks it against the embedded JSON schema
// and unmarshals it over DefaultConfig, so missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := validateConfigYAML(raw); err != nil {
		return cfg, configErrorf("%s: %v", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, configErrorf("%s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func validateConfigYAML(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	// The schema validator wants JSON-shaped values.
	j, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	schema, err := jsonschema.CompileString("worldgen/config.schema.json", configSchemaJSON)
	if err != nil {
		return err
	}
	return schema.Validate(v)
}

// Digest returns the sha256 hex of the canonical JSON serialization. Two
// configs with equal digests produce bit-identical worlds for equal seeds.
func (c Config) Digest() string {
	b, err := json.Marshal(c)
	if err != nil {
		// Config is plain data; Marshal cannot fail on it.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Validate reports the first structural problem as a ConfigurationError.
// A Config that passes here cannot produce an internal inconsistency later.
func (c Config) Validate() error {
	if c.VoxelScale <= 0 {
		return configErrorf("voxel_scale must be positive, got %v", c.VoxelScale)
	}
	if c.BatchWorkers < 0 {
		return configErrorf("batch_workers must not be negative, got %d", c.BatchWorkers)
	}

	t := c.Terrain
	for name, wl := range map[string]float64{
		"terrain.continental_wavelength": t.ContinentalWavelength,
		"terrain.mountain_wavelength":    t.MountainWavelength,
		"terrain.hill_wavelength":        t.HillWavelength,
		"terrain.detail_wavelength":      t.DetailWavelength,
	} {
		if wl <= 0 {
			return configErrorf("%s must be positive, got %v", name, wl)
		}
	}
	if t.HardLimit <= 0 {
		return configErrorf("terrain.hard_limit must be positive, got %v", t.HardLimit)
	}
	if t.SoftKnee <= 0 || t.SoftKnee > t.HardLimit {
		return configErrorf("terrain.soft_knee must be in (0, hard_limit], got %v", t.SoftKnee)
	}
	if t.SoftScale <= 0 || t.SoftScale > 1 {
		return configErrorf("terrain.soft_scale must be in (0,1], got %v", t.SoftScale)
	}
	if t.RidgeExponent <= 0 {
		return configErrorf("terrain.ridge_exponent must be positive, got %v", t.RidgeExponent)
	}

	cl := c.Climate
	for name, wl := range map[string]float64{
		"climate.temp_wavelength":     cl.TempWavelength,
		"climate.precip_wavelength":   cl.PrecipWavelength,
		"climate.humidity_wavelength": cl.HumidityWavelength,
		"climate.ocean_wavelength":    cl.OceanWavelength,
	} {
		if wl <= 0 {
			return configErrorf("%s must be positive, got %v", name, wl)
		}
	}
	if cl.LatitudeScale <= 0 {
		return configErrorf("climate.latitude_scale must be positive, got %v", cl.LatitudeScale)
	}
	if cl.PrecipMax < 0 {
		return configErrorf("climate.precip_max must not be negative, got %v", cl.PrecipMax)
	}
	if cl.HumidityDecay <= 0 {
		return configErrorf("climate.humidity_decay must be positive, got %v", cl.HumidityDecay)
	}

	r := c.Rivers
	if r.RegionSize <= 0 {
		return configErrorf("rivers.region_size must be positive, got %v", r.RegionSize)
	}
	if r.SourceSpacing <= 0 || r.SourceSpacing > r.RegionSize {
		return configErrorf("rivers.source_spacing must be in (0, region_size], got %v", r.SourceSpacing)
	}
	if r.StepLength <= 0 {
		return configErrorf("rivers.step_length must be positive, got %v", r.StepLength)
	}
	if r.MaxSteps <= 0 {
		return configErrorf("rivers.max_steps must be positive, got %d", r.MaxSteps)
	}
	if r.MergeRadius < 0 {
		return configErrorf("rivers.merge_radius must not be negative, got %v", r.MergeRadius)
	}
	if r.QueryRadius <= 0 {
		return configErrorf("rivers.query_radius must be positive, got %v", r.QueryRadius)
	}
	if r.SourceMinElev >= r.SourceMaxElev {
		return configErrorf("rivers.source_min_elev %v must be below source_max_elev %v", r.SourceMinElev, r.SourceMaxElev)
	}
	if r.PrecipNorm <= 0 {
		return configErrorf("rivers.precip_norm must be positive, got %v", r.PrecipNorm)
	}
	if r.VelocityScale <= 0 {
		return configErrorf("rivers.velocity_scale must be positive, got %v", r.VelocityScale)
	}
	if r.VelocityGain < 0 {
		return configErrorf("rivers.velocity_gain must not be negative, got %v", r.VelocityGain)
	}
	if r.VelocityMin <= 0 || r.VelocityMin > r.VelocityMax {
		return configErrorf("rivers.velocity_min %v must be positive and below velocity_max %v", r.VelocityMin, r.VelocityMax)
	}

	b := c.Biomes
	if len(b.Defs) == 0 {
		return configErrorf("biomes.defs must not be empty")
	}
	seen := make(map[biome.Type]struct{}, len(b.Defs))
	for _, d := range b.Defs {
		if d.Name == "" {
			return configErrorf("biomes.defs entries must be named")
		}
		if _, dup := seen[d.Name]; dup {
			return configErrorf("biomes.defs has duplicate entry %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		if d.TempMin > d.TempMax {
			return configErrorf("biome %q: temp_min %v above temp_max %v", d.Name, d.TempMin, d.TempMax)
		}
		if d.PrecipMin > d.PrecipMax {
			return configErrorf("biome %q: precip_min %v above precip_max %v", d.Name, d.PrecipMin, d.PrecipMax)
		}
	}
	if b.OceanLevel >= b.AlpineLevel {
		return configErrorf("biomes.ocean_level %v must be below alpine_level %v", b.OceanLevel, b.AlpineLevel)
	}

	cv := c.Carving
	if cv.WidthFactor < 0 {
		return configErrorf("carving.width_factor must not be negative, got %v", cv.WidthFactor)
	}
	if cv.MaxDepth <= 0 {
		return configErrorf("carving.max_depth must be positive, got %v", cv.MaxDepth)
	}
	return nil
}
