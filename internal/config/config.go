// Package config provides the terrain configuration: defaults, YAML loading
// and fail-soft clamping.
package config

import (
	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/terrain"
)

// Config holds all settings read by the terrain binaries.
type Config struct {
	Noise    NoiseConfig    `yaml:"noise"`
	Mesh     MeshConfig     `yaml:"mesh"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Logging  LoggingConfig  `yaml:"logging"`
	Viewer   ViewerConfig   `yaml:"viewer"`
}

// NoiseConfig holds fractal noise parameters.
type NoiseConfig struct {
	Seed          int64      `yaml:"seed"`
	Scale         float64    `yaml:"scale"`
	Octaves       int        `yaml:"octaves"`
	Persistence   float64    `yaml:"persistence"`
	Lacunarity    float64    `yaml:"lacunarity"`
	Offset        [2]float64 `yaml:"offset,flow"`
	NormalizeMode string     `yaml:"normalize_mode"` // "local" or "global"
}

// MeshConfig holds mesh and coloring settings.
type MeshConfig struct {
	HeightMultiplier float64            `yaml:"height_multiplier"`
	HeightCurve      []meshing.CurveKey `yaml:"height_curve"`
	Regions          []RegionConfig     `yaml:"regions"`
}

// RegionConfig colors heights at or above Height.
type RegionConfig struct {
	Name   string   `yaml:"name"`
	Height float64  `yaml:"height"`
	Color  HexColor `yaml:"color"`
}

// TerrainConfig holds chunk streaming settings.
type TerrainConfig struct {
	ChunkResolution int                `yaml:"chunk_resolution"` // samples per chunk edge
	WorldScale      float32            `yaml:"world_scale"`
	UpdateThreshold float32            `yaml:"update_threshold"`
	LODs            []terrain.LODLevel `yaml:"lods"`
	EvictFactor     float32            `yaml:"evict_factor"` // 0 keeps every chunk
}

// DispatchConfig holds background generation settings.
type DispatchConfig struct {
	Workers int `yaml:"workers"` // 0 = number of CPUs
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"` // debug, info, warn, error
	LogFile string `yaml:"log_file"`

	// rotation of log_file, see lumberjack.Logger
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// ViewerConfig drives the scripted viewer used by the binaries.
type ViewerConfig struct {
	Speed    float32 `yaml:"speed"`    // world units per second
	Altitude float32 `yaml:"altitude"` // world units
	Heading  float32 `yaml:"heading"`  // degrees, 0 = +X
	Duration float32 `yaml:"duration"` // seconds, 0 = until closed
	TickRate int     `yaml:"tick_rate"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

// DefaultChunkResolution gives 240 cells per chunk edge, divisible by every
// mesh simplification increment.
const DefaultChunkResolution = 241

// Default returns a configuration with sensible defaults.
func Default() *Config {
	rotation := logger.DefaultFileConfig("")
	return &Config{
		Noise: NoiseConfig{
			Seed:          1,
			Scale:         50,
			Octaves:       4,
			Persistence:   0.5,
			Lacunarity:    2,
			NormalizeMode: "global",
		},
		Mesh: MeshConfig{
			HeightMultiplier: 36,
			HeightCurve: []meshing.CurveKey{
				{T: 0, Value: 0},
				{T: 0.4, Value: 0},
				{T: 1, Value: 1},
			},
			Regions: []RegionConfig{
				{Name: "deep water", Height: 0, Color: mustHex("#1d4f91")},
				{Name: "water", Height: 0.3, Color: mustHex("#3366cc")},
				{Name: "sand", Height: 0.4, Color: mustHex("#d2c27d")},
				{Name: "grass", Height: 0.45, Color: mustHex("#56a12c")},
				{Name: "forest", Height: 0.55, Color: mustHex("#3c6e1f")},
				{Name: "rock", Height: 0.6, Color: mustHex("#5b4636")},
				{Name: "high rock", Height: 0.7, Color: mustHex("#4a3c31")},
				{Name: "snow", Height: 0.9, Color: mustHex("#ffffff")},
			},
		},
		Terrain: TerrainConfig{
			ChunkResolution: DefaultChunkResolution,
			WorldScale:      50,
			UpdateThreshold: 25,
			LODs:            append([]terrain.LODLevel(nil), terrain.DefaultLODs...),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAgeDays: rotation.MaxAgeDays,
			Compress:   rotation.Compress,
		},
		Viewer: ViewerConfig{
			Speed:    2000,
			Altitude: 1500,
			Heading:  30,
			TickRate: 60,
			Width:    1280,
			Height:   720,
		},
	}
}
