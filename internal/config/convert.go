package config

import (
	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/mapgen"
	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/noise"
	"infinite-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// NoiseParams converts the noise section.
func (c *Config) NoiseParams() noise.Params {
	mode, ok := noise.ParseNormalizeMode(c.Noise.NormalizeMode)
	if !ok {
		mode = noise.Local
	}
	return noise.Params{
		Seed:        c.Noise.Seed,
		Scale:       c.Noise.Scale,
		Octaves:     c.Noise.Octaves,
		Persistence: c.Noise.Persistence,
		Lacunarity:  c.Noise.Lacunarity,
		Offset:      mgl64.Vec2{c.Noise.Offset[0], c.Noise.Offset[1]},
		Mode:        mode,
	}
}

// Regions converts the region table.
func (c *Config) Regions() []mapgen.Region {
	out := make([]mapgen.Region, len(c.Mesh.Regions))
	for i, r := range c.Mesh.Regions {
		out[i] = mapgen.Region{Name: r.Name, Height: r.Height, Color: r.Color.Color}
	}
	return out
}

// GeneratorSettings builds the map generator settings.
func (c *Config) GeneratorSettings() mapgen.GeneratorSettings {
	return mapgen.GeneratorSettings{
		Resolution: c.Terrain.ChunkResolution,
		Noise:      c.NoiseParams(),
		Regions:    c.Regions(),
	}
}

// MeshSettings builds the mesh builder settings.
func (c *Config) MeshSettings() mapgen.MeshSettings {
	return mapgen.MeshSettings{
		HeightMultiplier: c.Mesh.HeightMultiplier,
		HeightCurve:      meshing.NewHeightCurve(c.Mesh.HeightCurve...),
	}
}

// TerrainOptions fills the manager options that come from configuration.
// Requester, Backend and Logger are left for the caller.
func (c *Config) TerrainOptions() terrain.Options {
	return terrain.Options{
		ChunkSize:       c.Terrain.ChunkResolution - 1,
		WorldScale:      c.Terrain.WorldScale,
		UpdateThreshold: c.Terrain.UpdateThreshold,
		LODs:            append([]terrain.LODLevel(nil), c.Terrain.LODs...),
		EvictFactor:     c.Terrain.EvictFactor,
	}
}

// LogFileConfig returns the rotating file settings for logger.InitWithFileConfig.
// An empty log_file yields a config without a path.
func (c *Config) LogFileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       c.Logging.LogFile,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
}
