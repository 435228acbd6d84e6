package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/noise"
	"infinite-terrain/internal/terrain"
)

// Sanitize clamps out-of-range values in place and describes every change
// it made. Nothing is rejected.
func (c *Config) Sanitize() []string {
	var fixes []string
	fix := func(format string, args ...any) {
		fixes = append(fixes, fmt.Sprintf(format, args...))
	}

	n := &c.Noise
	if n.Scale <= 0 {
		fix("noise.scale %v raised to %v", n.Scale, noise.MinScale)
		n.Scale = noise.MinScale
	}
	if n.Octaves < 0 {
		fix("noise.octaves %d raised to 0", n.Octaves)
		n.Octaves = 0
	}
	if n.Lacunarity < 1 {
		fix("noise.lacunarity %v raised to 1", n.Lacunarity)
		n.Lacunarity = 1
	}
	if _, ok := noise.ParseNormalizeMode(n.NormalizeMode); !ok {
		fix("noise.normalize_mode %q replaced by %q", n.NormalizeMode, noise.Local.String())
		n.NormalizeMode = noise.Local.String()
	}

	m := &c.Mesh
	if m.HeightMultiplier < 1 {
		fix("mesh.height_multiplier %v raised to 1", m.HeightMultiplier)
		m.HeightMultiplier = 1
	}
	if !sort.SliceIsSorted(m.Regions, func(i, j int) bool { return m.Regions[i].Height < m.Regions[j].Height }) {
		fix("mesh.regions sorted by height")
		sort.SliceStable(m.Regions, func(i, j int) bool { return m.Regions[i].Height < m.Regions[j].Height })
	}

	t := &c.Terrain
	if t.ChunkResolution < 2 {
		fix("terrain.chunk_resolution %d replaced by %d", t.ChunkResolution, DefaultChunkResolution)
		t.ChunkResolution = DefaultChunkResolution
	}
	if t.WorldScale <= 0 {
		fix("terrain.world_scale %v replaced by 1", t.WorldScale)
		t.WorldScale = 1
	}
	if t.UpdateThreshold < 0 {
		fix("terrain.update_threshold %v raised to 0", t.UpdateThreshold)
		t.UpdateThreshold = 0
	}
	switch {
	case t.EvictFactor < 0:
		fix("terrain.evict_factor %v raised to 0", t.EvictFactor)
		t.EvictFactor = 0
	case t.EvictFactor > 0 && t.EvictFactor < 1:
		fix("terrain.evict_factor %v raised to 1", t.EvictFactor)
		t.EvictFactor = 1
	}
	if len(t.LODs) == 0 {
		fix("terrain.lods empty, using defaults")
		t.LODs = append([]terrain.LODLevel(nil), terrain.DefaultLODs...)
	}
	for i := range t.LODs {
		if lvl := meshing.ClampLOD(t.LODs[i].Level); lvl != t.LODs[i].Level {
			fix("terrain.lods[%d].level %d clamped to %d", i, t.LODs[i].Level, lvl)
			t.LODs[i].Level = lvl
		}
	}
	if !sort.SliceIsSorted(t.LODs, func(i, j int) bool { return t.LODs[i].VisibleDistance < t.LODs[j].VisibleDistance }) {
		fix("terrain.lods sorted by visible_distance")
		sort.SliceStable(t.LODs, func(i, j int) bool { return t.LODs[i].VisibleDistance < t.LODs[j].VisibleDistance })
	}

	if c.Dispatch.Workers <= 0 {
		c.Dispatch.Workers = runtime.NumCPU()
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		fix("logging.level %q replaced by info", c.Logging.Level)
		c.Logging.Level = "info"
	}
	for _, r := range []struct {
		name string
		v    *int
	}{
		{"max_size_mb", &c.Logging.MaxSizeMB},
		{"max_backups", &c.Logging.MaxBackups},
		{"max_age_days", &c.Logging.MaxAgeDays},
	} {
		if *r.v < 0 {
			fix("logging.%s %d raised to 0", r.name, *r.v)
			*r.v = 0
		}
	}

	if c.Viewer.TickRate <= 0 {
		fix("viewer.tick_rate %d replaced by 60", c.Viewer.TickRate)
		c.Viewer.TickRate = 60
	}
	return fixes
}
