package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"infinite-terrain/internal/noise"
	"infinite-terrain/internal/terrain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Terrain.ChunkResolution != 241 {
		t.Errorf("expected chunk resolution 241, got %d", cfg.Terrain.ChunkResolution)
	}
	if cfg.Terrain.WorldScale != 50 {
		t.Errorf("expected world scale 50, got %v", cfg.Terrain.WorldScale)
	}
	if cfg.Terrain.UpdateThreshold != 25 {
		t.Errorf("expected update threshold 25, got %v", cfg.Terrain.UpdateThreshold)
	}
	if cfg.Terrain.EvictFactor != 0 {
		t.Error("expected eviction to be disabled by default")
	}
	if cfg.Noise.NormalizeMode != "global" {
		t.Errorf("expected global normalization, got %s", cfg.Noise.NormalizeMode)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if len(cfg.Mesh.Regions) == 0 || cfg.Mesh.Regions[0].Height != 0 {
		t.Error("expected a region table starting at height 0")
	}

	// defaults are already clean apart from worker detection
	if fixes := cfg.Sanitize(); len(fixes) != 0 {
		t.Errorf("defaults needed fixes: %v", fixes)
	}
}

func TestDefaultDoesNotAliasLODs(t *testing.T) {
	cfg := Default()
	cfg.Terrain.LODs[0].Level = 5
	if terrain.DefaultLODs[0].Level == 5 {
		t.Fatal("Default shares the terrain.DefaultLODs backing array")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
noise:
  seed: 42
  scale: 27.5
  octaves: 6
  offset: [10, -3]
  normalize_mode: local

mesh:
  height_multiplier: 20
  height_curve:
    - {t: 0, value: 0}
    - {t: 1, value: 2}
  regions:
    - name: water
      height: 0
      color: "#0000ff"
    - name: land
      height: 0.5
      color: "#00ff00"

terrain:
  chunk_resolution: 121
  lods:
    - {level: 0, visible_distance: 100}
    - {level: 2, visible_distance: 300}
  evict_factor: 3

dispatch:
  workers: 3

logging:
  level: debug
  log_file: terrain.log
  max_size_mb: 5
  compress: false
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Noise.Seed != 42 || cfg.Noise.Scale != 27.5 || cfg.Noise.Octaves != 6 {
		t.Errorf("unexpected noise section %+v", cfg.Noise)
	}
	if cfg.Noise.Offset != [2]float64{10, -3} {
		t.Errorf("unexpected offset %v", cfg.Noise.Offset)
	}
	// unset keys keep their defaults
	if cfg.Noise.Persistence != 0.5 || cfg.Noise.Lacunarity != 2 {
		t.Errorf("defaults lost: persistence %v lacunarity %v", cfg.Noise.Persistence, cfg.Noise.Lacunarity)
	}
	if len(cfg.Mesh.Regions) != 2 {
		t.Fatalf("expected file regions to replace defaults, got %d", len(cfg.Mesh.Regions))
	}
	if r, g, b := cfg.Mesh.Regions[1].Color.RGB255(); r != 0 || g != 255 || b != 0 {
		t.Errorf("expected green land, got %d,%d,%d", r, g, b)
	}
	if len(cfg.Mesh.HeightCurve) != 2 || cfg.Mesh.HeightCurve[1].Value != 2 {
		t.Errorf("unexpected height curve %v", cfg.Mesh.HeightCurve)
	}
	if cfg.Terrain.ChunkResolution != 121 || cfg.Terrain.EvictFactor != 3 {
		t.Errorf("unexpected terrain section %+v", cfg.Terrain)
	}
	if len(cfg.Terrain.LODs) != 2 || cfg.Terrain.LODs[1] != (terrain.LODLevel{Level: 2, VisibleDistance: 300}) {
		t.Errorf("unexpected lods %v", cfg.Terrain.LODs)
	}
	if cfg.Terrain.WorldScale != 50 {
		t.Errorf("expected default world scale, got %v", cfg.Terrain.WorldScale)
	}
	if cfg.Dispatch.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Dispatch.Workers)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("unexpected logging section %+v", cfg.Logging)
	}
	fc := cfg.LogFileConfig()
	if fc.Path != "terrain.log" || fc.MaxSizeMB != 5 || fc.Compress {
		t.Errorf("unexpected log file config %+v", fc)
	}
	// unset rotation keys keep the logger defaults
	if fc.MaxBackups != 3 || fc.MaxAgeDays != 7 {
		t.Errorf("rotation defaults lost: %+v", fc)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for an explicit path that does not exist")
	}
	if !strings.Contains(err.Error(), "loading config from") {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestLoadInvalidColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "mesh:\n  regions:\n    - {name: bad, height: 0, color: \"not-a-color\"}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected invalid hex color to fail")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Noise.Seed = 99
	cfg.Mesh.Regions = []RegionConfig{{Name: "only", Height: 0.25, Color: mustHex("#336699")}}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Noise.Seed != 99 {
		t.Errorf("seed not persisted: %d", loaded.Noise.Seed)
	}
	if len(loaded.Mesh.Regions) != 1 || loaded.Mesh.Regions[0].Color.Hex() != "#336699" {
		t.Errorf("region not persisted: %+v", loaded.Mesh.Regions)
	}
}

func TestSanitizeClamps(t *testing.T) {
	cfg := Default()
	cfg.Noise.Scale = 0
	cfg.Noise.Octaves = -3
	cfg.Noise.Lacunarity = 0.5
	cfg.Noise.NormalizeMode = "sideways"
	cfg.Mesh.HeightMultiplier = 0.2
	cfg.Terrain.ChunkResolution = 1
	cfg.Terrain.WorldScale = -5
	cfg.Terrain.EvictFactor = 0.5
	cfg.Terrain.LODs = []terrain.LODLevel{{Level: 9, VisibleDistance: 300}, {Level: -1, VisibleDistance: 100}}
	cfg.Dispatch.Workers = 0
	cfg.Logging.Level = "loud"
	cfg.Logging.MaxBackups = -2

	fixes := cfg.Sanitize()

	if cfg.Noise.Scale != noise.MinScale {
		t.Errorf("scale = %v, want %v", cfg.Noise.Scale, noise.MinScale)
	}
	if cfg.Noise.Octaves != 0 {
		t.Errorf("octaves = %d, want 0", cfg.Noise.Octaves)
	}
	if cfg.Noise.Lacunarity != 1 {
		t.Errorf("lacunarity = %v, want 1", cfg.Noise.Lacunarity)
	}
	if cfg.Noise.NormalizeMode != "local" {
		t.Errorf("normalize mode = %q, want local", cfg.Noise.NormalizeMode)
	}
	if cfg.Mesh.HeightMultiplier != 1 {
		t.Errorf("height multiplier = %v, want 1", cfg.Mesh.HeightMultiplier)
	}
	if cfg.Terrain.ChunkResolution != DefaultChunkResolution {
		t.Errorf("chunk resolution = %d", cfg.Terrain.ChunkResolution)
	}
	if cfg.Terrain.WorldScale != 1 {
		t.Errorf("world scale = %v, want 1", cfg.Terrain.WorldScale)
	}
	if cfg.Terrain.EvictFactor != 1 {
		t.Errorf("evict factor = %v, want 1", cfg.Terrain.EvictFactor)
	}
	wantLODs := []terrain.LODLevel{{Level: 0, VisibleDistance: 100}, {Level: 6, VisibleDistance: 300}}
	for i, l := range wantLODs {
		if cfg.Terrain.LODs[i] != l {
			t.Errorf("lods[%d] = %+v, want %+v", i, cfg.Terrain.LODs[i], l)
		}
	}
	if cfg.Dispatch.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d, want %d", cfg.Dispatch.Workers, runtime.NumCPU())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.MaxBackups != 0 {
		t.Errorf("max backups = %d, want 0", cfg.Logging.MaxBackups)
	}
	// one per clamped field and lod level plus the lod sort; workers are
	// filled in silently
	if len(fixes) != 13 {
		t.Errorf("expected 13 fixes, got %d: %v", len(fixes), fixes)
	}
}

func TestSanitizeEmptyLODs(t *testing.T) {
	cfg := Default()
	cfg.Terrain.LODs = nil
	cfg.Sanitize()
	if len(cfg.Terrain.LODs) != len(terrain.DefaultLODs) {
		t.Errorf("expected default lods, got %v", cfg.Terrain.LODs)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Noise.Offset = [2]float64{3, 4}
	cfg.Sanitize()

	p := cfg.NoiseParams()
	if p.Mode != noise.Global || p.Offset.X() != 3 || p.Offset.Y() != 4 || p.Octaves != cfg.Noise.Octaves {
		t.Errorf("unexpected noise params %+v", p)
	}

	gs := cfg.GeneratorSettings()
	if gs.Resolution != 241 || len(gs.Regions) != len(cfg.Mesh.Regions) {
		t.Errorf("unexpected generator settings %+v", gs)
	}
	if gs.Regions[0].RGBA().A != 255 {
		t.Error("region colors should be opaque")
	}

	ms := cfg.MeshSettings()
	if ms.HeightMultiplier != 36 || len(ms.HeightCurve.Keys()) != 3 {
		t.Errorf("unexpected mesh settings %+v", ms)
	}

	opts := cfg.TerrainOptions()
	if opts.ChunkSize != 240 || opts.WorldScale != 50 || len(opts.LODs) != 3 {
		t.Errorf("unexpected terrain options %+v", opts)
	}
}
