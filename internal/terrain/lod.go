package terrain

// LODLevel pairs a mesh level of detail with the farthest distance, in chunk
// units, at which it is used.
type LODLevel struct {
	Level           int     `yaml:"level"`
	VisibleDistance float32 `yaml:"visible_distance"`
}

// DefaultLODs is used when no table is configured.
var DefaultLODs = []LODLevel{
	{Level: 0, VisibleDistance: 200},
	{Level: 1, VisibleDistance: 400},
	{Level: 4, VisibleDistance: 600},
}

// SelectLOD returns the index of the first level whose distance covers
// distance. Levels must be sorted by ascending VisibleDistance; past the last
// threshold the last index is returned. An empty table yields -1.
func SelectLOD(levels []LODLevel, distance float32) int {
	if len(levels) == 0 {
		return -1
	}
	for i, l := range levels[:len(levels)-1] {
		if distance <= l.VisibleDistance {
			return i
		}
	}
	return len(levels) - 1
}

// MaxViewDistance is the threshold of the last level.
func MaxViewDistance(levels []LODLevel) float32 {
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1].VisibleDistance
}
