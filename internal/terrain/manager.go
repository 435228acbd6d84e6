// Package terrain keeps the chunks around a moving viewer alive, picks a
// level of detail for each one and attaches finished meshes to their render
// nodes.
package terrain

import (
	"math"
	"sort"

	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/mapgen"
	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/profiling"
	"infinite-terrain/internal/render"
	"infinite-terrain/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Requester schedules generation work and delivers results on Drain.
// *mapgen.Dispatcher implements it.
type Requester interface {
	RequestMapData(center mgl32.Vec2, onComplete func(*mapgen.MapData))
	RequestMeshData(data *mapgen.MapData, lod int, onComplete func(*meshing.MeshData))
	Drain() int
}

// Options configures a Manager.
type Options struct {
	// ChunkSize is the edge length of a chunk in cells (sample resolution - 1).
	ChunkSize int
	// WorldScale divides viewer positions and scales render nodes.
	WorldScale float32
	// UpdateThreshold is how far, in chunk units, the viewer must move
	// before the window is re-evaluated.
	UpdateThreshold float32
	// LODs must be sorted by ascending VisibleDistance. Empty means
	// DefaultLODs.
	LODs []LODLevel
	// EvictFactor > 0 drops chunks farther than EvictFactor times the max
	// view distance. Values in (0, 1) are raised to 1.
	EvictFactor float32

	Requester Requester
	Backend   render.Backend
	Logger    *zap.Logger
}

// Manager owns the chunk map. Every method must be called from the same
// goroutine, the one that calls Tick.
type Manager struct {
	chunkSize    float32
	worldScale   float32
	thresholdSqr float32
	lods         []LODLevel
	maxViewDist  float32
	windowRadius int
	evictDist    float32

	requests Requester
	backend  render.Backend
	log      *zap.Logger

	chunks  map[Coord]*Chunk
	visible map[Coord]*Chunk

	viewer     mgl32.Vec2
	lastUpdate mgl32.Vec2
	updated    bool

	updates int
	evicted int
	dropped int
}

// NewManager creates a manager with an empty chunk map.
func NewManager(opts Options) *Manager {
	lods := opts.LODs
	if len(lods) == 0 {
		lods = DefaultLODs
	}
	lods = append([]LODLevel(nil), lods...)

	chunkSize := float32(max(opts.ChunkSize, 1))
	scale := opts.WorldScale
	if scale <= 0 {
		scale = 1
	}

	m := &Manager{
		chunkSize:    chunkSize,
		worldScale:   scale,
		thresholdSqr: opts.UpdateThreshold * opts.UpdateThreshold,
		lods:         lods,
		maxViewDist:  MaxViewDistance(lods),
		requests:     opts.Requester,
		backend:      opts.Backend,
		log:          logger.Or(opts.Logger, "terrain"),
		chunks:       make(map[Coord]*Chunk),
		visible:      make(map[Coord]*Chunk),
	}
	m.windowRadius = int(math.Round(float64(m.maxViewDist / chunkSize)))
	if opts.EvictFactor > 0 {
		m.evictDist = max(opts.EvictFactor, 1) * m.maxViewDist
	}
	return m
}

// Tick moves the viewer to a world position, re-evaluates the chunk window
// when the viewer moved far enough (always on the first call), then applies
// finished generation results.
func (m *Manager) Tick(viewerWorld mgl32.Vec3) {
	defer profiling.Track("terrain.Tick")()

	m.viewer = mgl32.Vec2{viewerWorld.X(), viewerWorld.Z()}.Mul(1 / m.worldScale)
	if !m.updated || m.viewer.Sub(m.lastUpdate).LenSqr() > m.thresholdSqr {
		m.lastUpdate = m.viewer
		m.updated = true
		m.updateVisibleChunks()
	}
	m.requests.Drain()
}

// updateVisibleChunks hides last update's visible chunks, then visits every
// coordinate of the window around the viewer. Chunks outside the window are
// never touched except by eviction.
func (m *Manager) updateVisibleChunks() {
	defer profiling.Track("terrain.Update")()
	m.updates++

	for _, c := range m.visible {
		c.setVisible(false)
	}
	clear(m.visible)

	center := m.viewerCoord()
	r := m.windowRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			coord := Coord{X: center.X + dx, Y: center.Y + dy}
			if c, ok := m.chunks[coord]; ok {
				m.updateChunk(c)
				continue
			}
			m.createChunk(coord)
		}
	}

	if m.evictDist > 0 {
		m.evictFarChunks(center)
	}
}

func (m *Manager) viewerCoord() Coord {
	return Coord{
		X: int(math.Round(float64(m.viewer.X() / m.chunkSize))),
		Y: int(math.Round(float64(m.viewer.Y() / m.chunkSize))),
	}
}

func (m *Manager) createChunk(coord Coord) {
	node := m.backend.NewNode("terrain chunk " + coord.String())
	c := newChunk(coord, m.chunkSize, len(m.lods), node)
	node.SetTransform(mgl32.Vec3{c.position.X(), 0, c.position.Y()}.Mul(m.worldScale), m.worldScale)
	c.setVisible(false)
	m.chunks[coord] = c

	m.log.Debug("chunk created", zap.Int("x", coord.X), zap.Int("y", coord.Y))
	m.requests.RequestMapData(c.position, func(data *mapgen.MapData) {
		m.onMapData(c, data)
	})
}

func (m *Manager) onMapData(c *Chunk, data *mapgen.MapData) {
	if c.evicted {
		m.dropped++
		return
	}
	if c.mapData != nil {
		m.log.Warn("duplicate map data ignored", zap.Stringer("chunk", c.coord))
		return
	}
	c.mapData = data

	img := texture.FromColorField(data.Colors.Colors(), data.Colors.Width(), data.Colors.Height())
	c.texture = m.backend.RealizeTexture(img)
	c.node.SetTexture(c.texture)

	m.updateChunk(c)
}

// updateChunk runs the level of detail state machine for one chunk and keeps
// the visible set in step with the chunk's visible flag.
func (m *Manager) updateChunk(c *Chunk) {
	if c.evicted || c.mapData == nil {
		return
	}

	dist := c.distanceTo(m.viewer)
	visible := dist <= m.maxViewDist

	if visible {
		idx := SelectLOD(m.lods, dist)
		if idx != c.displayedLOD {
			lod := &c.lods[idx]
			switch {
			case lod.ready:
				c.node.SetMesh(lod.mesh)
				c.displayedLOD = idx
			case !lod.requested:
				lod.requested = true
				m.requests.RequestMeshData(c.mapData, m.lods[idx].Level, func(data *meshing.MeshData) {
					m.onMeshData(c, idx, data)
				})
			}
		}
		m.visible[c.coord] = c
	} else {
		delete(m.visible, c.coord)
	}

	c.setVisible(visible)
}

func (m *Manager) onMeshData(c *Chunk, idx int, data *meshing.MeshData) {
	if c.evicted {
		m.dropped++
		return
	}
	lod := &c.lods[idx]
	lod.mesh = m.backend.RealizeMesh(data)
	lod.ready = true

	m.updateChunk(c)
}

// evictFarChunks drops chunks beyond the eviction distance. Coordinates of
// the current window are kept even when a corner lies past that distance.
func (m *Manager) evictFarChunks(center Coord) {
	r := m.windowRadius
	for coord, c := range m.chunks {
		if abs(coord.X-center.X) <= r && abs(coord.Y-center.Y) <= r {
			continue
		}
		if c.distanceTo(m.viewer) <= m.evictDist {
			continue
		}
		c.release()
		delete(m.chunks, coord)
		delete(m.visible, coord)
		m.evicted++
		m.log.Debug("chunk evicted", zap.Int("x", coord.X), zap.Int("y", coord.Y))
	}
}

// Close releases every chunk. The manager must not be used afterwards.
func (m *Manager) Close() {
	for coord, c := range m.chunks {
		c.release()
		delete(m.chunks, coord)
	}
	clear(m.visible)
}

// Stats summarizes the chunk map.
type Stats struct {
	Chunks        int
	Visible       int
	AwaitingData  int
	MeshesPending int
	MeshesReady   int
	Updates       int
	Evicted       int
	Dropped       int
	ViewerCoord   Coord
}

// Stats returns a snapshot of the chunk map.
func (m *Manager) Stats() Stats {
	s := Stats{
		Chunks:      len(m.chunks),
		Visible:     len(m.visible),
		Updates:     m.updates,
		Evicted:     m.evicted,
		Dropped:     m.dropped,
		ViewerCoord: m.viewerCoord(),
	}
	for _, c := range m.chunks {
		if c.mapData == nil {
			s.AwaitingData++
		}
		for _, l := range c.lods {
			if l.ready {
				s.MeshesReady++
			} else if l.requested {
				s.MeshesPending++
			}
		}
	}
	return s
}

// Chunk returns a snapshot of the chunk at coord.
func (m *Manager) Chunk(coord Coord) (ChunkInfo, bool) {
	c, ok := m.chunks[coord]
	if !ok {
		return ChunkInfo{}, false
	}
	return c.info(m.viewer), true
}

// VisibleCoords returns the visible set sorted by Y then X.
func (m *Manager) VisibleCoords() []Coord {
	out := make([]Coord, 0, len(m.visible))
	for coord := range m.visible {
		out = append(out, coord)
	}
	sortCoords(out)
	return out
}

// LODs returns a copy of the level of detail table in use.
func (m *Manager) LODs() []LODLevel {
	return append([]LODLevel(nil), m.lods...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Y != cs[j].Y {
			return cs[i].Y < cs[j].Y
		}
		return cs[i].X < cs[j].X
	})
}
