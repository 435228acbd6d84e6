package terrain

import (
	"fmt"
	"math"

	"infinite-terrain/internal/mapgen"
	"infinite-terrain/internal/render"

	"github.com/go-gl/mathgl/mgl32"
)

// Coord identifies a chunk on the infinite grid.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// ChunkState is the lifecycle state of a chunk.
type ChunkState int

const (
	AwaitingMapData ChunkState = iota
	Ready
)

func (s ChunkState) String() string {
	if s == Ready {
		return "ready"
	}
	return "awaiting-map-data"
}

// lodMesh caches one level of detail of a chunk. It only moves forward:
// unrequested, requested, ready.
type lodMesh struct {
	requested bool
	ready     bool
	mesh      render.Mesh
}

// Chunk is one square of terrain. It is only touched by the goroutine that
// owns the Manager.
type Chunk struct {
	coord    Coord
	position mgl32.Vec2
	min, max mgl32.Vec2

	mapData *mapgen.MapData
	texture render.Texture
	lods    []lodMesh

	displayedLOD int // index into the LOD table, -1 while nothing is shown
	visible      bool
	evicted      bool
	node         render.Node
}

func newChunk(coord Coord, size float32, lodCount int, node render.Node) *Chunk {
	pos := mgl32.Vec2{float32(coord.X) * size, float32(coord.Y) * size}
	half := mgl32.Vec2{size / 2, size / 2}
	return &Chunk{
		coord:        coord,
		position:     pos,
		min:          pos.Sub(half),
		max:          pos.Add(half),
		lods:         make([]lodMesh, lodCount),
		displayedLOD: -1,
		node:         node,
	}
}

// Coord returns the chunk's grid coordinate.
func (c *Chunk) Coord() Coord { return c.coord }

// State reports whether the chunk's map data has arrived.
func (c *Chunk) State() ChunkState {
	if c.mapData == nil {
		return AwaitingMapData
	}
	return Ready
}

// distanceTo returns the distance from p to the nearest point of the chunk's
// bounds, 0 when p lies inside.
func (c *Chunk) distanceTo(p mgl32.Vec2) float32 {
	dx := max(c.min.X()-p.X(), 0, p.X()-c.max.X())
	dy := max(c.min.Y()-p.Y(), 0, p.Y()-c.max.Y())
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

func (c *Chunk) setVisible(visible bool) {
	c.visible = visible
	c.node.SetVisible(visible)
}

// release destroys every graphics resource the chunk holds.
func (c *Chunk) release() {
	c.evicted = true
	c.visible = false
	for i := range c.lods {
		if c.lods[i].mesh != nil {
			c.lods[i].mesh.Destroy()
			c.lods[i].mesh = nil
		}
	}
	if c.texture != nil {
		c.texture.Destroy()
		c.texture = nil
	}
	c.node.Destroy()
}

// ChunkInfo is a read-only snapshot of a chunk.
type ChunkInfo struct {
	Coord        Coord
	State        ChunkState
	Visible      bool
	DisplayedLOD int
	Requested    []bool
	Ready        []bool
	Distance     float32
}

func (c *Chunk) info(viewer mgl32.Vec2) ChunkInfo {
	info := ChunkInfo{
		Coord:        c.coord,
		State:        c.State(),
		Visible:      c.visible,
		DisplayedLOD: c.displayedLOD,
		Requested:    make([]bool, len(c.lods)),
		Ready:        make([]bool, len(c.lods)),
		Distance:     c.distanceTo(viewer),
	}
	for i, l := range c.lods {
		info.Requested[i] = l.requested
		info.Ready[i] = l.ready
	}
	return info
}
