package render

import (
	"image"
	"sort"

	"infinite-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// Headless is a Backend that keeps resources in memory. It backs the CLI
// stream run and tests.
type Headless struct {
	nodes map[*HeadlessNode]struct{}
	stats HeadlessStats
}

// HeadlessStats counts resources created and released.
type HeadlessStats struct {
	Meshes, MeshesDestroyed     int
	Textures, TexturesDestroyed int
	Nodes, NodesDestroyed       int
}

// NewHeadless returns an empty headless backend.
func NewHeadless() *Headless {
	return &Headless{nodes: make(map[*HeadlessNode]struct{})}
}

// HeadlessMesh wraps the mesh data it was realized from.
type HeadlessMesh struct {
	Data      *meshing.MeshData
	destroyed bool
	owner     *Headless
}

func (m *HeadlessMesh) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.owner.stats.MeshesDestroyed++
}

// Destroyed reports whether Destroy was called.
func (m *HeadlessMesh) Destroyed() bool { return m.destroyed }

// HeadlessTexture wraps the image it was realized from.
type HeadlessTexture struct {
	Image     *image.RGBA
	destroyed bool
	owner     *Headless
}

func (t *HeadlessTexture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.owner.stats.TexturesDestroyed++
}

// HeadlessNode records the state set on it.
type HeadlessNode struct {
	name     string
	mesh     Mesh
	texture  Texture
	visible  bool
	position mgl32.Vec3
	scale    float32
	owner    *Headless
}

func (n *HeadlessNode) Name() string            { return n.name }
func (n *HeadlessNode) SetMesh(m Mesh)          { n.mesh = m }
func (n *HeadlessNode) SetTexture(t Texture)    { n.texture = t }
func (n *HeadlessNode) SetVisible(visible bool) { n.visible = visible }
func (n *HeadlessNode) Visible() bool           { return n.visible }

func (n *HeadlessNode) SetTransform(position mgl32.Vec3, scale float32) {
	n.position = position
	n.scale = scale
}

func (n *HeadlessNode) Destroy() {
	if _, ok := n.owner.nodes[n]; !ok {
		return
	}
	delete(n.owner.nodes, n)
	n.owner.stats.NodesDestroyed++
}

// Mesh returns the mesh currently attached.
func (n *HeadlessNode) Mesh() Mesh { return n.mesh }

// Texture returns the texture currently attached.
func (n *HeadlessNode) Texture() Texture { return n.texture }

// Transform returns the last position and scale set.
func (n *HeadlessNode) Transform() (mgl32.Vec3, float32) { return n.position, n.scale }

func (h *Headless) RealizeMesh(data *meshing.MeshData) Mesh {
	h.stats.Meshes++
	return &HeadlessMesh{Data: data, owner: h}
}

func (h *Headless) RealizeTexture(img *image.RGBA) Texture {
	h.stats.Textures++
	return &HeadlessTexture{Image: img, owner: h}
}

func (h *Headless) NewNode(name string) Node {
	n := &HeadlessNode{name: name, scale: 1, owner: h}
	h.nodes[n] = struct{}{}
	h.stats.Nodes++
	return n
}

// Stats returns the resource counters.
func (h *Headless) Stats() HeadlessStats { return h.stats }

// Nodes returns the live nodes sorted by name.
func (h *Headless) Nodes() []*HeadlessNode {
	out := make([]*HeadlessNode, 0, len(h.nodes))
	for n := range h.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// VisibleNodes returns how many live nodes are visible.
func (h *Headless) VisibleNodes() int {
	count := 0
	for n := range h.nodes {
		if n.visible {
			count++
		}
	}
	return count
}
