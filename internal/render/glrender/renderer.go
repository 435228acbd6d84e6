// Package glrender is the OpenGL 4.1 render.Backend. Every call must happen on
// the goroutine that owns the GL context.
package glrender

import (
	"image"
	"sort"

	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/profiling"
	"infinite-terrain/internal/render"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer realizes terrain meshes into vertex arrays and draws visible
// nodes.
type Renderer struct {
	shader *shader
	nodes  map[*node]struct{}

	LightDir    mgl32.Vec3
	FogColor    mgl32.Vec3
	FogDistance float32

	stats Stats
}

// Stats counts what the last Draw did.
type Stats struct {
	Nodes     int
	Drawn     int
	Culled    int
	Triangles int
}

// New compiles the terrain program. gl.Init must have been called.
func New() (*Renderer, error) {
	s, err := newShader(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	return &Renderer{
		shader:      s,
		nodes:       make(map[*node]struct{}),
		LightDir:    mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
		FogColor:    mgl32.Vec3{0.62, 0.75, 0.88},
		FogDistance: 30000,
	}, nil
}

type mesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	min, max      mgl32.Vec3
	triangles     int
}

func (m *mesh) Destroy() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

type texture struct {
	id uint32
}

func (t *texture) Destroy() {
	if t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}

type node struct {
	name     string
	mesh     *mesh
	texture  *texture
	visible  bool
	position mgl32.Vec3
	scale    float32
	owner    *Renderer
}

func (n *node) Name() string            { return n.name }
func (n *node) SetVisible(visible bool) { n.visible = visible }
func (n *node) Visible() bool           { return n.visible }

func (n *node) SetMesh(m render.Mesh) {
	n.mesh, _ = m.(*mesh)
}

func (n *node) SetTexture(t render.Texture) {
	n.texture, _ = t.(*texture)
}

func (n *node) SetTransform(position mgl32.Vec3, scale float32) {
	n.position = position
	n.scale = scale
}

func (n *node) Destroy() {
	delete(n.owner.nodes, n)
}

// RealizeMesh uploads interleaved position, normal and uv vertices.
func (r *Renderer) RealizeMesh(data *meshing.MeshData) render.Mesh {
	defer profiling.Track("glrender.RealizeMesh")()
	m := &mesh{
		indexCount: int32(len(data.Indices)),
		min:        data.Min,
		max:        data.Max,
		triangles:  data.TriangleCount(),
	}
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*4, gl.Ptr(data.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)

	gl.BindVertexArray(0)
	return m
}

// RealizeTexture uploads img with nearest filtering and clamped edges.
func (r *Renderer) RealizeTexture(img *image.RGBA) render.Texture {
	t := &texture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	size := img.Rect.Size()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// NewNode creates a hidden node.
func (r *Renderer) NewNode(name string) render.Node {
	n := &node{name: name, scale: 1, owner: r}
	r.nodes[n] = struct{}{}
	return n
}

// Draw renders every visible node with a mesh, skipping those outside the
// view frustum. Nodes are drawn front to back from eye.
func (r *Renderer) Draw(view, projection mgl32.Mat4, eye mgl32.Vec3) {
	defer profiling.Track("glrender.Draw")()

	planes := extractFrustumPlanes(projection.Mul4(view))
	r.stats = Stats{Nodes: len(r.nodes)}

	queue := make([]*node, 0, len(r.nodes))
	for n := range r.nodes {
		if !n.visible || n.mesh == nil || n.mesh.vao == 0 {
			continue
		}
		lo, hi := worldBounds(n.mesh.min, n.mesh.max, n.position, n.scale)
		if !boxInFrustum(lo, hi, planes) {
			r.stats.Culled++
			continue
		}
		queue = append(queue, n)
	}
	sort.Slice(queue, func(i, j int) bool {
		return queue[i].position.Sub(eye).LenSqr() < queue[j].position.Sub(eye).LenSqr()
	})

	r.shader.use()
	r.shader.setMat4("view", view)
	r.shader.setMat4("projection", projection)
	r.shader.setVec3("lightDir", r.LightDir)
	r.shader.setVec3("fogColor", r.FogColor)
	r.shader.setFloat("fogDistance", r.FogDistance)
	r.shader.setInt("colorMap", 0)
	gl.ActiveTexture(gl.TEXTURE0)

	for _, n := range queue {
		model := mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
			Mul4(mgl32.Scale3D(n.scale, n.scale, n.scale))
		r.shader.setMat4("model", model)

		var tex uint32
		if n.texture != nil {
			tex = n.texture.id
		}
		gl.BindTexture(gl.TEXTURE_2D, tex)

		gl.BindVertexArray(n.mesh.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, n.mesh.indexCount, gl.UNSIGNED_INT, 0)

		r.stats.Drawn++
		r.stats.Triangles += n.mesh.triangles
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Stats returns the counters of the last Draw.
func (r *Renderer) Stats() Stats { return r.stats }

// Close deletes the program. Meshes and textures are owned by their users.
func (r *Renderer) Close() {
	r.shader.delete()
	clear(r.nodes)
}

// worldBounds transforms a local AABB by a uniform scale and translation.
func worldBounds(min, max, position mgl32.Vec3, scale float32) (mgl32.Vec3, mgl32.Vec3) {
	return position.Add(min.Mul(scale)), position.Add(max.Mul(scale))
}
