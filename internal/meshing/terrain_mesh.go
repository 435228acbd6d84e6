package meshing

import (
	"infinite-terrain/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz + uv)
const VertexStride = 8

// MaxLOD is the coarsest level the builder accepts. Its increment (12) and
// every finer one divide a 240-cell chunk edge.
const MaxLOD = 6

// MeshData is CPU-side mesh geometry for one chunk at one level of detail.
// It carries no graphics resources and may be built on any goroutine.
type MeshData struct {
	LOD             int
	VerticesPerLine int
	Vertices        []float32 // interleaved, VertexStride floats each
	Indices         []uint32
	Min, Max        mgl32.Vec3
}

// VertexCount returns the number of vertices in the mesh.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// TriangleCount returns the number of triangles in the mesh.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Position returns the position of vertex i.
func (m *MeshData) Position(i int) mgl32.Vec3 {
	o := i * VertexStride
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Normal returns the normal of vertex i.
func (m *MeshData) Normal(i int) mgl32.Vec3 {
	o := i*VertexStride + 3
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// SimplificationIncrement is the sample stride used for a level of detail.
func SimplificationIncrement(lod int) int {
	lod = ClampLOD(lod)
	if lod == 0 {
		return 1
	}
	return lod * 2
}

// ClampLOD clamps lod into [0, MaxLOD].
func ClampLOD(lod int) int {
	return min(max(lod, 0), MaxLOD)
}

// BuildTerrainMesh triangulates a height field centred on the origin.
// Heights are remapped by curve and scaled by heightMultiplier; lod selects
// the sample stride. The result only depends on its inputs.
func BuildTerrainMesh(h *noise.HeightField, heightMultiplier float64, curve HeightCurve, lod int) *MeshData {
	width, height := h.Width(), h.Height()
	mesh := &MeshData{LOD: ClampLOD(lod)}
	if width < 2 || height < 2 {
		return mesh
	}

	inc := SimplificationIncrement(lod)
	perLine := (width-1)/inc + 1
	lines := (height-1)/inc + 1
	mesh.VerticesPerLine = perLine

	topLeftX := float32(width-1) / -2
	topLeftZ := float32(height-1) / 2

	mesh.Vertices = make([]float32, 0, perLine*lines*VertexStride)
	mesh.Indices = make([]uint32, 0, (perLine-1)*(lines-1)*6)

	for row := range lines {
		for col := range perLine {
			x, y := col*inc, row*inc
			pos := mgl32.Vec3{
				topLeftX + float32(x),
				float32(curve.Evaluate(h.At(x, y)) * heightMultiplier),
				topLeftZ - float32(y),
			}
			if row == 0 && col == 0 {
				mesh.Min, mesh.Max = pos, pos
			}
			mesh.Min = mgl32.Vec3{min(mesh.Min[0], pos[0]), min(mesh.Min[1], pos[1]), min(mesh.Min[2], pos[2])}
			mesh.Max = mgl32.Vec3{max(mesh.Max[0], pos[0]), max(mesh.Max[1], pos[1]), max(mesh.Max[2], pos[2])}

			mesh.Vertices = append(mesh.Vertices,
				pos[0], pos[1], pos[2],
				0, 0, 0,
				float32(x)/float32(width), float32(y)/float32(height),
			)

			if col < perLine-1 && row < lines-1 {
				i := uint32(row*perLine + col)
				pl := uint32(perLine)
				mesh.Indices = append(mesh.Indices,
					i, i+pl+1, i+pl,
					i+pl+1, i, i+1,
				)
			}
		}
	}

	computeNormals(mesh)
	return mesh
}

// computeNormals accumulates face normals into each vertex and normalizes them.
func computeNormals(m *MeshData) {
	n := m.VertexCount()
	acc := make([]mgl32.Vec3, n)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := m.Position(int(a)), m.Position(int(b)), m.Position(int(c))
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}
	for i, v := range acc {
		if v.Len() > 0 {
			v = v.Normalize()
		} else {
			v = mgl32.Vec3{0, 1, 0}
		}
		o := i*VertexStride + 3
		m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2] = v[0], v[1], v[2]
	}
}
