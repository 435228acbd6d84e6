// Package render defines the presentation handles the terrain manager drives:
// one Node per chunk, holding a realized mesh and texture.
package render

import (
	"image"

	"infinite-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a mesh realized for drawing.
type Mesh interface {
	Destroy()
}

// Texture is an image realized for drawing.
type Texture interface {
	Destroy()
}

// Node is one drawable unit placed in the world. A new node is hidden and
// empty.
type Node interface {
	Name() string
	SetMesh(m Mesh)
	SetTexture(t Texture)
	SetVisible(visible bool)
	Visible() bool
	SetTransform(position mgl32.Vec3, scale float32)
	// Destroy releases the node. The mesh and texture it holds are not
	// destroyed.
	Destroy()
}

// Backend creates graphics resources. All methods must be called from the
// goroutine that owns the backend.
type Backend interface {
	RealizeMesh(data *meshing.MeshData) Mesh
	RealizeTexture(img *image.RGBA) Texture
	NewNode(name string) Node
}
