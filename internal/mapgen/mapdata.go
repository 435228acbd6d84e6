// Package mapgen produces per-chunk height and color data and schedules that
// work, plus mesh construction, on background workers.
package mapgen

import (
	"image/color"

	"infinite-terrain/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Region colors every height at or above Height, until the next region's
// threshold takes over. Regions are listed in ascending Height.
type Region struct {
	Name   string
	Height float64
	Color  colorful.Color
}

// RGBA converts the region color to an opaque 8-bit color.
func (r Region) RGBA() color.RGBA {
	red, green, blue := r.Color.Clamped().RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

// ColorField is a grid of colors matching a HeightField. Immutable.
type ColorField struct {
	width  int
	height int
	pix    []color.RGBA
}

// Width returns the number of columns.
func (c *ColorField) Width() int { return c.width }

// Height returns the number of rows.
func (c *ColorField) Height() int { return c.height }

// At returns the color at (x, y), or transparent black outside the grid.
func (c *ColorField) At(x, y int) color.RGBA {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return color.RGBA{}
	}
	return c.pix[y*c.width+x]
}

// Colors returns a row-major copy of the grid.
func (c *ColorField) Colors() []color.RGBA {
	out := make([]color.RGBA, len(c.pix))
	copy(out, c.pix)
	return out
}

// BuildColorField applies the region table to every height sample. A height
// takes the color of the last region whose threshold it reaches, scanning in
// order and stopping at the first region above it. Heights below the first
// region stay transparent.
func BuildColorField(h *noise.HeightField, regions []Region) *ColorField {
	colors := make([]color.RGBA, len(regions))
	for i, r := range regions {
		colors[i] = r.RGBA()
	}

	cf := &ColorField{width: h.Width(), height: h.Height(), pix: make([]color.RGBA, h.Width()*h.Height())}
	for y := range cf.height {
		for x := range cf.width {
			v := h.At(x, y)
			for i, r := range regions {
				if v < r.Height {
					break
				}
				cf.pix[y*cf.width+x] = colors[i]
			}
		}
	}
	return cf
}

// MapData is everything generated for one chunk. Created once, never mutated.
type MapData struct {
	Center mgl32.Vec2
	Height *noise.HeightField
	Colors *ColorField
}

// NewMapData wraps precomputed fields.
func NewMapData(center mgl32.Vec2, h *noise.HeightField, regions []Region) *MapData {
	return &MapData{Center: center, Height: h, Colors: BuildColorField(h, regions)}
}

// GeneratorSettings configures map data generation.
type GeneratorSettings struct {
	// Resolution is the number of samples along each chunk edge.
	Resolution int
	// Noise holds the fractal parameters; Noise.Offset is the global offset
	// added to every chunk centre.
	Noise   noise.Params
	Regions []Region
}

// Generator computes MapData for chunk centres. Safe for concurrent use.
type Generator struct {
	resolution int
	params     noise.Params
	regions    []Region
}

// NewGenerator creates a generator. The region table is copied.
func NewGenerator(s GeneratorSettings) *Generator {
	regions := make([]Region, len(s.Regions))
	copy(regions, s.Regions)
	return &Generator{
		resolution: max(s.Resolution, 1),
		params:     s.Noise,
		regions:    regions,
	}
}

// Resolution returns the per-edge sample count.
func (g *Generator) Resolution() int {
	return g.resolution
}

// Generate computes the map data for the chunk centred at center.
func (g *Generator) Generate(center mgl32.Vec2) *MapData {
	p := g.params
	p.Offset = p.Offset.Add(mgl64.Vec2{float64(center.X()), float64(center.Y())})
	h := noise.Generate(g.resolution, g.resolution, p)
	return NewMapData(center, h, g.regions)
}
