// Package texture turns generated grids into RGBA images.
package texture

import (
	"image"
	"image/color"
	"math"

	"infinite-terrain/internal/noise"

	"golang.org/x/image/draw"
)

// FromHeightField renders heights in [0,1] as a black to white ramp.
func FromHeightField(h *noise.HeightField) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, h.Width(), h.Height()))
	for y := range h.Height() {
		for x := range h.Width() {
			v := uint8(math.Round(math.Min(math.Max(h.At(x, y), 0), 1) * 255))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// FromColorField copies a row-major color grid into an image.
// Missing entries stay transparent.
func FromColorField(colors []color.RGBA, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			i := y*width + x
			if i >= len(colors) {
				return img
			}
			img.SetRGBA(x, y, colors[i])
		}
	}
	return img
}

// Scale resizes src by an integer factor with nearest-neighbour sampling so
// region boundaries stay crisp.
func Scale(src image.Image, factor int) *image.RGBA {
	factor = max(factor, 1)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
