package texture

import (
	"image/color"
	"testing"

	"infinite-terrain/internal/noise"
)

func TestFromHeightField(t *testing.T) {
	f := noise.NewHeightField(3, 1, []float64{0, 0.5, 1})
	img := FromHeightField(f)

	want := []uint8{0, 128, 255}
	for x, v := range want {
		got := img.RGBAAt(x, 0)
		if got.R != v || got.G != v || got.B != v || got.A != 255 {
			t.Errorf("pixel %d: got %v, want gray %d", x, got, v)
		}
	}
}

func TestFromHeightFieldClamps(t *testing.T) {
	f := noise.NewHeightField(2, 1, []float64{-3, 7})
	img := FromHeightField(f)
	if img.RGBAAt(0, 0).R != 0 || img.RGBAAt(1, 0).R != 255 {
		t.Errorf("out-of-range heights not clamped: %v %v", img.RGBAAt(0, 0), img.RGBAAt(1, 0))
	}
}

func TestFromColorField(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img := FromColorField([]color.RGBA{red, blue, blue, red}, 2, 2)

	if img.RGBAAt(1, 0) != blue || img.RGBAAt(1, 1) != red {
		t.Errorf("row-major layout broken: %v %v", img.RGBAAt(1, 0), img.RGBAAt(1, 1))
	}
}

func TestFromColorFieldShortInput(t *testing.T) {
	img := FromColorField([]color.RGBA{{R: 1, A: 255}}, 2, 2)
	if img.RGBAAt(1, 1) != (color.RGBA{}) {
		t.Errorf("expected transparent pixel for missing entry, got %v", img.RGBAAt(1, 1))
	}
}

func TestScale(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	src := FromColorField([]color.RGBA{red, blue}, 2, 1)

	dst := Scale(src, 4)
	if dst.Bounds().Dx() != 8 || dst.Bounds().Dy() != 4 {
		t.Fatalf("unexpected size %v", dst.Bounds())
	}
	if dst.RGBAAt(3, 3) != red || dst.RGBAAt(4, 0) != blue {
		t.Errorf("nearest-neighbour boundary not preserved: %v %v", dst.RGBAAt(3, 3), dst.RGBAAt(4, 0))
	}
	if same := Scale(src, 0); same.Bounds().Dx() != 2 {
		t.Errorf("factor <1 should be treated as 1, got width %d", same.Bounds().Dx())
	}
}
