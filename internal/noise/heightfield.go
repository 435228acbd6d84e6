package noise

// HeightField is a fixed-size grid of heights, row-major by y.
// It is never modified after construction.
type HeightField struct {
	width  int
	height int
	values []float64
}

// NewHeightField copies values into a new width x height field.
// Missing values are zero; extra values are ignored.
func NewHeightField(width, height int, values []float64) *HeightField {
	width = max(width, 0)
	height = max(height, 0)
	f := &HeightField{width: width, height: height, values: make([]float64, width*height)}
	copy(f.values, values)
	return f
}

// Width returns the number of samples along x.
func (f *HeightField) Width() int { return f.width }

// Height returns the number of samples along y.
func (f *HeightField) Height() int { return f.height }

// At returns the sample at (x, y). Out-of-range coordinates read as 0.
func (f *HeightField) At(x, y int) float64 {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	return f.values[y*f.width+x]
}

// Range returns the smallest and largest sample. An empty field returns (0, 0).
func (f *HeightField) Range() (lo, hi float64) {
	if len(f.values) == 0 {
		return 0, 0
	}
	lo, hi = f.values[0], f.values[0]
	for _, v := range f.values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Equal reports whether both fields have the same size and bit-identical samples.
func (f *HeightField) Equal(other *HeightField) bool {
	if f.width != other.width || f.height != other.height {
		return false
	}
	for i, v := range f.values {
		if other.values[i] != v {
			return false
		}
	}
	return true
}
