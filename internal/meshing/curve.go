package meshing

import "sort"

// CurveKey is one control point of a HeightCurve.
type CurveKey struct {
	T     float64 `yaml:"t"`
	Value float64 `yaml:"value"`
}

// HeightCurve remaps normalized heights before they are scaled into mesh space.
// It interpolates linearly between keys and holds the end values outside them.
// The zero value is the identity curve.
type HeightCurve struct {
	keys []CurveKey
}

// NewHeightCurve builds a curve from keys in any order.
func NewHeightCurve(keys ...CurveKey) HeightCurve {
	sorted := make([]CurveKey, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return HeightCurve{keys: sorted}
}

// Keys returns a copy of the control points in ascending T.
func (c HeightCurve) Keys() []CurveKey {
	out := make([]CurveKey, len(c.keys))
	copy(out, c.keys)
	return out
}

// Evaluate returns the curve value at t.
func (c HeightCurve) Evaluate(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return t
	case t <= c.keys[0].T:
		return c.keys[0].Value
	case t >= c.keys[n-1].T:
		return c.keys[n-1].Value
	}

	// first key strictly after t
	i := sort.Search(n, func(i int) bool { return c.keys[i].T > t })
	a, b := c.keys[i-1], c.keys[i]
	span := b.T - a.T
	if span == 0 {
		return b.Value
	}
	return a.Value + (t-a.T)/span*(b.Value-a.Value)
}
