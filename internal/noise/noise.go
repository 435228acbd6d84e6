package noise

import (
	"math"
	"math/rand"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

// Fractal 2D noise built from layered perlin octaves.

// MinScale replaces any sampling scale <= 0.
const MinScale = 0.0001

// Octave offsets are drawn from [-offsetRange, offsetRange).
const offsetRange = 100000

// perlin primitive settings: a single octave, the fractal sum is done here.
const (
	primitiveAlpha  = 2
	primitiveBeta   = 2
	primitiveOctave = 1
)

// NormalizeMode picks how raw octave sums are mapped into a bounded range.
type NormalizeMode int

const (
	// Local rescales into [0,1] using the min/max observed in one call.
	Local NormalizeMode = iota
	// Global rescales by the theoretical maximum amplitude so that
	// neighbouring chunks agree on absolute height.
	Global
)

func (m NormalizeMode) String() string {
	if m == Global {
		return "global"
	}
	return "local"
}

// ParseNormalizeMode accepts "local" or "global" in any case.
func ParseNormalizeMode(s string) (NormalizeMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, true
	case "global":
		return Global, true
	}
	return Local, false
}

// Params are the fractal noise inputs. The same Params always produce the
// same field.
type Params struct {
	Seed        int64
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Offset      mgl64.Vec2
	Mode        NormalizeMode
}

// OctaveOffsets derives one sampling offset per octave from seed. The random
// source is local to the call.
func OctaveOffsets(seed int64, octaves int, offset mgl64.Vec2) []mgl64.Vec2 {
	if octaves <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	offsets := make([]mgl64.Vec2, octaves)
	for i := range offsets {
		ox := float64(rng.Intn(2*offsetRange)-offsetRange) + offset.X()
		oy := float64(rng.Intn(2*offsetRange)-offsetRange) - offset.Y()
		offsets[i] = mgl64.Vec2{ox, oy}
	}
	return offsets
}

// MaxAmplitude is the largest absolute octave sum reachable with the given
// persistence: sum of |persistence|^i for i in [0, octaves).
func MaxAmplitude(octaves int, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	for range octaves {
		total += amplitude
		amplitude *= math.Abs(persistence)
	}
	return total
}

// Generate computes a width x height field. Octaves <= 0 yields all zeros.
func Generate(width, height int, p Params) *HeightField {
	field := NewHeightField(width, height, nil)
	if p.Octaves <= 0 || len(field.values) == 0 {
		return field
	}

	scale := p.Scale
	if scale <= 0 {
		scale = MinScale
	}

	offsets := OctaveOffsets(p.Seed, p.Octaves, p.Offset)
	primitive := perlin.NewPerlin(primitiveAlpha, primitiveBeta, primitiveOctave, p.Seed)

	halfWidth := float64(width) / 2
	halfHeight := float64(height) / 2

	lo := math.MaxFloat64
	hi := -math.MaxFloat64

	for y := range height {
		for x := range width {
			amplitude := 1.0
			frequency := 1.0
			sum := 0.0

			for i := range p.Octaves {
				sx := (float64(x) - halfWidth + offsets[i].X()) / scale * frequency
				sy := (float64(y) - halfHeight + offsets[i].Y()) / scale * frequency

				// [0,1] -> [-1,1]
				sum += (sample01(primitive, sx, sy)*2 - 1) * amplitude

				amplitude *= p.Persistence
				frequency *= p.Lacunarity
			}

			field.values[y*width+x] = sum
			lo = min(lo, sum)
			hi = max(hi, sum)
		}
	}

	switch p.Mode {
	case Global:
		normalizeGlobal(field.values, MaxAmplitude(p.Octaves, p.Persistence))
	default:
		normalizeLocal(field.values, lo, hi)
	}
	return field
}

func sample01(p *perlin.Perlin, x, y float64) float64 {
	v := (p.Noise2D(x, y) + 1) / 2
	return math.Min(math.Max(v, 0), 1)
}

func normalizeLocal(values []float64, lo, hi float64) {
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			values[i] = 0
			continue
		}
		values[i] = (v - lo) / span
	}
}

// normalizeGlobal maps raw sums with (v+1)/maxAmplitude and clamps the result
// to [0, maxAmplitude]. When maxAmplitude is small (one octave, or a low
// persistence) every sample with v >= maxAmplitude*maxAmplitude-1 saturates
// at the cap, so such fields flatten into plateaus.
func normalizeGlobal(values []float64, maxAmplitude float64) {
	for i, v := range values {
		values[i] = math.Min(math.Max((v+1)/maxAmplitude, 0), maxAmplitude)
	}
}
