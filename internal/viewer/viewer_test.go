package viewer

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFlyoverPosition(t *testing.T) {
	tests := []struct {
		heading float32
		want    mgl32.Vec3
	}{
		{0, mgl32.Vec3{20, 5, 0}},
		{90, mgl32.Vec3{0, 5, 20}},
		{180, mgl32.Vec3{-20, 5, 0}},
	}
	for _, tt := range tests {
		f := NewFlyover(10, tt.heading, 5)
		got := f.Position(2)
		if !got.ApproxEqualThreshold(tt.want, 1e-4) {
			t.Errorf("heading %v: Position(2) = %v, want %v", tt.heading, got, tt.want)
		}
	}
}

func TestFlyoverViewLooksAlongHeading(t *testing.T) {
	f := NewFlyover(10, 0, 100)
	f.Pitch = 0
	view := f.ViewMatrix(0)

	// a point ahead along +X lands straight in front of the camera (-Z in eye space)
	ahead := view.Mul4x1(mgl32.Vec4{50, 100, 0, 1})
	if ahead.Z() >= 0 || absf(ahead.X()) > 1e-3 || absf(ahead.Y()) > 1e-3 {
		t.Errorf("point ahead mapped to %v", ahead)
	}
}

func TestLimiterUnlimited(t *testing.T) {
	l := NewLimiter(0)
	start := time.Now()
	for range 100 {
		l.Wait()
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("unlimited limiter should not wait")
	}
}

func TestLimiterPaces(t *testing.T) {
	l := NewLimiter(200)
	if l.Interval() != 5*time.Millisecond {
		t.Fatalf("interval = %v", l.Interval())
	}
	start := time.Now()
	for range 4 {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("4 ticks at 200Hz took only %v", elapsed)
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
