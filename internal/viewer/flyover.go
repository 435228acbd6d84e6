// Package viewer supplies the viewer position that drives terrain streaming:
// a scripted straight-line flyover and a fixed-rate tick limiter.
package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Flyover moves at a constant speed and altitude along a compass heading.
type Flyover struct {
	Start    mgl32.Vec3
	Speed    float32 // world units per second
	Heading  float32 // degrees, 0 = +X, 90 = +Z
	Altitude float32
	Pitch    float32 // degrees below the horizon the camera looks
}

// NewFlyover starts at the origin.
func NewFlyover(speed, heading, altitude float32) *Flyover {
	return &Flyover{Speed: speed, Heading: heading, Altitude: altitude, Pitch: 20}
}

// Direction returns the unit ground direction of travel.
func (f *Flyover) Direction() mgl32.Vec3 {
	rad := float64(mgl32.DegToRad(f.Heading))
	return mgl32.Vec3{float32(math.Cos(rad)), 0, float32(math.Sin(rad))}
}

// Position returns where the viewer is after t seconds.
func (f *Flyover) Position(t float32) mgl32.Vec3 {
	p := f.Start.Add(f.Direction().Mul(f.Speed * t))
	p[1] = f.Altitude
	return p
}

// ViewMatrix looks along the heading, tilted down by Pitch.
func (f *Flyover) ViewMatrix(t float32) mgl32.Mat4 {
	eye := f.Position(t)
	dir := f.Direction()
	pitch := float64(mgl32.DegToRad(f.Pitch))
	look := mgl32.Vec3{
		dir.X() * float32(math.Cos(pitch)),
		-float32(math.Sin(pitch)),
		dir.Z() * float32(math.Cos(pitch)),
	}
	return mgl32.LookAtV(eye, eye.Add(look), mgl32.Vec3{0, 1, 0})
}
