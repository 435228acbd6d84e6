package glrender

import (
	"github.com/go-gl/mathgl/mgl32"
)

// plane is (normal, d) with a unit normal pointing into the frustum.
type plane = mgl32.Vec4

// extractFrustumPlanes returns the left, right, bottom, top, near and far
// planes of clip = projection * view.
func extractFrustumPlanes(clip mgl32.Mat4) [6]plane {
	x, y, z, w := clip.Row(0), clip.Row(1), clip.Row(2), clip.Row(3)
	return [6]plane{
		unitPlane(w.Add(x)), unitPlane(w.Sub(x)),
		unitPlane(w.Add(y)), unitPlane(w.Sub(y)),
		unitPlane(w.Add(z)), unitPlane(w.Sub(z)),
	}
}

func unitPlane(p plane) plane {
	l := p.Vec3().Len()
	if l == 0 {
		return p
	}
	return p.Mul(1 / l)
}

// boxInFrustum reports whether an AABB touches every half space. Only the
// corner furthest along each plane normal is tested.
func boxInFrustum(lo, hi mgl32.Vec3, planes [6]plane) bool {
	for _, p := range planes {
		var corner mgl32.Vec3
		for axis := range 3 {
			if p[axis] >= 0 {
				corner[axis] = hi[axis]
			} else {
				corner[axis] = lo[axis]
			}
		}
		if p.Vec3().Dot(corner)+p.W() < 0 {
			return false
		}
	}
	return true
}
