package gosieview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// Ray is a half-line with a unit Direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToNDC maps a screen position (origin top-left, Y down) to normalized
// device coordinates in [-1, 1] with Y up.
func ScreenToNDC(sx, sy, width, height float64) (x, y float64) {
	return 2*sx/width - 1, 1 - 2*sy/height
}

// PickRay builds the world-space ray from the camera through screen position
// (sx, sy) of a width x height viewport. ok is false for an empty viewport or
// a camera whose matrices cannot be inverted.
func PickRay(sx, sy, width, height float64, cam *Camera) (Ray, bool) {
	if cam == nil || width <= 0 || height <= 0 {
		return Ray{}, false
	}
	nx, ny := ScreenToNDC(sx, sy, width, height)
	vp := cam.ViewProjection()
	if math.Abs(vp.Det()) < epsilon {
		return Ray{}, false
	}
	inv := vp.Inv()

	near, ok := unproject(inv, mgl64.Vec4{nx, ny, -1, 1})
	if !ok {
		return Ray{}, false
	}
	far, ok := unproject(inv, mgl64.Vec4{nx, ny, 1, 1})
	if !ok {
		return Ray{}, false
	}
	dir := far.Sub(near)
	if dir.Len() < epsilon {
		return Ray{}, false
	}
	return Ray{Origin: cam.Position, Direction: dir.Normalize()}, true
}

func unproject(inv mgl64.Mat4, clip mgl64.Vec4) (mgl64.Vec3, bool) {
	v := inv.Mul4x1(clip)
	if math.Abs(v.W()) < epsilon {
		return mgl64.Vec3{}, false
	}
	return v.Vec3().Mul(1 / v.W()), true
}

// intersectAABB is the slab test. It reports whether r meets the box at a
// non-negative distance.
func intersectAABB(r Ray, min, max mgl64.Vec3) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for a := 0; a < 3; a++ {
		if math.Abs(r.Direction[a]) < epsilon {
			if r.Origin[a] < min[a] || r.Origin[a] > max[a] {
				return false
			}
			continue
		}
		inv := 1 / r.Direction[a]
		t1 := (min[a] - r.Origin[a]) * inv
		t2 := (max[a] - r.Origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}
