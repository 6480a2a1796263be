package gosieview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is Ax + By + Cz + D = 0 with a unit normal (A, B, C).
type Plane struct {
	A, B, C, D float64
}

// NewPlane returns the plane through a polygon. ok is false when the polygon
// is degenerate.
func NewPlane(pts []mgl64.Vec3) (p Plane, ok bool) {
	if len(pts) < 3 {
		return Plane{}, false
	}
	n := polygonNormal(pts)
	if n == (mgl64.Vec3{}) {
		return Plane{}, false
	}
	return Plane{
		A: n.X(),
		B: n.Y(),
		C: n.Z(),
		D: -n.Dot(pts[0]),
	}, true
}

func (p Plane) Normal() mgl64.Vec3 {
	return mgl64.Vec3{p.A, p.B, p.C}
}

// PointOnPlane returns the signed distance from v to the plane.
func (p Plane) PointOnPlane(v mgl64.Vec3) float64 {
	return p.A*v.X() + p.B*v.Y() + p.C*v.Z() + p.D
}

// IntersectRay returns the distance along r to the plane. Rays parallel to
// the plane or pointing away from it do not intersect.
func (p Plane) IntersectRay(r Ray) (float64, bool) {
	denom := p.Normal().Dot(r.Direction)
	if math.Abs(denom) < epsilon {
		return 0, false
	}
	t := -p.PointOnPlane(r.Origin) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
