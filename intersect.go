package gosieview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayIntersectsPolygon returns the distance along r at which it crosses a
// planar convex polygon. Only hits at distance >= 0 count.
func RayIntersectsPolygon(r Ray, polygon []mgl64.Vec3) (float64, bool) {
	plane, ok := NewPlane(polygon)
	if !ok {
		return 0, false
	}
	t, ok := plane.IntersectRay(r)
	if !ok {
		return 0, false
	}
	if !isPointInPolygon(r.At(t), polygon, plane.Normal()) {
		return 0, false
	}
	return t, true
}

// isPointInPolygon checks a point already on the polygon's plane. Both are
// projected onto the coordinate plane most parallel to the polygon and a 2D
// ray cast counts edge crossings.
func isPointInPolygon(point mgl64.Vec3, polygon []mgl64.Vec3, normal mgl64.Vec3) bool {
	absX := math.Abs(normal.X())
	absY := math.Abs(normal.Y())
	absZ := math.Abs(normal.Z())

	// u, v are the kept axes. Ties resolve to a valid projection since the
	// dropped axis always has the largest normal component.
	var u, v int
	switch {
	case absX >= absY && absX >= absZ:
		u, v = 1, 2
	case absY >= absZ:
		u, v = 0, 2
	default:
		u, v = 0, 1
	}

	px, py := point[u], point[v]
	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]
		if (a[v] > py) != (b[v] > py) {
			x := (b[u]-a[u])*(py-a[v])/(b[v]-a[v]) + a[u]
			if px < x {
				inside = !inside
			}
		}
	}
	return inside
}
