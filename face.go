package gosieview

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a planar convex polygon referencing points of its Mesh by index.
type Face struct {
	Indices []int
	Col     color.RGBA
}

// polygonNormal returns the unit normal of a planar polygon using Newell's
// method, so collinear leading points do not matter. It returns the zero
// vector for degenerate polygons.
func polygonNormal(pts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i, cur := range pts {
		next := pts[(i+1)%len(pts)]
		n[0] += (cur.Y() - next.Y()) * (cur.Z() + next.Z())
		n[1] += (cur.Z() - next.Z()) * (cur.X() + next.X())
		n[2] += (cur.X() - next.X()) * (cur.Y() + next.Y())
	}
	l := n.Len()
	if l < epsilon {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / l)
}

func midPoint(pts []mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	if len(pts) == 0 {
		return sum
	}
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}

// dropConsecutiveDuplicates removes repeated neighbouring points, including
// a last point equal to the first. DXF writes triangles as quads with the
// fourth corner repeated.
func dropConsecutiveDuplicates(pts []mgl64.Vec3) []mgl64.Vec3 {
	out := pts[:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].ApproxEqual(p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].ApproxEqual(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
