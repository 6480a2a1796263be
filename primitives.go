package gosieview

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NewBox returns an axis-aligned box centred on the origin with outward
// counter-clockwise faces.
func NewBox(w, h, d float64, col color.RGBA) *Mesh {
	x, y, z := w/2, h/2, d/2
	m := NewMesh()
	v := func(sx, sy, sz float64) mgl64.Vec3 { return mgl64.Vec3{sx * x, sy * y, sz * z} }
	m.AddFace(col, v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1))     // front
	m.AddFace(col, v(1, -1, -1), v(-1, -1, -1), v(-1, 1, -1), v(1, 1, -1)) // back
	m.AddFace(col, v(1, -1, 1), v(1, -1, -1), v(1, 1, -1), v(1, 1, 1))     // right
	m.AddFace(col, v(-1, -1, -1), v(-1, -1, 1), v(-1, 1, 1), v(-1, 1, -1)) // left
	m.AddFace(col, v(-1, 1, 1), v(1, 1, 1), v(1, 1, -1), v(-1, 1, -1))     // top
	m.AddFace(col, v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)) // bottom
	return m
}

// NewUVSphere builds a sphere from latitude bands, alternating two colours
// between bands so rotation is visible.
func NewUVSphere(radius float64, slices, stacks int, col1, col2 color.RGBA) *Mesh {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}
	point := func(stack, slice int) mgl64.Vec3 {
		phi := math.Pi * float64(stack) / float64(stacks)
		theta := 2 * math.Pi * float64(slice) / float64(slices)
		return mgl64.Vec3{
			radius * math.Sin(phi) * math.Cos(theta),
			radius * math.Cos(phi),
			-radius * math.Sin(phi) * math.Sin(theta),
		}
	}
	m := NewMesh()
	for st := 0; st < stacks; st++ {
		for sl := 0; sl < slices; sl++ {
			col := col1
			if (st+sl)%2 == 1 {
				col = col2
			}
			// poles collapse to triangles in AddFace
			m.AddFace(col, point(st, sl), point(st+1, sl), point(st+1, sl+1), point(st, sl+1))
		}
	}
	return m
}

// NewGroundGrid is a checkerboard on the XZ plane, facing up, made of
// cells of size step covering size x size.
func NewGroundGrid(size, step float64, col1, col2 color.RGBA) *Mesh {
	m := NewMesh()
	if step <= 0 || size <= 0 {
		return m
	}
	n := int(math.Ceil(size / step))
	start := -float64(n) * step / 2
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0, z0 := start+float64(i)*step, start+float64(j)*step
			x1, z1 := x0+step, z0+step
			col := col1
			if (i+j)%2 == 1 {
				col = col2
			}
			m.AddFace(col,
				mgl64.Vec3{x0, 0, z1}, mgl64.Vec3{x1, 0, z1},
				mgl64.Vec3{x1, 0, z0}, mgl64.Vec3{x0, 0, z0})
		}
	}
	return m
}
