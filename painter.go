package gosieview

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Lighting is a white ambient light plus one directional light.
type Lighting struct {
	Ambient     float64
	Directional float64
	// Direction points from the scene towards the light.
	Direction mgl64.Vec3
}

// Shade darkens col for a face with unit world normal n. A face turned
// fully to the light keeps its colour; one facing away gets ambient only.
func (l Lighting) Shade(col color.RGBA, n mgl64.Vec3) color.RGBA {
	total := l.Ambient + l.Directional
	brightness := 1.0
	if total > 0 {
		diffuse := 0.0
		if dir := l.Direction; dir.Len() > epsilon {
			diffuse = math.Max(0, n.Dot(dir.Normalize()))
		}
		brightness = (l.Ambient + l.Directional*diffuse) / total
	}

	c := 240 - int(brightness*240)
	const min = 7
	return color.RGBA{
		R: uint8(clampInt(int(col.R)-c, min, 255)),
		G: uint8(clampInt(int(col.G)-c, min, 255)),
		B: uint8(clampInt(int(col.B)-c, min, 255)),
		A: col.A,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScreenPolygon is a shaded face ready to fill, in viewport pixels.
type ScreenPolygon struct {
	X, Y []float32
	Col  color.RGBA
	// Depth is the distance from the camera to the face's midpoint.
	Depth float64
	// Unit is the top-level node the face belongs to.
	Unit *Node
}

// Painter turns a scene into polygons sorted back to front.
type Painter struct {
	Lighting Lighting

	polys []ScreenPolygon
	world []mgl64.Vec3
	view  []mgl64.Vec3
}

// Project returns every visible face under root, farthest first. The result
// is reused by the next call.
func (p *Painter) Project(root *Node, cam *Camera, width, height float64) []ScreenPolygon {
	p.polys = p.polys[:0]
	if root == nil || cam == nil || width <= 0 || height <= 0 {
		return p.polys
	}
	view := cam.View()
	proj := cam.Projection()

	root.Traverse(func(n *Node) {
		if n.Mesh == nil {
			return
		}
		world := n.WorldMatrix()
		unit := n.TopLevelAncestor(root)
		for i, face := range n.Mesh.Faces {
			p.world = n.Mesh.FacePoints(i, world, p.world[:0])
			normal := polygonNormal(p.world)
			mid := midPoint(p.world)
			// double sided: light the side facing the camera
			if normal.Dot(cam.Position.Sub(mid)) < 0 {
				normal = normal.Mul(-1)
			}

			p.view = p.view[:0]
			for _, w := range p.world {
				p.view = append(p.view, mgl64.TransformCoordinate(w, view))
			}
			clipped := clipPolygonAgainstNearPlane(p.view, cam.Near)
			if len(clipped) < 3 {
				continue
			}

			sp := ScreenPolygon{
				X:     make([]float32, len(clipped)),
				Y:     make([]float32, len(clipped)),
				Col:   p.Lighting.Shade(face.Col, normal),
				Depth: mid.Sub(cam.Position).Len(),
				Unit:  unit,
			}
			for j, v := range clipped {
				ndc := mgl64.TransformCoordinate(v, proj)
				sp.X[j] = float32((ndc.X() + 1) / 2 * width)
				sp.Y[j] = float32((1 - ndc.Y()) / 2 * height)
			}
			p.polys = append(p.polys, sp)
		}
	})

	sort.SliceStable(p.polys, func(i, j int) bool {
		return p.polys[i].Depth > p.polys[j].Depth
	})
	return p.polys
}

// clipPolygonAgainstNearPlane keeps the part of a view-space polygon in
// front of z = -near. It allocates a new slice.
func clipPolygonAgainstNearPlane(pts []mgl64.Vec3, near float64) []mgl64.Vec3 {
	plane := -near
	inside := func(v mgl64.Vec3) bool { return v.Z() <= plane }
	out := make([]mgl64.Vec3, 0, len(pts)+2)
	for i, cur := range pts {
		prev := pts[(i+len(pts)-1)%len(pts)]
		curIn, prevIn := inside(cur), inside(prev)
		if curIn != prevIn {
			t := (plane - prev.Z()) / (cur.Z() - prev.Z())
			out = append(out, prev.Add(cur.Sub(prev).Mul(t)))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}
