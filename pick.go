package gosieview

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the nearest ray intersection found in a scene.
type Hit struct {
	// Node is the node owning the face that was hit, at any depth.
	Node     *Node
	Distance float64
	Point    mgl64.Vec3
}

// IntersectScene tests r against every face in root's subtree and returns
// the nearest hit. Between equally distant hits the first in traversal order
// wins.
func IntersectScene(r Ray, root *Node) (Hit, bool) {
	var (
		best  Hit
		found bool
		pts   []mgl64.Vec3
	)
	if root == nil {
		return best, false
	}
	root.Traverse(func(n *Node) {
		if n.Mesh == nil || len(n.Mesh.Faces) == 0 {
			return
		}
		world := n.WorldMatrix()
		if !rayMayHitMesh(r, n.Mesh, world) {
			return
		}
		for i := range n.Mesh.Faces {
			pts = n.Mesh.FacePoints(i, world, pts[:0])
			t, ok := RayIntersectsPolygon(r, pts)
			if !ok {
				continue
			}
			if !found || t < best.Distance {
				best = Hit{Node: n, Distance: t, Point: r.At(t)}
				found = true
			}
		}
	})
	return best, found
}

// rayMayHitMesh rejects meshes whose world-space bounding box the ray misses.
// Faces are always tested exactly afterwards.
func rayMayHitMesh(r Ray, m *Mesh, world mgl64.Mat4) bool {
	lo, hi, ok := m.Bounds()
	if !ok {
		return false
	}
	var wmin, wmax mgl64.Vec3
	for c := 0; c < 8; c++ {
		corner := lo
		if c&1 != 0 {
			corner[0] = hi[0]
		}
		if c&2 != 0 {
			corner[1] = hi[1]
		}
		if c&4 != 0 {
			corner[2] = hi[2]
		}
		w := mgl64.TransformCoordinate(corner, world)
		if c == 0 {
			wmin, wmax = w, w
			continue
		}
		for a := 0; a < 3; a++ {
			if w[a] < wmin[a] {
				wmin[a] = w[a]
			}
			if w[a] > wmax[a] {
				wmax[a] = w[a]
			}
		}
	}
	// pad for flat meshes and rounding at the faces
	pad := mgl64.Vec3{1e-6, 1e-6, 1e-6}
	return intersectAABB(r, wmin.Sub(pad), wmax.Add(pad))
}

// Pick returns the top-level node (direct child of root) under screen
// position (sx, sy), or nil. Scaffold nodes and misses resolve to nil.
func Pick(sx, sy, width, height float64, cam *Camera, root *Node) *Node {
	if root == nil {
		return nil
	}
	r, ok := PickRay(sx, sy, width, height, cam)
	if !ok {
		return nil
	}
	hit, ok := IntersectScene(r, root)
	if !ok {
		return nil
	}
	unit := hit.Node.TopLevelAncestor(root)
	if unit == nil || unit.Scaffold {
		return nil
	}
	return unit
}
