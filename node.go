package gosieview

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrCycle is returned when attaching a node would make it its own ancestor.
var ErrCycle = errors.New("node would become its own ancestor")

var yAxis = mgl64.Vec3{0, 1, 0}

// Node is one element of the scene graph. Every node has at most one parent,
// so the graph reachable from a root is always a tree.
type Node struct {
	Name string
	// Asset is the path of the loaded asset this subtree came from. Only the
	// top-level node of an asset carries it.
	Asset string
	// Scaffold marks helper geometry (ground grid and the like) that can be
	// hit by a pick ray but is never selectable.
	Scaffold bool
	Mesh     *Mesh

	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	parent   *Node
	children []*Node
	yaw      float64
}

func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in insertion order. The slice is
// shared with the node and must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild attaches child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("add child to %q: nil node", n.Name)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("add %q to %q: %w", child.Name, n.Name, ErrCycle)
		}
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// LocalMatrix returns T * R * S. A zero rotation or zero scale (a Node built
// without NewNode) is treated as identity.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	rot := n.Rotation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}
	scale := n.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	t := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	s := mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(rot.Mat4()).Mul4(s)
}

// WorldMatrix is recomputed from the parent chain on every call.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// matrixTo returns the transform from n's local space into the space of
// ancestor (ancestor's own transform excluded). A nil ancestor gives the
// world matrix.
func (n *Node) matrixTo(ancestor *Node) mgl64.Mat4 {
	m := mgl64.Ident4()
	for p := n; p != nil && p != ancestor; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// RotateLocalY turns the node about its own vertical axis. Rotations
// accumulate without bound.
func (n *Node) RotateLocalY(angle float64) {
	rot := n.Rotation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}
	n.Rotation = rot.Mul(mgl64.QuatRotate(angle, yAxis)).Normalize()
	n.yaw += angle
}

// Yaw is the total angle applied through RotateLocalY.
func (n *Node) Yaw() float64 {
	return n.yaw
}

// Traverse visits n and all of its descendants depth first, children in
// insertion order. It uses an explicit stack so depth is only bounded by
// memory.
func (n *Node) Traverse(fn func(*Node)) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur)
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// TopLevelAncestor walks up from n and returns the node whose parent is
// root. It returns nil when root is not an ancestor of n, or when n is root.
func (n *Node) TopLevelAncestor(root *Node) *Node {
	if root == nil {
		return nil
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur.parent == root {
			return cur
		}
	}
	return nil
}

// Find returns the first node named name in n's subtree.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// SubtreeBounds returns the bounding box of all geometry under n, expressed
// in the space of n's parent (n's own transform included).
func SubtreeBounds(n *Node) (min, max mgl64.Vec3, ok bool) {
	n.Traverse(func(c *Node) {
		if c.Mesh == nil || len(c.Mesh.Points) == 0 {
			return
		}
		m := c.matrixTo(n.parent)
		for _, p := range c.Mesh.Points {
			w := mgl64.TransformCoordinate(p, m)
			if !ok {
				min, max, ok = w, w, true
				continue
			}
			for i := 0; i < 3; i++ {
				if w[i] < min[i] {
					min[i] = w[i]
				}
				if w[i] > max[i] {
					max[i] = w[i]
				}
			}
		}
	})
	return min, max, ok
}
