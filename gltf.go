package gosieview

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var defaultMaterialColor = color.RGBA{R: 204, G: 204, B: 204, A: 255}

func LoadGLTF(fileName string) (*Node, error) {
	doc, err := gltf.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open glTF file %s: %w", fileName, err)
	}
	root, err := NodeFromGLTF(doc, filepath.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("error reading glTF file %s: %w", fileName, err)
	}
	return root, nil
}

// NodeFromGLTF converts the default scene of doc into a node tree under a
// new node called name. Node transforms are kept; meshes are reduced to
// flat-coloured triangles.
func NodeFromGLTF(doc *gltf.Document, name string) (*Node, error) {
	root := NewNode(name)

	var roots []int
	scene := 0
	if doc.Scene != nil {
		scene = int(*doc.Scene)
	}
	if scene < len(doc.Scenes) {
		roots = doc.Scenes[scene].Nodes
	} else {
		roots = parentlessNodes(doc)
	}

	meshes := make(map[int]*Mesh)
	built := make(map[int]bool)

	type pending struct {
		index  int
		parent *Node
	}
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{int(roots[i]), root})
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.index < 0 || p.index >= len(doc.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", p.index)
		}
		if built[p.index] {
			return nil, fmt.Errorf("node %d referenced twice", p.index)
		}
		built[p.index] = true

		src := doc.Nodes[p.index]
		n := NewNode(src.Name)
		setGLTFTransform(n, src)
		if src.Mesh != nil {
			mi := int(*src.Mesh)
			mesh, ok := meshes[mi]
			if !ok {
				var err error
				mesh, err = meshFromGLTF(doc, mi)
				if err != nil {
					return nil, fmt.Errorf("mesh %d: %w", mi, err)
				}
				meshes[mi] = mesh
			}
			n.Mesh = mesh
		}
		if err := p.parent.AddChild(n); err != nil {
			return nil, err
		}
		for i := len(src.Children) - 1; i >= 0; i-- {
			stack = append(stack, pending{int(src.Children[i]), n})
		}
	}
	return root, nil
}

func parentlessNodes(doc *gltf.Document) []int {
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func setGLTFTransform(n *Node, src *gltf.Node) {
	m := mgl64.Mat4(src.MatrixOrDefault())
	if m != mgl64.Ident4() {
		n.Position = m.Col(3).Vec3()
		sx, sy, sz := m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()
		n.Scale = mgl64.Vec3{sx, sy, sz}
		if sx > epsilon && sy > epsilon && sz > epsilon {
			rot := mgl64.Mat4FromCols(
				m.Col(0).Mul(1/sx),
				m.Col(1).Mul(1/sy),
				m.Col(2).Mul(1/sz),
				mgl64.Vec4{0, 0, 0, 1},
			)
			n.Rotation = mgl64.Mat4ToQuat(rot).Normalize()
		}
		return
	}
	t := src.TranslationOrDefault()
	r := src.RotationOrDefault()
	s := src.ScaleOrDefault()
	n.Position = mgl64.Vec3(t)
	n.Rotation = mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize()
	n.Scale = mgl64.Vec3(s)
}

func meshFromGLTF(doc *gltf.Document, index int) (*Mesh, error) {
	if index < 0 || index >= len(doc.Meshes) {
		return nil, fmt.Errorf("index out of range")
	}
	mesh := NewMesh()
	for pi, prim := range doc.Meshes[index].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			log.Printf("glTF mesh %d primitive %d: skipping non-triangle mode %v", index, pi, prim.Mode)
			continue
		}
		posIndex, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		if posIndex < 0 || posIndex >= len(doc.Accessors) {
			return nil, fmt.Errorf("primitive %d: accessor %d out of range", pi, posIndex)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			ii := int(*prim.Indices)
			if ii < 0 || ii >= len(doc.Accessors) {
				return nil, fmt.Errorf("primitive %d: accessor %d out of range", pi, ii)
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[ii], nil)
			if err != nil {
				return nil, fmt.Errorf("primitive %d indices: %w", pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		col := materialColor(doc, prim)
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return nil, fmt.Errorf("primitive %d: index out of range", pi)
			}
			mesh.AddFace(col, vec3f(positions[a]), vec3f(positions[b]), vec3f(positions[c]))
		}
	}
	return mesh, nil
}

func vec3f(p [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

func materialColor(doc *gltf.Document, prim *gltf.Primitive) color.RGBA {
	if prim.Material == nil || int(*prim.Material) >= len(doc.Materials) {
		return defaultMaterialColor
	}
	pbr := doc.Materials[int(*prim.Material)].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return defaultMaterialColor
	}
	f := *pbr.BaseColorFactor
	to8 := func(v float64) uint8 {
		return uint8(math.Round(mgl64.Clamp(v, 0, 1) * 255))
	}
	return color.RGBA{R: to8(f[0]), G: to8(f[1]), B: to8(f[2]), A: 255}
}
