package gosieview

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh holds deduplicated points and the faces built from them. Points are
// in the owning node's local space.
type Mesh struct {
	Points []mgl64.Vec3
	Faces  []Face

	pointIndex map[mgl64.Vec3]int
}

func NewMesh() *Mesh {
	return &Mesh{
		pointIndex: make(map[mgl64.Vec3]int),
	}
}

// AddPoint returns the index of p, adding it if an identical point is not
// already present.
func (m *Mesh) AddPoint(p mgl64.Vec3) int {
	if m.pointIndex == nil {
		m.reindex()
	}
	if index, found := m.pointIndex[p]; found {
		return index
	}
	m.Points = append(m.Points, p)
	index := len(m.Points) - 1
	m.pointIndex[p] = index
	return index
}

// AddFace adds a polygon through pts. Degenerate input (fewer than three
// distinct points, non-finite coordinates, zero area) is dropped and false
// is returned.
func (m *Mesh) AddFace(col color.RGBA, pts ...mgl64.Vec3) bool {
	pts = dropConsecutiveDuplicates(append([]mgl64.Vec3(nil), pts...))
	if len(pts) < 3 {
		return false
	}
	for _, p := range pts {
		if !isFinite(p) {
			return false
		}
	}
	if polygonNormal(pts) == (mgl64.Vec3{}) {
		return false
	}
	face := Face{Indices: make([]int, len(pts)), Col: col}
	for i, p := range pts {
		face.Indices[i] = m.AddPoint(p)
	}
	m.Faces = append(m.Faces, face)
	return true
}

// FacePoints appends the points of face i transformed by xf to buf.
func (m *Mesh) FacePoints(i int, xf mgl64.Mat4, buf []mgl64.Vec3) []mgl64.Vec3 {
	for _, idx := range m.Faces[i].Indices {
		buf = append(buf, mgl64.TransformCoordinate(m.Points[idx], xf))
	}
	return buf
}

// Bounds returns the axis-aligned box around all points.
func (m *Mesh) Bounds() (min, max mgl64.Vec3, ok bool) {
	for i, p := range m.Points {
		if i == 0 {
			min, max = p, p
			continue
		}
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	return min, max, len(m.Points) > 0
}

// Translate moves every point by d.
func (m *Mesh) Translate(d mgl64.Vec3) {
	for i := range m.Points {
		m.Points[i] = m.Points[i].Add(d)
	}
	m.reindex()
}

func (m *Mesh) reindex() {
	m.pointIndex = make(map[mgl64.Vec3]int, len(m.Points))
	for i, p := range m.Points {
		if _, found := m.pointIndex[p]; !found {
			m.pointIndex[p] = i
		}
	}
}
