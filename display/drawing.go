package display

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// PolygonBatcher collects filled and stroked polygons into as few
// DrawTriangles calls as the uint16 index range allows. Polygons are drawn
// in the order they were added.
type PolygonBatcher struct {
	screen   *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	op       ebiten.DrawTrianglesOptions
	stroke   []ebiten.Vertex
	strokeIx []uint16
}

func NewPolygonBatcher() *PolygonBatcher {
	b := &PolygonBatcher{}
	b.op.AntiAlias = true
	return b
}

// Begin starts a frame drawing onto screen.
func (b *PolygonBatcher) Begin(screen *ebiten.Image) {
	b.screen = screen
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

func (b *PolygonBatcher) AddPolygon(xp, yp []float32, clr color.RGBA) {
	if len(xp) < 3 {
		return
	}
	b.reserve(len(xp))
	base := uint16(len(b.vertices))
	cr, cg, cb, ca := colorComponents(clr)
	for i := range xp {
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX:   xp[i],
			DstY:   yp[i],
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	for i := 2; i < len(xp); i++ {
		b.indices = append(b.indices, base, base+uint16(i-1), base+uint16(i))
	}
}

func (b *PolygonBatcher) AddPolygonAndOutline(xp, yp []float32, fillClr, strokeClr color.RGBA, strokeWidth float32) {
	b.AddPolygon(xp, yp, fillClr)
	b.addOutline(xp, yp, strokeWidth, strokeClr)
}

func (b *PolygonBatcher) addOutline(xp, yp []float32, strokeWidth float32, clr color.RGBA) {
	if len(xp) < 2 {
		return
	}
	var path vector.Path
	path.MoveTo(xp[0], yp[0])
	for i := 1; i < len(xp); i++ {
		path.LineTo(xp[i], yp[i])
	}
	path.Close()

	b.stroke, b.strokeIx = path.AppendVerticesAndIndicesForStroke(b.stroke[:0], b.strokeIx[:0], &vector.StrokeOptions{
		Width:    strokeWidth,
		LineJoin: vector.LineJoinRound,
	})
	b.reserve(len(b.stroke))
	base := uint16(len(b.vertices))
	cr, cg, cb, ca := colorComponents(clr)
	for _, v := range b.stroke {
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = cr, cg, cb, ca
		b.vertices = append(b.vertices, v)
	}
	for _, ix := range b.strokeIx {
		b.indices = append(b.indices, base+ix)
	}
}

// reserve flushes when n more vertices would overflow the index type.
func (b *PolygonBatcher) reserve(n int) {
	if len(b.vertices)+n > math.MaxUint16 {
		b.Flush()
	}
}

func (b *PolygonBatcher) Flush() {
	if b.screen == nil || len(b.indices) == 0 {
		b.vertices = b.vertices[:0]
		b.indices = b.indices[:0]
		return
	}
	b.screen.DrawTriangles(b.vertices, b.indices, whiteSub, &b.op)
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

func colorComponents(clr color.RGBA) (r, g, b, a float32) {
	return float32(clr.R) / 255, float32(clr.G) / 255, float32(clr.B) / 255, float32(clr.A) / 255
}
