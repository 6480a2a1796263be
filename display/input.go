package display

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/smasonuk/gosieview"
)

// mouseInput turns ebiten's polled mouse state into pointer events.
type mouseInput struct {
	lastX, lastY int
	seen         bool
}

// poll dispatches at most one press, one move and one release per frame, in
// that order, followed by any wheel movement.
func (m *mouseInput) poll(surface *gosieview.PointerSurface) {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		surface.Dispatch(gosieview.PointerEvent{Kind: gosieview.PointerPressed, X: fx, Y: fy})
	} else if m.seen && (x != m.lastX || y != m.lastY) {
		surface.Dispatch(gosieview.PointerEvent{Kind: gosieview.PointerMoved, X: fx, Y: fy})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		surface.Dispatch(gosieview.PointerEvent{Kind: gosieview.PointerReleased, X: fx, Y: fy})
	}
	m.lastX, m.lastY, m.seen = x, y, true

	if _, dy := ebiten.Wheel(); dy != 0 {
		surface.DispatchWheel(dy)
	}
}
