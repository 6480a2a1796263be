package gosieview

type PointerKind int

const (
	PointerPressed PointerKind = iota
	PointerMoved
	PointerReleased
)

func (k PointerKind) String() string {
	switch k {
	case PointerPressed:
		return "press"
	case PointerMoved:
		return "move"
	case PointerReleased:
		return "release"
	}
	return "unknown"
}

// PointerEvent is a primary-button pointer event in viewport pixels.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

type PointerListener interface {
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp(x, y float64)
}

// WheelListener receives scroll input. Positive dy scrolls up.
type WheelListener interface {
	Wheel(dy float64)
}

// PointerSurface fans pointer events out to every subscriber, synchronously
// and in subscription order. It is not safe for concurrent use; events come
// from the render loop.
type PointerSurface struct {
	listeners []PointerListener
	wheels    []WheelListener
}

// Subscribe registers l. If l also implements WheelListener it receives
// wheel events too.
func (s *PointerSurface) Subscribe(l PointerListener) {
	s.listeners = append(s.listeners, l)
	if w, ok := l.(WheelListener); ok {
		s.wheels = append(s.wheels, w)
	}
}

func (s *PointerSurface) Dispatch(ev PointerEvent) {
	for _, l := range s.listeners {
		switch ev.Kind {
		case PointerPressed:
			l.PointerDown(ev.X, ev.Y)
		case PointerMoved:
			l.PointerMove(ev.X, ev.Y)
		case PointerReleased:
			l.PointerUp(ev.X, ev.Y)
		}
	}
}

func (s *PointerSurface) DispatchWheel(dy float64) {
	for _, w := range s.wheels {
		w.Wheel(dy)
	}
}
