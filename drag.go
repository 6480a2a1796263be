package gosieview

// DefaultDragSensitivity is radians of rotation per pixel of horizontal
// pointer movement.
const DefaultDragSensitivity = 0.01

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// Picker resolves a viewport position to a selectable unit, or nil.
type Picker interface {
	Pick(x, y float64) *Node
}

type PickerFunc func(x, y float64) *Node

func (f PickerFunc) Pick(x, y float64) *Node {
	return f(x, y)
}

// DragController spins the picked unit about its local Y axis while the
// primary button is held. Only horizontal motion is used.
type DragController struct {
	Sensitivity float64

	// OnSelect and OnRelease are optional hooks, called when a drag starts
	// and ends.
	OnSelect  func(*Node)
	OnRelease func(*Node)

	picker   Picker
	selected *Node
	dragging bool
	lastX    float64
	lastY    float64
}

// NewDragController returns an idle controller. A zero sensitivity selects
// DefaultDragSensitivity; negative values invert the direction.
func NewDragController(picker Picker, sensitivity float64) *DragController {
	if sensitivity == 0 {
		sensitivity = DefaultDragSensitivity
	}
	return &DragController{
		Sensitivity: sensitivity,
		picker:      picker,
	}
}

func (d *DragController) State() DragState {
	if d.dragging {
		return DragDragging
	}
	return DragIdle
}

// Selected is the unit being dragged, or nil when idle.
func (d *DragController) Selected() *Node {
	return d.selected
}

func (d *DragController) Active() bool {
	return d.dragging
}

// PointerDown picks under (x, y) and starts a drag on the hit unit. A press
// that hits nothing changes nothing. A press while already dragging (a lost
// release) replaces the current session when it hits a unit.
func (d *DragController) PointerDown(x, y float64) {
	if d.picker == nil {
		return
	}
	unit := d.picker.Pick(x, y)
	if unit == nil {
		return
	}
	d.selected = unit
	d.dragging = true
	d.lastX, d.lastY = x, y
	if d.OnSelect != nil {
		d.OnSelect(unit)
	}
}

func (d *DragController) PointerMove(x, y float64) {
	if !d.dragging || d.selected == nil {
		return
	}
	if dx := x - d.lastX; dx != 0 {
		d.selected.RotateLocalY(dx * d.Sensitivity)
	}
	d.lastX, d.lastY = x, y
}

// PointerUp always returns the controller to idle.
func (d *DragController) PointerUp(x, y float64) {
	released := d.selected
	d.selected = nil
	d.dragging = false
	d.lastX, d.lastY = 0, 0
	if released != nil && d.OnRelease != nil {
		d.OnRelease(released)
	}
}
