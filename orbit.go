package gosieview

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const minPolarGap = 1e-6

// OrbitControls moves a camera on a sphere around Target. Rotation comes
// from pointer drags, distance from the wheel. Input only accumulates
// deltas; Update applies them once per frame.
type OrbitControls struct {
	Target mgl64.Vec3

	EnableZoom    bool
	EnableDamping bool
	// DampingFactor is the share of the pending motion applied per Update
	// when damping is on.
	DampingFactor float64
	RotateSpeed   float64
	ZoomSpeed     float64
	// MinDistance and MaxDistance clamp the orbit radius. Zero MaxDistance
	// means unlimited.
	MinDistance float64
	MaxDistance float64
	MinPolar    float64
	MaxPolar    float64

	camera       *Camera
	enableRotate bool

	radius float64
	theta  float64
	phi    float64

	deltaTheta float64
	deltaPhi   float64
	scale      float64

	rotating     bool
	lastX, lastY float64
	viewHeight   float64
}

// NewOrbitControls reads the starting orbit from cam's position and target.
// Rotation starts disabled because it shares the primary button with
// dragging units.
func NewOrbitControls(cam *Camera) *OrbitControls {
	o := &OrbitControls{
		Target:        cam.Target,
		EnableZoom:    true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MaxPolar:      math.Pi,
		camera:        cam,
		scale:         1,
		viewHeight:    1,
	}
	o.syncFromCamera()
	return o
}

func (o *OrbitControls) syncFromCamera() {
	offset := o.camera.Position.Sub(o.Target)
	o.radius = offset.Len()
	if o.radius < epsilon {
		o.theta, o.phi = 0, math.Pi/2
		return
	}
	o.theta = math.Atan2(offset.X(), offset.Z())
	o.phi = math.Acos(mgl64.Clamp(offset.Y()/o.radius, -1, 1))
}

// SetRotateEnabled toggles pointer rotation. With rotation on, a press on a
// unit both spins the unit and orbits the camera.
func (o *OrbitControls) SetRotateEnabled(enabled bool) {
	if enabled && !o.enableRotate {
		log.Println("orbit rotation enabled: primary-button drags will also orbit the camera")
	}
	o.enableRotate = enabled
	if !enabled {
		o.rotating = false
	}
}

func (o *OrbitControls) RotateEnabled() bool {
	return o.enableRotate
}

// SetViewport scales pointer rotation so a drag across the full height is
// one full turn.
func (o *OrbitControls) SetViewport(width, height int) {
	if height > 0 {
		o.viewHeight = float64(height)
	}
}

func (o *OrbitControls) PointerDown(x, y float64) {
	if !o.enableRotate {
		return
	}
	o.rotating = true
	o.lastX, o.lastY = x, y
}

func (o *OrbitControls) PointerMove(x, y float64) {
	if !o.enableRotate || !o.rotating {
		return
	}
	dx, dy := x-o.lastX, y-o.lastY
	o.lastX, o.lastY = x, y
	o.Rotate(2*math.Pi*dx/o.viewHeight*o.RotateSpeed, 2*math.Pi*dy/o.viewHeight*o.RotateSpeed)
}

func (o *OrbitControls) PointerUp(x, y float64) {
	o.rotating = false
}

// Rotate queues a turn of left radians around the target and up radians
// towards the pole.
func (o *OrbitControls) Rotate(left, up float64) {
	o.deltaTheta -= left
	o.deltaPhi -= up
}

// Wheel zooms in for positive dy and out for negative dy.
func (o *OrbitControls) Wheel(dy float64) {
	if !o.EnableZoom || dy == 0 {
		return
	}
	factor := math.Pow(0.95, o.ZoomSpeed*math.Abs(dy))
	if dy > 0 {
		o.scale *= factor
	} else {
		o.scale /= factor
	}
}

// Distance is the current orbit radius.
func (o *OrbitControls) Distance() float64 {
	return o.radius
}

// Update applies pending rotation and zoom, clamps the result and writes the
// camera. It reports whether the camera moved.
func (o *OrbitControls) Update() bool {
	before := o.camera.Position

	if o.EnableDamping {
		o.theta += o.deltaTheta * o.DampingFactor
		o.phi += o.deltaPhi * o.DampingFactor
	} else {
		o.theta += o.deltaTheta
		o.phi += o.deltaPhi
	}

	minPolar := math.Max(o.MinPolar, minPolarGap)
	maxPolar := math.Min(o.MaxPolar, math.Pi-minPolarGap)
	if minPolar <= maxPolar {
		o.phi = mgl64.Clamp(o.phi, minPolar, maxPolar)
	}

	o.radius *= o.scale
	o.radius = math.Max(o.radius, o.MinDistance)
	if o.MaxDistance > 0 {
		o.radius = math.Min(o.radius, o.MaxDistance)
	}

	sinPhi := math.Sin(o.phi)
	offset := mgl64.Vec3{
		o.radius * sinPhi * math.Sin(o.theta),
		o.radius * math.Cos(o.phi),
		o.radius * sinPhi * math.Cos(o.theta),
	}
	o.camera.Position = o.Target.Add(offset)
	o.camera.Target = o.Target

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
		if math.Abs(o.deltaTheta) < epsilon {
			o.deltaTheta = 0
		}
		if math.Abs(o.deltaPhi) < epsilon {
			o.deltaPhi = 0
		}
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
	}
	o.scale = 1

	return before.Sub(o.camera.Position).Len() > epsilon
}
