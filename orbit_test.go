package gosieview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOrbitRotateDisabledIgnoresPointer(t *testing.T) {
	cam := testCamera()
	o := NewOrbitControls(cam)
	o.SetViewport(100, 100)
	start := cam.Position

	o.PointerDown(10, 10)
	o.PointerMove(90, 40)
	o.PointerUp(90, 40)
	if o.Update() {
		t.Error("Update reported movement")
	}
	if !vecAlmostEqual(cam.Position, start) {
		t.Errorf("camera moved to %v", cam.Position)
	}
}

func TestOrbitRotateEnabledKeepsDistance(t *testing.T) {
	cam := testCamera()
	o := NewOrbitControls(cam)
	o.SetViewport(100, 100)
	o.SetRotateEnabled(true)

	o.PointerDown(50, 50)
	o.PointerMove(75, 50)
	if !o.Update() {
		t.Fatal("Update reported no movement")
	}
	if !almostEqual(cam.Distance(), 5) {
		t.Errorf("distance = %v, want 5", cam.Distance())
	}
	// a quarter of the viewport height is a quarter turn
	if !vecAlmostEqual(cam.Position, mgl64.Vec3{-5, 0, 0}) {
		t.Errorf("position = %v, want (-5, 0, 0)", cam.Position)
	}
	if cam.Target != (mgl64.Vec3{}) {
		t.Errorf("target = %v, want origin", cam.Target)
	}
}

func TestOrbitPolarClamp(t *testing.T) {
	cam := testCamera()
	o := NewOrbitControls(cam)
	o.Rotate(0, math.Pi)
	o.Update()
	if cam.Position.Y() <= 0 || cam.Position.Y() > 5 {
		t.Errorf("position = %v, want clamped just below the pole", cam.Position)
	}
	if math.IsNaN(cam.Position.X()) {
		t.Error("NaN position at the pole")
	}
}

func TestOrbitWheelZoom(t *testing.T) {
	testCases := []struct {
		name     string
		dy       float64
		min, max float64
		want     float64
	}{
		{"zoom in", 1, 0, 0, 5 * 0.95},
		{"zoom out", -1, 0, 0, 5 / 0.95},
		{"zoom in two notches", 2, 0, 0, 5 * 0.95 * 0.95},
		{"clamped at min", 100, 2, 0, 2},
		{"clamped at max", -100, 0, 8, 8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cam := testCamera()
			o := NewOrbitControls(cam)
			o.MinDistance, o.MaxDistance = tc.min, tc.max
			o.Wheel(tc.dy)
			o.Update()
			if !almostEqual(cam.Distance(), tc.want) {
				t.Errorf("distance = %v, want %v", cam.Distance(), tc.want)
			}
		})
	}
}

func TestOrbitZoomDisabled(t *testing.T) {
	cam := testCamera()
	o := NewOrbitControls(cam)
	o.EnableZoom = false
	o.Wheel(3)
	o.Update()
	if !almostEqual(cam.Distance(), 5) {
		t.Errorf("distance = %v, want 5", cam.Distance())
	}
}

func TestOrbitClampsStartingDistance(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	o := NewOrbitControls(cam)
	o.MaxDistance = 5
	o.Update()
	if !almostEqual(cam.Distance(), 5) {
		t.Errorf("distance = %v, want 5", cam.Distance())
	}
}

func TestOrbitDampingConverges(t *testing.T) {
	damped := testCamera()
	od := NewOrbitControls(damped)
	od.EnableDamping = true
	od.DampingFactor = 0.1

	direct := testCamera()
	o := NewOrbitControls(direct)

	od.Rotate(1, 0)
	o.Rotate(1, 0)
	o.Update()

	od.Update()
	if vecAlmostEqual(damped.Position, direct.Position) {
		t.Fatal("damped camera reached the target in one frame")
	}
	for i := 0; i < 500; i++ {
		od.Update()
	}
	if !vecAlmostEqual(damped.Position, direct.Position) {
		t.Errorf("damped position %v, want %v", damped.Position, direct.Position)
	}
	if od.Update() {
		t.Error("damped camera still moving after settling")
	}
}

func TestOrbitConfigApply(t *testing.T) {
	cam := testCamera()
	o := NewOrbitControls(cam)
	cfg := DefaultConfig().Orbit
	cfg.MaxDistance = 3
	cfg.Apply(o)
	if o.RotateEnabled() {
		t.Error("default config enabled rotation")
	}
	if !o.EnableDamping || !o.EnableZoom {
		t.Error("default config should enable damping and zoom")
	}
	o.Update()
	if !almostEqual(cam.Distance(), 3) {
		t.Errorf("distance = %v, want 3", cam.Distance())
	}
}
