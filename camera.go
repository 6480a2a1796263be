package gosieview

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Camera is a perspective camera looking from Position towards Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	// FOV is the vertical field of view in degrees.
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
}

func NewCamera(position, target mgl64.Vec3) *Camera {
	return &Camera{
		Position: position,
		Target:   target,
		Up:       yAxis,
		FOV:      DefaultFOV,
		Aspect:   1,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

func (c *Camera) View() mgl64.Mat4 {
	up := c.Up
	if up == (mgl64.Vec3{}) {
		up = yAxis
	}
	return mgl64.LookAtV(c.Position, c.Target, up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// SetViewport updates the aspect ratio. Non-positive sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}
