// Package camera provides the orbit camera used to inspect a vessel.
package camera

import (
	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	// FovY is the vertical field of view in radians.
	FovY float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera scaled for tabletop vessels a few
// units tall.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        10,
		RotationX:       0.3,
		FovY:            0.7,
		MinDistance:     2,
		MaxDistance:     60,
		MinPitch:        -0.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math.Cos(c.RotationX)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * math.Sin(c.RotationY),
		Y: c.Distance * math.Sin(c.RotationX),
		Z: c.Distance * cp * math.Cos(c.RotationY),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns a perspective projection whose clip range
// brackets the orbit distance.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	near := math.Max(c.Distance*0.05, 0.01)
	return math.Perspective(c.FovY, aspect, near, c.Distance*10)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centres the camera on box and backs off until the box's
// bounding sphere fills the vertical field of view with some margin.
func (c *OrbitCamera) FitToBounds(box picking.AABB) {
	c.Center = box.Center()
	radius := box.Size().Length() / 2
	if radius <= 0 {
		return
	}
	d := radius * 1.2 / math.Sin(c.FovY/2)
	c.MaxDistance = math.Max(c.MaxDistance, d*4)
	c.Distance = math.Clamp(d, c.MinDistance, c.MaxDistance)
}

// Ray returns the world-space ray through window point (x, y) of a
// width x height viewport, origin at the eye.
func (c *OrbitCamera) Ray(x, y, width, height float32) picking.Ray {
	eye := c.Position()
	forward := c.Center.Sub(eye).Normalize()
	right := forward.Cross(math.Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)

	half := math.Tan(c.FovY / 2)
	nx := (2*x/width - 1) * half * width / height
	ny := (1 - 2*y/height) * half
	dir := forward.Add(right.Scale(nx)).Add(up.Scale(ny)).Normalize()
	return picking.Ray{Origin: eye, Direction: dir}
}
