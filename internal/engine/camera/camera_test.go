package camera

import (
	"testing"

	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/pkg/math"
)

func near(a, b float32) bool {
	return math.Abs(a-b) < 1e-4
}

func TestPositionOrbitsCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 1, Y: 2, Z: 3}
	c.RotationX, c.RotationY = 0, 0
	c.Distance = 5

	p := c.Position()
	if !near(p.X, 1) || !near(p.Y, 2) || !near(p.Z, 8) {
		t.Errorf("position = %+v", p)
	}
	if d := p.Distance(c.Center); !near(d, 5) {
		t.Errorf("distance = %v", d)
	}
}

func TestDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch = %v, want %v", c.RotationX, c.MinPitch)
	}
}

func TestZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want %v", c.Distance, c.MinDistance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	box := picking.NewAABB(math.Vec3{X: -1, Y: 0, Z: -1}, math.Vec3{X: 1, Y: 4, Z: 1})
	c.FitToBounds(box)

	if !near(c.Center.Y, 2) {
		t.Errorf("center = %+v", c.Center)
	}
	radius := box.Size().Length() / 2
	if c.Distance <= radius {
		t.Errorf("distance %v inside bounds radius %v", c.Distance, radius)
	}
}

func TestRayThroughCenterHitsTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{Y: 2}
	c.RotationX, c.RotationY = 0.3, 0.8

	r := c.Ray(400, 300, 800, 600)
	want := c.Center.Sub(c.Position()).Normalize()
	if d := r.Direction; !near(d.X, want.X) || !near(d.Y, want.Y) || !near(d.Z, want.Z) {
		t.Errorf("direction = %+v, want %+v", d, want)
	}

	box := picking.NewAABB(math.Vec3{X: -0.1, Y: 1.9, Z: -0.1}, math.Vec3{X: 0.1, Y: 2.1, Z: 0.1})
	if _, hit := r.IntersectAABB(box); !hit {
		t.Error("center ray missed the target box")
	}
}

func TestRayEdgesSpanFieldOfView(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX, c.RotationY = 0, 0

	top := c.Ray(400, 0, 800, 600)
	bottom := c.Ray(400, 600, 800, 600)
	if top.Direction.Y <= 0 || bottom.Direction.Y >= 0 {
		t.Fatalf("top %+v and bottom %+v should straddle the horizon", top.Direction, bottom.Direction)
	}
	if got, want := top.Direction.Y, math.Sin(c.FovY/2); !near(got, want) {
		t.Errorf("top ray elevation = %v, want %v", got, want)
	}
}
