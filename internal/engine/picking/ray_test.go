package picking

import (
	"testing"

	"github.com/Faultbox/pourglass/pkg/math"
)

func TestIntersectTriangleHit(t *testing.T) {
	// Triangle in the plane x = 2, spanning y and z around the origin.
	tri := Triangle{
		A: math.Vec3{X: 2, Y: -1, Z: -1},
		B: math.Vec3{X: 2, Y: 1, Z: -1},
		C: math.Vec3{X: 2, Y: 0, Z: 2},
	}
	r := Ray{Direction: math.Vec3{X: 1}}

	dist, hit := r.IntersectTriangle(tri)
	if !hit {
		t.Fatal("expected hit")
	}
	if dist < 1.999 || dist > 2.001 {
		t.Errorf("IntersectTriangle() t = %v, want 2", dist)
	}
}

func TestIntersectTriangleBehindAndParallel(t *testing.T) {
	tri := Triangle{
		A: math.Vec3{X: 2, Y: -1, Z: -1},
		B: math.Vec3{X: 2, Y: 1, Z: -1},
		C: math.Vec3{X: 2, Y: 0, Z: 2},
	}

	behind := Ray{Direction: math.Vec3{X: -1}}
	if _, hit := behind.IntersectTriangle(tri); hit {
		t.Error("triangle behind origin should not be hit")
	}

	parallel := Ray{Direction: math.Vec3{Y: 1}}
	if _, hit := parallel.IntersectTriangle(tri); hit {
		t.Error("parallel ray should not hit")
	}

	miss := Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{X: 1}}
	if _, hit := miss.IntersectTriangle(tri); hit {
		t.Error("ray above triangle should miss")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})

	tests := []struct {
		name string
		ray  Ray
		hit  bool
		t    float32
	}{
		{"from outside", Ray{Origin: math.Vec3{X: -5}, Direction: math.Vec3{X: 1}}, true, 4},
		{"from inside", Ray{Direction: math.Vec3{X: 1}}, true, 1},
		{"miss", Ray{Origin: math.Vec3{X: -5, Y: 3}, Direction: math.Vec3{X: 1}}, false, 0},
		{"pointing away", Ray{Origin: math.Vec3{X: 5}, Direction: math.Vec3{X: 1}}, false, 0},
	}

	for _, tt := range tests {
		got, hit := tt.ray.IntersectAABB(box)
		if hit != tt.hit {
			t.Errorf("%s: hit = %v, want %v", tt.name, hit, tt.hit)
			continue
		}
		if hit && (got < tt.t-0.001 || got > tt.t+0.001) {
			t.Errorf("%s: t = %v, want %v", tt.name, got, tt.t)
		}
	}
}

func TestAABBExpand(t *testing.T) {
	b := EmptyAABB()
	b.Expand(math.Vec3{X: 1, Y: 2, Z: 3})
	b.Expand(math.Vec3{X: -1, Y: 0, Z: 1})

	if b.Min != (math.Vec3{X: -1, Y: 0, Z: 1}) || b.Max != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Expand() = %+v", b)
	}
	if c := b.Center(); c != (math.Vec3{X: 0, Y: 1, Z: 2}) {
		t.Errorf("Center() = %v", c)
	}
	if !b.ContainsY(1) || b.ContainsY(3) {
		t.Error("ContainsY mismatch")
	}
}
