// Package picking provides ray casting against boxes and triangle meshes.
package picking

import (
	"github.com/Faultbox/pourglass/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Triangle is a single surface triangle in world space.
type Triangle struct {
	A, B, C math.Vec3
}

// triEpsilon rejects rays parallel to a triangle's plane.
const triEpsilon = 1e-7

// IntersectTriangle tests the ray against a triangle (Moller-Trumbore).
// Both faces count as hits. Returns the distance along the ray.
func (r Ray) IntersectTriangle(tri Triangle) (t float32, hit bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -triEpsilon && det < triEpsilon {
		return 0, false // Ray parallel to triangle
	}
	invDet := 1 / det

	s := r.Origin.Sub(tri.A)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * invDet
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-3.4e38)
	tmax := float32(3.4e38)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// EmptyAABB returns an inverted box ready for Expand.
func EmptyAABB() AABB {
	return AABB{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

// Expand grows the box to include p.
func (b *AABB) Expand(p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Size returns the box extents.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// ContainsY reports whether y lies within the vertical extent.
func (b AABB) ContainsY(y float32) bool {
	return y >= b.Min.Y && y <= b.Max.Y
}
