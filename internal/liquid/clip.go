package liquid

import "github.com/Faultbox/pourglass/pkg/math"

// ClipPlane is a half-space that keeps points with Normal.p + Constant >= 0.
// Liquid planes point down, so everything above the fill line is masked.
// Coordinates are in the vessel's resting frame.
type ClipPlane struct {
	Normal   math.Vec3
	Constant float32
	Owner    string
}

// Distance returns the signed distance of p from the plane.
func (c *ClipPlane) Distance(p math.Vec3) float32 {
	return c.Normal.Dot(p) + c.Constant
}

// Keeps reports whether p survives clipping.
func (c *ClipPlane) Keeps(p math.Vec3) bool {
	return c.Distance(p) >= 0
}

// SetHeight moves a downward plane so it keeps everything at or below y.
func (c *ClipPlane) SetHeight(y float32) {
	c.Normal = math.Vec3{Y: -1}
	c.Constant = y
}

// Height returns the cut height of a downward plane.
func (c *ClipPlane) Height() float32 {
	return c.Constant
}

// ClipRegistry tracks the clip planes renderers must apply, one per liquid body.
type ClipRegistry struct {
	planes []*ClipPlane
}

// NewClipRegistry creates an empty registry.
func NewClipRegistry() *ClipRegistry {
	return &ClipRegistry{}
}

// Register creates a plane for owner cutting at height y.
func (r *ClipRegistry) Register(owner string, y float32) *ClipPlane {
	p := &ClipPlane{Owner: owner}
	p.SetHeight(y)
	r.planes = append(r.planes, p)
	return p
}

// Unregister removes a plane. Unknown planes are ignored.
func (r *ClipRegistry) Unregister(p *ClipPlane) {
	for i, q := range r.planes {
		if q == p {
			r.planes = append(r.planes[:i], r.planes[i+1:]...)
			return
		}
	}
}

// Planes returns a snapshot of the registered planes.
func (r *ClipRegistry) Planes() []*ClipPlane {
	out := make([]*ClipPlane, len(r.planes))
	copy(out, r.planes)
	return out
}

// Len returns the number of registered planes.
func (r *ClipRegistry) Len() int {
	return len(r.planes)
}
