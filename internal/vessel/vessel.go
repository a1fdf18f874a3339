// Package vessel describes drinking vessels as triangle surfaces and samples
// their horizontal cross-section radius by ray casting.
package vessel

import (
	"sort"
	"strings"

	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Vessel is a rigid container surface with its fill window and named
// attachment points for inclusions. Geometry is expressed in the vessel's
// resting frame; the scene graph moves the whole group during transitions.
type Vessel struct {
	Name      string
	Triangles []picking.Triangle
	Bounds    picking.AABB

	// FillStart and FillEnd are fractions of the vessel height where the
	// liquid bottom and the maximum liquid top sit.
	FillStart float32
	FillEnd   float32

	// Attachments are named resting positions for ice and garnish.
	Attachments map[string]math.Vec3
}

// New builds a vessel from its surface triangles. The fill window is clamped
// to [0,1] and reordered if given inverted.
func New(name string, tris []picking.Triangle, fillStart, fillEnd float32, attachments map[string]math.Vec3) *Vessel {
	bounds := picking.EmptyAABB()
	for _, tri := range tris {
		bounds.Expand(tri.A)
		bounds.Expand(tri.B)
		bounds.Expand(tri.C)
	}
	if len(tris) == 0 {
		bounds = picking.AABB{}
	}

	fillStart = math.Clamp01(fillStart)
	fillEnd = math.Clamp01(fillEnd)
	if fillStart > fillEnd {
		fillStart, fillEnd = fillEnd, fillStart
	}

	if attachments == nil {
		attachments = make(map[string]math.Vec3)
	}

	return &Vessel{
		Name:        name,
		Triangles:   tris,
		Bounds:      bounds,
		FillStart:   fillStart,
		FillEnd:     fillEnd,
		Attachments: attachments,
	}
}

// Height returns the vertical extent of the bounding box.
func (v *Vessel) Height() float32 {
	return v.Bounds.Max.Y - v.Bounds.Min.Y
}

// Centerline returns the XZ centre of the bounding box at height y.
func (v *Vessel) Centerline(y float32) math.Vec3 {
	c := v.Bounds.Center()
	return math.Vec3{X: c.X, Y: y, Z: c.Z}
}

// FillBottomY is the world height of the liquid bottom.
func (v *Vessel) FillBottomY() float32 {
	return v.Bounds.Min.Y + v.Height()*v.FillStart
}

// FillTopY is the world height of a completely filled vessel.
func (v *Vessel) FillTopY() float32 {
	return v.Bounds.Min.Y + v.Height()*v.FillEnd
}

// LiquidHeight is the height of the fill window.
func (v *Vessel) LiquidHeight() float32 {
	return v.Height() * (v.FillEnd - v.FillStart)
}

// FillY maps a fill level in [0,1] to a world height inside the fill window.
func (v *Vessel) FillY(level float32) float32 {
	return math.Lerp(v.FillBottomY(), v.FillTopY(), math.Clamp01(level))
}

// Attachment looks up a named attachment point.
func (v *Vessel) Attachment(name string) (math.Vec3, bool) {
	p, ok := v.Attachments[name]
	return p, ok
}

// AttachmentsWithPrefix returns the attachment names starting with prefix in
// natural order, so "ice-2" sorts before "ice-10".
func (v *Vessel) AttachmentsWithPrefix(prefix string) []string {
	var names []string
	for name := range v.Attachments {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// RimRadius returns the horizontal half-extent of the bounding box.
func (v *Vessel) RimRadius() float32 {
	s := v.Bounds.Size()
	return math.Max(s.X, s.Z) / 2
}
