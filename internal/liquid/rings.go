// Package liquid builds the liquid volume that conforms to a vessel: an
// immutable ring table sampled once per vessel, a revolved-solid mesh, a
// top-surface disc and the clip plane that masks the mesh at the fill line.
package liquid

import (
	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Ring is one horizontal cross-section of the liquid volume.
type Ring struct {
	Y      float32
	Radius float32
}

// RingTable is the immutable per-ring sample table for one vessel. It is
// built once when the liquid body is constructed and never reshaped.
type RingTable struct {
	rings          []Ring
	radialSegments int
}

// NewRingTable interpolates heightSegments+1 rings between bottomY and topY
// from the radius profile.
func NewRingTable(profile vessel.Profile, bottomY, topY float32, heightSegments, radialSegments int) RingTable {
	if heightSegments < 1 {
		heightSegments = 1
	}
	if radialSegments < 3 {
		radialSegments = 3
	}

	rings := make([]Ring, heightSegments+1)
	for i := range rings {
		f := float32(i) / float32(heightSegments)
		rings[i] = Ring{
			Y:      math.Lerp(bottomY, topY, f),
			Radius: profile.RadiusAt(f),
		}
	}
	return RingTable{rings: rings, radialSegments: radialSegments}
}

// Len returns the number of rings.
func (t RingTable) Len() int {
	return len(t.rings)
}

// Ring returns the i-th ring, bottom first.
func (t RingTable) Ring(i int) Ring {
	return t.rings[i]
}

// RadialSegments returns the number of segments around each ring.
func (t RingTable) RadialSegments() int {
	return t.radialSegments
}

// BottomY and TopY bound the table vertically.
func (t RingTable) BottomY() float32 { return t.rings[0].Y }
func (t RingTable) TopY() float32    { return t.rings[len(t.rings)-1].Y }

// YAt maps a fill fraction to a height inside the table.
func (t RingTable) YAt(fill float32) float32 {
	return math.Lerp(t.BottomY(), t.TopY(), math.Clamp01(fill))
}

// RadiusAtY interpolates between the two rings bracketing y.
func (t RingTable) RadiusAtY(y float32) float32 {
	if y <= t.BottomY() {
		return t.rings[0].Radius
	}
	if y >= t.TopY() {
		return t.rings[len(t.rings)-1].Radius
	}
	for i := 1; i < len(t.rings); i++ {
		if t.rings[i].Y >= y {
			lo, hi := t.rings[i-1], t.rings[i]
			return math.Lerp(lo.Radius, hi.Radius, math.InverseLerp(lo.Y, hi.Y, y))
		}
	}
	return t.rings[len(t.rings)-1].Radius
}

// BuildMesh revolves the table up to the fill fraction. Rings below the fill
// line are kept as-is and a final ring is inserted exactly at the fill
// height. A zero radius collapses its ring to a point, which is how stemmed
// vessels taper into the stem. The top is open; the surface disc closes it.
//
// BuildMesh is pure. Callers rebuild only when the fill line moves.
func BuildMesh(t RingTable, fill float32) *mesh.Mesh {
	fill = math.Clamp01(fill)
	m := &mesh.Mesh{}
	if fill <= 0 || t.Len() < 2 {
		m.RecomputeBounds()
		return m
	}

	fillY := t.YAt(fill)
	var rings []Ring
	for _, r := range t.rings {
		if r.Y >= fillY {
			break
		}
		rings = append(rings, r)
	}
	rings = append(rings, Ring{Y: fillY, Radius: t.RadiusAtY(fillY)})

	segs := t.radialSegments
	for i, r := range rings {
		slope := ringSlope(rings, i)
		for j := 0; j <= segs; j++ {
			a := 2 * math.Pi * float32(j) / float32(segs)
			c, s := math.Cos(a), math.Sin(a)
			n := math.Vec3{X: c, Y: -slope, Z: s}.Normalize()
			m.Vertices = append(m.Vertices, mesh.Vertex{
				Position: [3]float32{r.Radius * c, r.Y, r.Radius * s},
				Normal:   n.Array(),
			})
		}
	}

	stride := uint32(segs + 1)
	for i := 0; i+1 < len(rings); i++ {
		for j := 0; j < segs; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}

	// Bottom cap
	center := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, mesh.Vertex{
		Position: [3]float32{0, rings[0].Y, 0},
		Normal:   [3]float32{0, -1, 0},
	})
	for j := 0; j < segs; j++ {
		m.Indices = append(m.Indices, center, uint32(j+1), uint32(j))
	}

	m.RecomputeBounds()
	return m
}

// ringSlope returns dr/dy around ring i using its neighbours.
func ringSlope(rings []Ring, i int) float32 {
	lo, hi := i-1, i+1
	if lo < 0 {
		lo = 0
	}
	if hi >= len(rings) {
		hi = len(rings) - 1
	}
	dy := rings[hi].Y - rings[lo].Y
	if dy <= 0 {
		return 0
	}
	return (rings[hi].Radius - rings[lo].Radius) / dy
}
