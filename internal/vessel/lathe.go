package vessel

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/pkg/math"
)

// ErrEmptyOutline is returned when a descriptor has fewer than two outline points.
var ErrEmptyOutline = errors.New("vessel outline needs at least two points")

// DefaultLatheSegments is the radial resolution used when a descriptor leaves it unset.
const DefaultLatheSegments = 48

// OutlinePoint is one point of a vessel silhouette, bottom to top.
type OutlinePoint struct {
	Y      float32 `yaml:"y"`
	Radius float32 `yaml:"r"`
}

// Descriptor describes a revolved vessel. It stands in for a loaded model
// when the host has no mesh of its own.
type Descriptor struct {
	Name        string                `yaml:"name"`
	Aliases     []string              `yaml:"aliases"`
	Outline     []OutlinePoint        `yaml:"outline"`
	Thickness   float32               `yaml:"thickness"`
	Segments    int                   `yaml:"segments"`
	FillStart   float32               `yaml:"fill_start"`
	FillEnd     float32               `yaml:"fill_end"`
	Attachments map[string][3]float32 `yaml:"attachments"`
}

// Lathe revolves the descriptor's outline around the Y axis. With a wall
// thickness the inner surface is generated too, plus a rim and a base.
func Lathe(d Descriptor) (*Vessel, error) {
	if len(d.Outline) < 2 {
		return nil, fmt.Errorf("vessel %q: %w", d.Name, ErrEmptyOutline)
	}
	for i := 1; i < len(d.Outline); i++ {
		if d.Outline[i].Y < d.Outline[i-1].Y {
			return nil, fmt.Errorf("vessel %q: outline point %d goes downward", d.Name, i)
		}
	}

	segs := d.Segments
	if segs < 3 {
		segs = DefaultLatheSegments
	}

	outer := rings(d.Outline, 0, segs)
	tris := revolve(outer, false)

	if d.Thickness > 0 {
		inner := rings(d.Outline, d.Thickness, segs)
		tris = append(tris, revolve(inner, true)...)
		tris = append(tris, bridge(outer[len(outer)-1], inner[len(inner)-1])...)
	}
	tris = append(tris, fan(outer[0], math.Vec3{Y: d.Outline[0].Y})...)

	attachments := make(map[string]math.Vec3, len(d.Attachments))
	for name, p := range d.Attachments {
		attachments[name] = math.FromArray(p)
	}

	return New(d.Name, tris, d.FillStart, d.FillEnd, attachments), nil
}

// rings expands outline points into rings of points. Angles are offset by half
// a segment so the profiler's axis rays cross face interiors, not seams.
func rings(outline []OutlinePoint, inset float32, segs int) [][]math.Vec3 {
	out := make([][]math.Vec3, len(outline))
	for i, p := range outline {
		r := p.Radius - inset
		if r < 0 {
			r = 0
		}
		ring := make([]math.Vec3, segs)
		for j := 0; j < segs; j++ {
			a := (float32(j) + 0.5) * 2 * math.Pi / float32(segs)
			ring[j] = math.Vec3{X: r * math.Cos(a), Y: p.Y, Z: r * math.Sin(a)}
		}
		out[i] = ring
	}
	return out
}

func revolve(rs [][]math.Vec3, flip bool) []picking.Triangle {
	var tris []picking.Triangle
	for i := 0; i+1 < len(rs); i++ {
		lo, hi := rs[i], rs[i+1]
		tris = append(tris, bridge(lo, hi)...)
	}
	if flip {
		for i := range tris {
			tris[i].B, tris[i].C = tris[i].C, tris[i].B
		}
	}
	return tris
}

// bridge stitches two rings of equal length with a quad strip.
func bridge(a, b []math.Vec3) []picking.Triangle {
	n := len(a)
	tris := make([]picking.Triangle, 0, 2*n)
	for j := 0; j < n; j++ {
		k := (j + 1) % n
		tris = append(tris,
			picking.Triangle{A: a[j], B: b[j], C: b[k]},
			picking.Triangle{A: a[j], B: b[k], C: a[k]},
		)
	}
	return tris
}

func fan(ring []math.Vec3, center math.Vec3) []picking.Triangle {
	n := len(ring)
	tris := make([]picking.Triangle, 0, n)
	for j := 0; j < n; j++ {
		tris = append(tris, picking.Triangle{A: center, B: ring[(j+1)%n], C: ring[j]})
	}
	return tris
}
