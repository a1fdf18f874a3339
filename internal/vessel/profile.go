package vessel

import (
	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/pkg/math"
)

// DefaultSafetyFactor shrinks sampled radii so the liquid skin never
// coincides with the vessel wall.
const DefaultSafetyFactor = 0.98

// DefaultProfileSamples is the number of radius samples across the fill window.
const DefaultProfileSamples = 21

// Sample is one radius measurement at a fraction of the fill window.
type Sample struct {
	Fraction float32
	Radius   float32
}

// Profile is an ordered radius table. Fractions increase strictly and every
// radius is non-negative.
type Profile []Sample

// RadiusAt linearly interpolates between the two samples bracketing fraction.
// Fractions outside the table clamp to the end samples.
func (p Profile) RadiusAt(fraction float32) float32 {
	if len(p) == 0 {
		return 0
	}
	if fraction <= p[0].Fraction {
		return p[0].Radius
	}
	last := p[len(p)-1]
	if fraction >= last.Fraction {
		return last.Radius
	}

	// Samples are evenly spaced in practice, but search keeps arbitrary tables valid.
	hi := 1
	for hi < len(p)-1 && p[hi].Fraction < fraction {
		hi++
	}
	lo := hi - 1
	t := math.InverseLerp(p[lo].Fraction, p[hi].Fraction, fraction)
	return math.Lerp(p[lo].Radius, p[hi].Radius, t)
}

// MaxRadius returns the widest sample.
func (p Profile) MaxRadius() float32 {
	var r float32
	for _, s := range p {
		if s.Radius > r {
			r = s.Radius
		}
	}
	return r
}

// Profiler answers radius queries against a static vessel.
type Profiler struct {
	vessel       *Vessel
	SafetyFactor float32
}

// NewProfiler creates a profiler using DefaultSafetyFactor.
func NewProfiler(v *Vessel) *Profiler {
	return &Profiler{vessel: v, SafetyFactor: DefaultSafetyFactor}
}

// Vessel returns the profiled vessel.
func (p *Profiler) Vessel() *Vessel {
	return p.vessel
}

// RadiusAt casts +X and -X rays from the centerline at height y and returns
// the farthest surface hit scaled by the safety factor. Zero when nothing is
// hit, e.g. above the rim or at a thin stem that misses the rays.
func (p *Profiler) RadiusAt(y float32) float32 {
	v := p.vessel
	if v == nil || len(v.Triangles) == 0 || !v.Bounds.ContainsY(y) {
		return 0
	}

	origin := v.Centerline(y)
	rays := [2]picking.Ray{
		{Origin: origin, Direction: math.Vec3{X: 1}},
		{Origin: origin, Direction: math.Vec3{X: -1}},
	}

	var best float32
	for i := range v.Triangles {
		tri := &v.Triangles[i]
		if !spansY(tri, y) {
			continue
		}
		for _, r := range rays {
			if t, hit := r.IntersectTriangle(*tri); hit && t > best {
				best = t
			}
		}
	}
	return best * p.SafetyFactor
}

// SampleProfile samples n radii evenly across the fill window, fraction 0 at
// the liquid bottom and 1 at the maximum liquid top.
func (p *Profiler) SampleProfile(n int) Profile {
	if n < 2 {
		n = 2
	}
	v := p.vessel
	profile := make(Profile, n)
	for i := 0; i < n; i++ {
		f := float32(i) / float32(n-1)
		profile[i] = Sample{Fraction: f, Radius: p.RadiusAt(v.FillY(f))}
	}
	return profile
}

func spansY(tri *picking.Triangle, y float32) bool {
	lo, hi := tri.A.Y, tri.A.Y
	for _, c := range [2]float32{tri.B.Y, tri.C.Y} {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return y >= lo && y <= hi
}
