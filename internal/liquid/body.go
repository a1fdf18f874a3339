package liquid

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Options controls liquid mesh resolution.
type Options struct {
	ProfileSamples int
	HeightSegments int
	RadialSegments int
	SurfaceRings   int
}

// DefaultOptions returns the resolution used by the simulation.
func DefaultOptions() Options {
	return Options{
		ProfileSamples: vessel.DefaultProfileSamples,
		HeightSegments: 48,
		RadialSegments: 48,
		SurfaceRings:   DefaultSurfaceRings,
	}
}

// Body is the liquid inside one vessel. The revolved mesh spans the whole
// fill window and is never reshaped; the clip plane masks it at the current
// fill line and the surface disc is rebuilt as the line moves.
type Body struct {
	vessel   *vessel.Vessel
	profiler *vessel.Profiler
	profile  vessel.Profile
	table    RingTable
	opts     Options
	clips    *ClipRegistry

	// Mesh is the full-window liquid volume, in the vessel frame centred on
	// the vessel axis (see Offset).
	Mesh    *mesh.Mesh
	Surface *Surface
	Clip    *ClipPlane

	fill     float32
	disposed bool
}

// Build samples the vessel, builds the liquid volume and registers the body's
// clip plane at fill level 0.
func Build(v *vessel.Vessel, profiler *vessel.Profiler, opts Options, clips *ClipRegistry) *Body {
	if opts.ProfileSamples < 2 {
		opts.ProfileSamples = vessel.DefaultProfileSamples
	}

	profile := profiler.SampleProfile(opts.ProfileSamples)
	table := NewRingTable(profile, v.FillBottomY(), v.FillTopY(), opts.HeightSegments, opts.RadialSegments)

	b := &Body{
		vessel:   v,
		profiler: profiler,
		profile:  profile,
		table:    table,
		opts:     opts,
		clips:    clips,
		Mesh:     BuildMesh(table, 1),
		Clip:     clips.Register(v.Name, v.FillY(0)),
	}
	b.rebuildSurface()

	logger.Named("liquid").Debug("liquid body built",
		zap.String("vessel", v.Name),
		zap.Int("rings", table.Len()),
		zap.Int("triangles", b.Mesh.TriangleCount()),
		zap.Float32("max_radius", profile.MaxRadius()),
	)
	return b
}

// Vessel returns the vessel the body conforms to.
func (b *Body) Vessel() *vessel.Vessel { return b.vessel }

// Profile returns the radius profile sampled at build time.
func (b *Body) Profile() vessel.Profile { return b.profile }

// Table returns the immutable ring table.
func (b *Body) Table() RingTable { return b.table }

// Fill returns the displayed fill level in [0,1].
func (b *Body) Fill() float32 { return b.fill }

// Offset returns the XZ translation from the vessel origin to its axis.
func (b *Body) Offset() math.Vec3 {
	return b.vessel.Centerline(0).WithY(0)
}

// SurfaceY returns the current liquid surface height.
func (b *Body) SurfaceY() float32 {
	return b.vessel.FillY(b.fill)
}

// SetFill moves the fill line: the clip plane follows it and the surface
// disc is rebuilt at the new height with a freshly profiled radius.
func (b *Body) SetFill(level float32) {
	if b.disposed {
		return
	}
	b.fill = math.Clamp01(level)
	b.Clip.SetHeight(b.SurfaceY())
	b.rebuildSurface()
}

// Dispose unregisters the clip plane. Further SetFill calls are ignored.
func (b *Body) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.clips.Unregister(b.Clip)
}

// Disposed reports whether Dispose was called.
func (b *Body) Disposed() bool { return b.disposed }

func (b *Body) rebuildSurface() {
	y := b.SurfaceY()
	b.Surface = BuildSurface(b.profiler.RadiusAt(y), y, b.opts.RadialSegments, b.opts.SurfaceRings)
}
