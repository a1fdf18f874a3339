package liquid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

func lathe(t *testing.T, d vessel.Descriptor) *vessel.Vessel {
	t.Helper()
	v, err := vessel.Lathe(d)
	require.NoError(t, err)
	return v
}

func highball(t *testing.T) *vessel.Vessel {
	return lathe(t, vessel.Descriptor{
		Name:      "highball",
		Outline:   []vessel.OutlinePoint{{Y: 0, Radius: 0.8}, {Y: 4, Radius: 1.2}},
		FillStart: 0.06,
		FillEnd:   0.90,
	})
}

func TestRingTableInterpolatesProfile(t *testing.T) {
	profile := vessel.Profile{{Fraction: 0, Radius: 1}, {Fraction: 1, Radius: 3}}
	table := NewRingTable(profile, 0, 2, 4, 8)

	require.Equal(t, 5, table.Len())
	assert.Equal(t, 8, table.RadialSegments())
	assert.InDelta(t, 0.5, table.Ring(1).Y, 1e-6)
	assert.InDelta(t, 1.5, table.Ring(1).Radius, 1e-6)
	assert.InDelta(t, 2.0, table.RadiusAtY(1), 1e-6)
	assert.InDelta(t, 1.0, table.RadiusAtY(-5), 1e-6)
	assert.InDelta(t, 3.0, table.RadiusAtY(5), 1e-6)
}

func TestBuildMeshTruncatesAtFill(t *testing.T) {
	profile := vessel.Profile{{Fraction: 0, Radius: 1}, {Fraction: 1, Radius: 1}}
	table := NewRingTable(profile, 0, 4, 8, 16)

	full := BuildMesh(table, 1)
	half := BuildMesh(table, 0.5)

	assert.InDelta(t, 4.0, full.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, 2.0, half.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, 0.0, half.Bounds.Min.Y, 1e-5)
	assert.Less(t, half.TriangleCount(), full.TriangleCount())

	// A fill between rings inserts an exact top ring.
	odd := BuildMesh(table, 0.3)
	assert.InDelta(t, 1.2, odd.Bounds.Max.Y, 1e-5)
}

func TestBuildMeshIsPure(t *testing.T) {
	profile := vessel.Profile{{Fraction: 0, Radius: 1}, {Fraction: 1, Radius: 2}}
	table := NewRingTable(profile, 0, 4, 8, 16)

	a := BuildMesh(table, 0.7)
	b := BuildMesh(table, 0.7)
	assert.Equal(t, a.Vertices, b.Vertices)
	assert.Equal(t, a.Indices, b.Indices)
}

func TestBuildMeshEmptyAtZeroFill(t *testing.T) {
	profile := vessel.Profile{{Fraction: 0, Radius: 1}, {Fraction: 1, Radius: 1}}
	m := BuildMesh(NewRingTable(profile, 0, 4, 8, 16), 0)
	assert.True(t, m.Empty())
}

func TestBuildMeshDegenerateRing(t *testing.T) {
	// Zero radius at the bottom, as where a bowl meets its stem.
	profile := vessel.Profile{{Fraction: 0, Radius: 0}, {Fraction: 1, Radius: 1}}
	m := BuildMesh(NewRingTable(profile, 0, 1, 4, 12), 1)

	require.False(t, m.Empty())
	for j := 0; j <= 12; j++ {
		p := m.Vertices[j].Position
		assert.Zero(t, p[0])
		assert.Zero(t, p[2])
	}
}

func TestBuildSurfaceDisc(t *testing.T) {
	s := BuildSurface(2, 1.5, 16, 4)

	assert.Equal(t, 1+16*4, s.VertexCount())
	assert.InDelta(t, 2.0, s.Mesh.Bounds.Max.X, 1e-5)
	assert.InDelta(t, 1.5, s.Mesh.Bounds.Max.Y, 1e-6)
	assert.Equal(t, (16+16*2*3)*3, len(s.Mesh.Indices))

	s.Displace(func(x, z, radial float32) float32 { return 0.1 * radial })
	assert.InDelta(t, 1.5, s.Mesh.Vertices[0].Position[1], 1e-6)
	assert.InDelta(t, 1.6, s.Mesh.Vertices[len(s.Mesh.Vertices)-1].Position[1], 1e-6)
}

func TestClipPlaneKeepsBelowFill(t *testing.T) {
	reg := NewClipRegistry()
	p := reg.Register("tumbler", 2)

	assert.True(t, p.Keeps(math.Vec3{Y: 1.9}))
	assert.True(t, p.Keeps(math.Vec3{Y: 2}))
	assert.False(t, p.Keeps(math.Vec3{Y: 2.1}))
	assert.Equal(t, 1, reg.Len())

	reg.Unregister(p)
	reg.Unregister(p)
	assert.Zero(t, reg.Len())
}

func TestBuildRegistersClipAtZeroFill(t *testing.T) {
	v := highball(t)
	reg := NewClipRegistry()
	b := Build(v, vessel.NewProfiler(v), DefaultOptions(), reg)

	require.Equal(t, 1, reg.Len())
	assert.Same(t, b.Clip, reg.Planes()[0])
	assert.InDelta(t, v.FillBottomY(), b.Clip.Height(), 1e-5)
	assert.Zero(t, b.Fill())

	// The full mesh spans the whole fill window regardless of fill.
	assert.InDelta(t, v.FillTopY(), b.Mesh.Bounds.Max.Y, 1e-4)
	assert.InDelta(t, v.FillBottomY(), b.Mesh.Bounds.Min.Y, 1e-4)
	assert.Equal(t, DefaultOptions().HeightSegments+1, b.Table().Len())
	assert.Len(t, b.Profile(), vessel.DefaultProfileSamples)
}

func TestSetFillMovesClipAndRebuildsSurface(t *testing.T) {
	v := highball(t)
	reg := NewClipRegistry()
	p := vessel.NewProfiler(v)
	b := Build(v, p, DefaultOptions(), reg)

	low := b.Surface
	b.SetFill(0.25)
	mid := b.Surface
	b.SetFill(0.9)

	assert.NotSame(t, low, mid, "surface geometry is rebuilt, not moved")
	assert.InDelta(t, v.FillY(0.9), b.Clip.Height(), 1e-5)
	assert.InDelta(t, v.FillY(0.9), b.Surface.Y, 1e-5)
	assert.InDelta(t, p.RadiusAt(v.FillY(0.9)), b.Surface.Radius, 1e-6)
	assert.Greater(t, b.Surface.Radius, mid.Radius, "vessel widens towards the rim")

	b.SetFill(3)
	assert.Equal(t, float32(1), b.Fill())
}

func TestDisposeUnregistersClip(t *testing.T) {
	v := highball(t)
	reg := NewClipRegistry()
	b := Build(v, vessel.NewProfiler(v), DefaultOptions(), reg)

	b.Dispose()
	assert.True(t, b.Disposed())
	assert.Zero(t, reg.Len())

	b.SetFill(0.5)
	assert.Zero(t, b.Fill(), "disposed bodies ignore fill changes")
}
