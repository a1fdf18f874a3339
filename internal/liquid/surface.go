package liquid

import (
	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/pkg/math"
)

// DefaultSurfaceRings is the number of concentric rings in the surface disc.
// Interior rings give the ripple something to displace.
const DefaultSurfaceRings = 8

// Surface is the flat top disc of the liquid. Its mesh is rebuilt whenever
// the fill height moves because the vessel taper changes its radius.
type Surface struct {
	Mesh   *mesh.Mesh
	Y      float32
	Radius float32

	// radial holds each vertex's distance from the centre as a fraction of
	// Radius, parallel to Mesh.Vertices.
	radial []float32
}

// BuildSurface builds a disc of the given radius at height y, centred on the
// vessel axis, with rings concentric rings of radialSegments vertices.
func BuildSurface(radius, y float32, radialSegments, rings int) *Surface {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if rings < 1 {
		rings = 1
	}
	if radius < 0 {
		radius = 0
	}

	up := [3]float32{0, 1, 0}
	s := &Surface{Mesh: &mesh.Mesh{}, Y: y, Radius: radius}
	m := s.Mesh

	m.Vertices = append(m.Vertices, mesh.Vertex{Position: [3]float32{0, y, 0}, Normal: up})
	s.radial = append(s.radial, 0)
	for k := 1; k <= rings; k++ {
		f := float32(k) / float32(rings)
		for j := 0; j < radialSegments; j++ {
			a := 2 * math.Pi * float32(j) / float32(radialSegments)
			m.Vertices = append(m.Vertices, mesh.Vertex{
				Position: [3]float32{radius * f * math.Cos(a), y, radius * f * math.Sin(a)},
				Normal:   up,
			})
			s.radial = append(s.radial, f)
		}
	}

	// Centre fan
	for j := 0; j < radialSegments; j++ {
		m.Indices = append(m.Indices, 0, uint32(1+(j+1)%radialSegments), uint32(1+j))
	}
	// Ring quads
	for k := 1; k < rings; k++ {
		inner := uint32(1 + (k-1)*radialSegments)
		outer := inner + uint32(radialSegments)
		for j := 0; j < radialSegments; j++ {
			jn := uint32((j + 1) % radialSegments)
			a, b := inner+uint32(j), inner+jn
			c, d := outer+uint32(j), outer+jn
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}

	m.RecomputeBounds()
	return s
}

// Displace offsets every vertex vertically from the disc height. fn receives
// the vertex x, z and its radial fraction in [0,1].
func (s *Surface) Displace(fn func(x, z, radial float32) float32) {
	for i := range s.Mesh.Vertices {
		p := &s.Mesh.Vertices[i].Position
		p[1] = s.Y + fn(p[0], p[2], s.radial[i])
	}
}

// VertexCount returns the number of disc vertices.
func (s *Surface) VertexCount() int {
	return len(s.Mesh.Vertices)
}
