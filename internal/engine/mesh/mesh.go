// Package mesh holds indexed triangle meshes ready for GPU upload or
// software rasterization, plus builders for simple primitives.
package mesh

import (
	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Vertex is a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds indexed triangles and their bounding box.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   picking.AABB
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Empty reports whether the mesh has nothing to draw.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

// Triangle returns the i-th triangle's corner positions.
func (m *Mesh) Triangle(i int) (a, b, c math.Vec3) {
	a = math.FromArray(m.Vertices[m.Indices[3*i]].Position)
	b = math.FromArray(m.Vertices[m.Indices[3*i+1]].Position)
	c = math.FromArray(m.Vertices[m.Indices[3*i+2]].Position)
	return a, b, c
}

// RecomputeBounds refreshes the bounding box from vertex positions.
func (m *Mesh) RecomputeBounds() {
	m.Bounds = picking.EmptyAABB()
	for i := range m.Vertices {
		m.Bounds.Expand(math.FromArray(m.Vertices[i].Position))
	}
}

// Interleaved flattens positions and normals as x,y,z,nx,ny,nz per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*6)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return out
}

// FromTriangles builds a flat-shaded mesh from loose triangles, then smooths
// normals across shared positions. Degenerate triangles are dropped.
func FromTriangles(tris []picking.Triangle) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, len(tris)*3),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for _, tri := range tris {
		n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
		if n.Length() < 1e-7 {
			continue
		}
		normal := n.Normalize().Array()
		base := uint32(len(m.Vertices))
		for _, p := range [3]math.Vec3{tri.A, tri.B, tri.C} {
			m.Vertices = append(m.Vertices, Vertex{Position: p.Array(), Normal: normal})
		}
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	SmoothNormals(m.Vertices)
	m.RecomputeBounds()
	return m
}

// SmoothNormals averages normals at shared vertex positions.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(math.FromArray(vertices[idx].Normal))
		}
		avg := sum.Normalize()
		if avg == (math.Vec3{}) {
			continue // opposing faces cancel out, keep the flat normals
		}

		for _, idx := range idxs {
			vertices[idx].Normal = avg.Array()
		}
	}
}
