package mesh

import "github.com/Faultbox/pourglass/pkg/math"

// Box builds an axis-aligned box centred on the origin with per-face normals.
func Box(size math.Vec3) *Mesh {
	h := size.Scale(0.5)
	faces := []struct {
		n       math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{X: 1}, [4]math.Vec3{{h.X, -h.Y, -h.Z}, {h.X, h.Y, -h.Z}, {h.X, h.Y, h.Z}, {h.X, -h.Y, h.Z}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{-h.X, -h.Y, h.Z}, {-h.X, h.Y, h.Z}, {-h.X, h.Y, -h.Z}, {-h.X, -h.Y, -h.Z}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{-h.X, h.Y, -h.Z}, {-h.X, h.Y, h.Z}, {h.X, h.Y, h.Z}, {h.X, h.Y, -h.Z}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{-h.X, -h.Y, h.Z}, {-h.X, -h.Y, -h.Z}, {h.X, -h.Y, -h.Z}, {h.X, -h.Y, h.Z}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{{-h.X, -h.Y, h.Z}, {h.X, -h.Y, h.Z}, {h.X, h.Y, h.Z}, {-h.X, h.Y, h.Z}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{h.X, -h.Y, -h.Z}, {-h.X, -h.Y, -h.Z}, {-h.X, h.Y, -h.Z}, {h.X, h.Y, -h.Z}}},
	}

	m := &Mesh{}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c.Array(), Normal: f.n.Array()})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	m.RecomputeBounds()
	return m
}

// Sphere builds a UV sphere centred on the origin.
func Sphere(radius float32, slices, stacks int) *Mesh {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}

	m := &Mesh{}
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float32(i) / float32(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float32(j) / float32(slices)
			n := math.Vec3{
				X: math.Sin(phi) * math.Cos(theta),
				Y: math.Cos(phi),
				Z: math.Sin(phi) * math.Sin(theta),
			}
			m.Vertices = append(m.Vertices, Vertex{Position: n.Scale(radius).Array(), Normal: n.Array()})
		}
	}
	gridIndices(m, stacks, slices)
	m.RecomputeBounds()
	return m
}

// Wheel builds a short capped cylinder lying in the XY plane, used for
// citrus wheels and similar flat garnish.
func Wheel(radius, thickness float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{}
	h := thickness / 2

	ring := func(z, nz float32) uint32 {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, 0, z}, Normal: [3]float32{0, 0, nz}})
		for j := 0; j < segments; j++ {
			a := 2 * math.Pi * float32(j) / float32(segments)
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{radius * math.Cos(a), radius * math.Sin(a), z},
				Normal:   [3]float32{0, 0, nz},
			})
		}
		return base
	}

	front := ring(h, 1)
	back := ring(-h, -1)
	for j := 0; j < segments; j++ {
		k := (j+1)%segments + 1
		m.Indices = append(m.Indices, front, front+uint32(j+1), front+uint32(k))
		m.Indices = append(m.Indices, back, back+uint32(k), back+uint32(j+1))
	}

	// Rind
	base := uint32(len(m.Vertices))
	for j := 0; j <= segments; j++ {
		a := 2 * math.Pi * float32(j) / float32(segments)
		n := [3]float32{math.Cos(a), math.Sin(a), 0}
		m.Vertices = append(m.Vertices,
			Vertex{Position: [3]float32{radius * n[0], radius * n[1], h}, Normal: n},
			Vertex{Position: [3]float32{radius * n[0], radius * n[1], -h}, Normal: n},
		)
	}
	for j := 0; j < segments; j++ {
		a := base + uint32(2*j)
		m.Indices = append(m.Indices, a, a+1, a+3, a, a+3, a+2)
	}

	m.RecomputeBounds()
	return m
}

// gridIndices stitches a (rows+1) x (cols+1) vertex grid into triangles.
func gridIndices(m *Mesh, rows, cols int) {
	stride := uint32(cols + 1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
}

// Torus builds a ring lying in the XZ plane, used for rim garnish such as
// salt or sugar.
func Torus(radius, tube float32, segments, sides int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if sides < 3 {
		sides = 3
	}

	m := &Mesh{}
	for i := 0; i <= segments; i++ {
		u := 2 * math.Pi * float32(i) / float32(segments)
		center := math.Vec3{X: radius * math.Cos(u), Z: radius * math.Sin(u)}
		out := math.Vec3{X: math.Cos(u), Z: math.Sin(u)}
		for j := 0; j <= sides; j++ {
			v := 2 * math.Pi * float32(j) / float32(sides)
			n := out.Scale(math.Cos(v)).Add(math.Vec3{Y: math.Sin(v)})
			m.Vertices = append(m.Vertices, Vertex{
				Position: center.Add(n.Scale(tube)).Array(),
				Normal:   n.Array(),
			})
		}
	}
	gridIndices(m, segments, sides)
	m.RecomputeBounds()
	return m
}
