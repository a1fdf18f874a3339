package renderer

import (
	"github.com/Faultbox/pourglass/internal/engine/picking"
)

// BoundsVertexCount is the number of vertices in a box wireframe (12 edges × 2).
const BoundsVertexCount = 24

// BoundsLines returns line-list vertices for the edges of box grown by
// padding on every side, as x,y,z per vertex.
func BoundsLines(box picking.AABB, padding float32) []float32 {
	minX, minY, minZ := box.Min.X-padding, box.Min.Y-padding, box.Min.Z-padding
	maxX, maxY, maxZ := box.Max.X+padding, box.Max.Y+padding, box.Max.Z+padding
	if minX > maxX || minY > maxY || minZ > maxZ {
		return nil
	}
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Verticals
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
