// Package scene holds the renderable subtree the simulation exposes to host
// renderers: vessel groups with their glass, liquid, surface and inclusion
// nodes.
package scene

import (
	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Material selects how a renderer shades a node.
type Material uint8

const (
	MaterialOpaque Material = iota
	MaterialGlass
	MaterialLiquid
)

// Node is one element of the scene tree. Its transform is
// parent * Translate(Position) * Rotate(Rotation) * Scale(Scale).
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Visible  bool

	Mesh     *mesh.Mesh
	Color    [4]float32
	Material Material

	// Clip, when set, masks the node's mesh. The plane is expressed in the
	// parent's coordinates.
	Clip *liquid.ClipPlane

	// Dynamic marks meshes whose vertices change in place between frames.
	Dynamic bool

	Children []*Node
	parent   *Node
}

// New creates a visible node with an identity transform.
func New(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
		Color:    [4]float32{1, 1, 1, 1},
	}
}

// NewMesh creates a visible node drawing m.
func NewMesh(name string, m *mesh.Mesh, color [4]float32, mat Material) *Node {
	n := New(name)
	n.Mesh = m
	n.Color = color
	n.Material = mat
	return n
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	child.Detach()
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child and reports whether it was a child of n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Local returns the node's own transform.
func (n *Node) Local() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// World returns the node's transform composed with all ancestors.
func (n *Node) World() math.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return n.parent.World().Mul(n.Local())
}

// Find returns the first node named name in depth-first order.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first with their world matrices.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, world math.Mat4) bool) {
	var parentWorld math.Mat4
	if n.parent != nil {
		parentWorld = n.parent.World()
	} else {
		parentWorld = math.Identity()
	}
	n.walk(parentWorld, fn)
}

func (n *Node) walk(parentWorld math.Mat4, fn func(*Node, math.Mat4) bool) {
	world := parentWorld.Mul(n.Local())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		c.walk(world, fn)
	}
}

// WalkVisible is Walk restricted to visible subtrees.
func (n *Node) WalkVisible(fn func(node *Node, world math.Mat4)) {
	n.Walk(func(node *Node, world math.Mat4) bool {
		if !node.Visible {
			return false
		}
		fn(node, world)
		return true
	})
}

// WorldClip returns n's clip plane in world coordinates. ok is false when
// the node has no clip.
func (n *Node) WorldClip() (normal math.Vec3, constant float32, ok bool) {
	if n.Clip == nil {
		return math.Vec3{}, 0, false
	}
	frame := math.Identity()
	if n.parent != nil {
		frame = n.parent.World()
	}
	nrm := n.Clip.Normal.Normalize()
	onPlane := nrm.Scale(-n.Clip.Constant)
	normal = frame.TransformDirection(nrm).Normalize()
	constant = -normal.Dot(frame.TransformPoint(onPlane))
	return normal, constant, true
}

// VisibleBounds returns the world-space box around every visible mesh under
// n. ok is false when nothing is drawable.
func (n *Node) VisibleBounds() (box picking.AABB, ok bool) {
	box = picking.EmptyAABB()
	n.WalkVisible(func(node *Node, world math.Mat4) {
		if node.Mesh.Empty() {
			return
		}
		ok = true
		for _, c := range corners(node.Mesh.Bounds) {
			box.Expand(world.TransformPoint(c))
		}
	})
	return box, ok
}

func corners(b picking.AABB) [8]math.Vec3 {
	return [8]math.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}
