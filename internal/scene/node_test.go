package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/pkg/math"
)

func TestWorldComposesAncestors(t *testing.T) {
	root := New("root")
	group := New("group")
	group.Position = math.Vec3{X: 2}
	leaf := New("leaf")
	leaf.Position = math.Vec3{Y: 1}
	root.Add(group)
	group.Add(leaf)

	p := leaf.World().TransformPoint(math.Vec3{})
	assert.InDelta(t, 2, p.X, 1e-6)
	assert.InDelta(t, 1, p.Y, 1e-6)

	group.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	p = leaf.World().TransformPoint(math.Vec3{})
	assert.InDelta(t, 2, p.Y, 1e-6)
}

func TestAddReparents(t *testing.T) {
	a, b, c := New("a"), New("b"), New("c")
	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children)
	assert.Same(t, b, c.Parent())

	c.Detach()
	assert.Nil(t, c.Parent())
	assert.False(t, b.Remove(c))
}

func TestWalkVisibleSkipsHiddenSubtrees(t *testing.T) {
	root := New("root")
	shown := New("shown")
	hidden := New("hidden")
	hidden.Visible = false
	hidden.Add(New("under-hidden"))
	root.Add(shown)
	root.Add(hidden)

	var names []string
	root.WalkVisible(func(n *Node, _ math.Mat4) { names = append(names, n.Name) })
	assert.Equal(t, []string{"root", "shown"}, names)

	require.NotNil(t, root.Find("under-hidden"))
	assert.Nil(t, root.Find("nope"))
}

func TestWorldClipFollowsParent(t *testing.T) {
	reg := liquid.NewClipRegistry()
	clip := reg.Register("glass", 1.5)

	group := New("group")
	group.Position = math.Vec3{X: 3, Y: 2}
	liq := New("liquid")
	liq.Clip = clip
	group.Add(liq)

	n, c, ok := liq.WorldClip()
	require.True(t, ok)
	assert.InDelta(t, -1, n.Y, 1e-6)
	assert.InDelta(t, 3.5, c, 1e-5)

	// Points below the moved fill line survive.
	keep := n.Dot(math.Vec3{X: 3, Y: 3.4}) + c
	drop := n.Dot(math.Vec3{X: 3, Y: 3.6}) + c
	assert.Greater(t, keep, float32(0))
	assert.Less(t, drop, float32(0))

	_, _, ok = group.WorldClip()
	assert.False(t, ok)
}

func TestVisibleBoundsSkipsHidden(t *testing.T) {
	root := New("root")
	_, ok := root.VisibleBounds()
	assert.False(t, ok)

	box := NewMesh("box", mesh.Box(math.Vec3{X: 2, Y: 2, Z: 2}), [4]float32{1, 1, 1, 1}, MaterialOpaque)
	box.Position = math.Vec3{Y: 3}
	root.Add(box)
	far := NewMesh("far", mesh.Box(math.Vec3{X: 1, Y: 1, Z: 1}), [4]float32{1, 1, 1, 1}, MaterialOpaque)
	far.Position = math.Vec3{X: 50}
	far.Visible = false
	root.Add(far)

	b, ok := root.VisibleBounds()
	require.True(t, ok)
	assert.InDelta(t, 2, b.Min.Y, 1e-6)
	assert.InDelta(t, 4, b.Max.Y, 1e-6)
	assert.InDelta(t, 1, b.Max.X, 1e-6)
}
