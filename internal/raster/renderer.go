package raster

import (
	"image"
	gomath "math"
	"sort"

	"github.com/Faultbox/pourglass/internal/scene"
	"github.com/Faultbox/pourglass/pkg/math"
)

// DefaultPitch tilts the view down so the liquid surface reads as an ellipse.
const DefaultPitch = 0.3

// Renderer draws a scene subtree with an orthographic camera looking along
// -Z, tilted down by Pitch.
type Renderer struct {
	Width       int
	Height      int
	Supersample int
	Pitch       float32
	Background  [4]float32
	Light       LightConfig

	center math.Vec3
	span   float32
	framed bool
}

// NewRenderer creates a renderer for w x h output images.
func NewRenderer(w, h, supersample int) *Renderer {
	if supersample < 1 {
		supersample = 1
	}
	return &Renderer{
		Width:       w,
		Height:      h,
		Supersample: supersample,
		Pitch:       DefaultPitch,
		Background:  [4]float32{0.09, 0.1, 0.12, 1},
		Light:       DefaultLightConfig(),
	}
}

// Frame fixes the view: center maps to the image centre and span world units
// fit the shorter image side.
func (r *Renderer) Frame(center math.Vec3, span float32) {
	if span < 1e-3 {
		span = 1e-3
	}
	r.center = center
	r.span = span
	r.framed = true
}

// Fit frames the visible bounds of root with a margin.
func (r *Renderer) Fit(root *scene.Node, margin float32) {
	b, ok := root.VisibleBounds()
	if !ok {
		r.Frame(math.Vec3{}, 1)
		return
	}
	size := b.Size()
	r.Frame(b.Center(), math.Max(size.X, size.Y)*(1+margin))
}

type drawItem struct {
	node  *scene.Node
	world math.Mat4
	order int
}

// Render draws root and returns the downsampled image.
func (r *Renderer) Render(root *scene.Node) *image.NRGBA {
	if !r.framed {
		r.Fit(root, 0.15)
	}

	w, h := r.Width*r.Supersample, r.Height*r.Supersample
	// The buffer holds premultiplied colour.
	ba := float64(r.Background[3])
	bg := [4]float64{
		srgbToLinear(r.Background[0]) * ba,
		srgbToLinear(r.Background[1]) * ba,
		srgbToLinear(r.Background[2]) * ba,
		ba,
	}
	fb := NewFrameBuffer(w, h, bg)

	// Opaque first with depth writes, then liquid, then glass over both.
	var items []drawItem
	root.WalkVisible(func(n *scene.Node, world math.Mat4) {
		if n.Mesh == nil || n.Mesh.Empty() {
			return
		}
		order := 0
		switch n.Material {
		case scene.MaterialLiquid:
			order = 1
		case scene.MaterialGlass:
			order = 2
		}
		items = append(items, drawItem{node: n, world: world, order: order})
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })

	view := math.QuatFromAxisAngle(math.Vec3{X: 1}, r.Pitch).ToMat4()
	scale := gomath.Min(float64(w), float64(h)) / float64(r.span)
	for _, it := range items {
		r.drawNode(fb, it, view, scale)
	}

	return Straight(Downsample(fb.Premultiplied(), r.Width, r.Height))
}

func (r *Renderer) drawNode(fb *FrameBuffer, it drawItem, view math.Mat4, scale float64) {
	n := it.node
	m := n.Mesh

	var clip clipTest
	clip.normal, clip.constant, clip.ok = n.WorldClip()

	verts := make([]vertex, len(m.Vertices))
	views := make([]math.Vec3, len(m.Vertices))
	for i, mv := range m.Vertices {
		wp := it.world.TransformPoint(math.FromArray(mv.Position))
		vp := view.TransformPoint(wp.Sub(r.center))
		views[i] = vp
		verts[i] = vertex{
			sx:    float64(fb.Width)/2 + float64(vp.X)*scale,
			sy:    float64(fb.Height)/2 - float64(vp.Y)*scale,
			sz:    float64(vp.Z),
			world: wp,
		}
	}

	base := [3]float64{
		srgbToLinear(n.Color[0]),
		srgbToLinear(n.Color[1]),
		srgbToLinear(n.Color[2]),
	}
	alpha := float64(n.Color[3])
	if n.Material == scene.MaterialOpaque || alpha <= 0 {
		alpha = 1
	}

	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		normal := views[b].Sub(views[a]).Cross(views[c].Sub(views[a]))
		if normal.Length() < 1e-9 {
			continue
		}
		shade, spec := r.Light.Shade(normal.Normalize())
		f := fragment{
			r:          base[0]*shade + spec,
			g:          base[1]*shade + spec,
			b:          base[2]*shade + spec,
			a:          alpha,
			depthWrite: n.Material != scene.MaterialGlass,
		}
		rasterize(fb, [3]vertex{verts[a], verts[b], verts[c]}, f, clip)
	}
}

func srgbToLinear(c float32) float64 {
	return gomath.Pow(float64(math.Clamp01(c)), 2.2)
}

func linearToSRGB(c float64) float64 {
	if c <= 0 {
		return 0
	}
	return gomath.Pow(c, 1/2.2)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
