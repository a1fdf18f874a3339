// Package renderer draws the simulation's scene tree with OpenGL.
package renderer

import (
	"fmt"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/engine/shader"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/raster"
	"github.com/Faultbox/pourglass/internal/scene"
	"github.com/Faultbox/pourglass/pkg/math"
)

// vertexStride is the byte size of one interleaved position+normal vertex.
const vertexStride = 6 * 4

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [4]float32
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	used          bool
}

type drawItem struct {
	node  *scene.Node
	world math.Mat4
	depth float32 // view-space distance, for back-to-front glass
}

// Renderer draws scene nodes. Meshes are uploaded on first use and freed
// once a frame passes without drawing them.
type Renderer struct {
	config Config

	prog *shader.Program

	meshes map[*mesh.Mesh]*gpuMesh
	lines  gpuMesh

	Light      raster.LightConfig
	ShowBounds bool

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*mesh.Mesh]*gpuMesh),
		Light:  raster.DefaultLightConfig(),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CLIP_DISTANCE0)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])

	var err error
	r.prog, err = shader.New(vertexShader, fragmentShader,
		"uMVP", "uModelView", "uClip", "uColor", "uFlat",
		"uLightDir", "uRimDir", "uHalf", "uLightTerms",
	)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.lines.vao)
	gl.GenBuffers(1, &r.lines.vbo)
	gl.BindVertexArray(r.lines.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lines.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for m, g := range r.meshes {
		r.free(g)
		delete(r.meshes, m)
	}
	r.free(&r.lines)
	if r.prog != nil {
		r.prog.Delete()
	}
}

// Resize handles window resize. Sizes are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns the viewport width over height.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Render clears the frame and draws root: opaque nodes first, then liquid,
// then glass back to front without depth writes.
func (r *Renderer) Render(root *scene.Node, view, proj math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.prog.Use()
	r.setLight()

	var opaque, liquid, glass []drawItem
	root.WalkVisible(func(n *scene.Node, world math.Mat4) {
		if n.Mesh.Empty() {
			return
		}
		it := drawItem{node: n, world: world}
		switch n.Material {
		case scene.MaterialGlass:
			it.depth = view.Mul(world).TransformPoint(math.Vec3{}).Z
			glass = append(glass, it)
		case scene.MaterialLiquid:
			liquid = append(liquid, it)
		default:
			opaque = append(opaque, it)
		}
	})
	// View space looks down -Z, so the farthest has the smallest Z.
	sort.SliceStable(glass, func(i, j int) bool { return glass[i].depth < glass[j].depth })

	for _, g := range r.meshes {
		g.used = false
	}

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, it := range opaque {
		r.draw(it, view, proj)
	}

	gl.Enable(gl.BLEND)
	for _, it := range liquid {
		r.draw(it, view, proj)
	}

	gl.DepthMask(false)
	for _, it := range glass {
		r.draw(it, view, proj)
	}
	gl.DepthMask(true)

	if r.ShowBounds {
		if box, ok := root.VisibleBounds(); ok {
			r.drawLines(BoundsLines(box, 0.05), [4]float32{0.9, 0.8, 0.2, 1}, view, proj)
		}
	}
	gl.BindVertexArray(0)

	for m, g := range r.meshes {
		if !g.used {
			r.free(g)
			delete(r.meshes, m)
		}
	}
}

func (r *Renderer) setLight() {
	l := r.Light
	gl.Uniform3f(r.prog.Uniform("uLightDir"), l.LightDir.X, l.LightDir.Y, l.LightDir.Z)
	gl.Uniform3f(r.prog.Uniform("uRimDir"), l.RimDir.X, l.RimDir.Y, l.RimDir.Z)
	gl.Uniform3f(r.prog.Uniform("uHalf"), l.HalfMain.X, l.HalfMain.Y, l.HalfMain.Z)
	gl.Uniform4f(r.prog.Uniform("uLightTerms"),
		float32(l.Ambient), float32(l.Direct), float32(l.Rim), float32(l.SpecPow))
}

func (r *Renderer) draw(it drawItem, view, proj math.Mat4) {
	n := it.node
	g := r.upload(n.Mesh, n.Dynamic)

	modelView := view.Mul(it.world)
	mvp := proj.Mul(modelView)
	gl.UniformMatrix4fv(r.prog.Uniform("uMVP"), 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.prog.Uniform("uModelView"), 1, false, &modelView[0])

	clip := [4]float32{0, 0, 0, 1}
	if normal, constant, ok := n.WorldClip(); ok {
		// The shader clips in view space.
		vn := view.TransformDirection(normal)
		vp := view.TransformPoint(normal.Scale(-constant))
		clip = [4]float32{vn.X, vn.Y, vn.Z, -vn.Dot(vp)}
	}
	gl.Uniform4f(r.prog.Uniform("uClip"), clip[0], clip[1], clip[2], clip[3])

	c := n.Color
	if n.Material == scene.MaterialOpaque || c[3] <= 0 {
		c[3] = 1
	}
	gl.Uniform4f(r.prog.Uniform("uColor"), c[0], c[1], c[2], c[3])
	gl.Uniform1f(r.prog.Uniform("uFlat"), 0)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
}

func (r *Renderer) upload(m *mesh.Mesh, dynamic bool) *gpuMesh {
	g, ok := r.meshes[m]
	if ok {
		if dynamic {
			data := m.Interleaved()
			gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
		}
		g.used = true
		return g
	}

	g = &gpuMesh{indexCount: int32(len(m.Indices)), used: true}
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	data := m.Interleaved()

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	r.meshes[m] = g
	return g
}

func (r *Renderer) drawLines(verts []float32, color [4]float32, view, proj math.Mat4) {
	if len(verts) == 0 {
		return
	}
	mvp := proj.Mul(view)
	ident := math.Identity()
	gl.UniformMatrix4fv(r.prog.Uniform("uMVP"), 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.prog.Uniform("uModelView"), 1, false, &ident[0])
	gl.Uniform4f(r.prog.Uniform("uClip"), 0, 0, 0, 1)
	gl.Uniform4f(r.prog.Uniform("uColor"), color[0], color[1], color[2], color[3])
	gl.Uniform1f(r.prog.Uniform("uFlat"), 1)

	gl.BindVertexArray(r.lines.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lines.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/3))
}

func (r *Renderer) free(g *gpuMesh) {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	*g = gpuMesh{}
}

