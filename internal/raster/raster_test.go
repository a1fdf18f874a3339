package raster

import (
	"image"
	"os"
	"testing"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/internal/scene"
	"github.com/Faultbox/pourglass/pkg/math"
)

func flatRenderer(size int) *Renderer {
	r := NewRenderer(size, size, 1)
	r.Pitch = 0
	r.Background = [4]float32{0, 0, 0, 1}
	r.Frame(math.Vec3{}, 4)
	return r
}

func lit(img *image.NRGBA, x, y int) bool {
	c := img.NRGBAAt(x, y)
	return c.R > 10 || c.G > 10 || c.B > 10
}

func TestRenderOpaqueBox(t *testing.T) {
	root := scene.New("root")
	root.Add(scene.NewMesh("box", mesh.Box(math.Vec3{X: 2, Y: 2, Z: 2}), [4]float32{1, 0, 0, 1}, scene.MaterialOpaque))

	img := flatRenderer(64).Render(root)
	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	assert.True(t, lit(img, 32, 32), "box centre")
	assert.False(t, lit(img, 4, 4), "corner is background")
	c := img.NRGBAAt(32, 32)
	assert.Greater(t, c.R, c.G)
}

func TestRenderHonoursClipPlane(t *testing.T) {
	root := scene.New("root")
	n := scene.NewMesh("liquid", mesh.Box(math.Vec3{X: 2, Y: 2, Z: 2}), [4]float32{0.9, 0.6, 0.1, 1}, scene.MaterialLiquid)
	clip := &liquid.ClipPlane{}
	clip.SetHeight(0)
	n.Clip = clip
	root.Add(n)

	r := flatRenderer(64)
	img := r.Render(root)
	assert.False(t, lit(img, 32, 20), "above the fill line is clipped")
	assert.True(t, lit(img, 32, 44), "below the fill line is drawn")

	// the plane is in the parent frame, so moving the parent moves the cut
	group := scene.New("group")
	root.Remove(n)
	group.Add(n)
	group.Position = math.Vec3{Y: 0.75}
	root.Add(group)
	img = r.Render(root)
	assert.True(t, lit(img, 32, 30), "cut moved up with the group")
}

func TestOpaqueOccludesBehind(t *testing.T) {
	root := scene.New("root")
	front := scene.NewMesh("front", mesh.Box(math.Vec3{X: 1, Y: 1, Z: 1}), [4]float32{0, 1, 0, 1}, scene.MaterialOpaque)
	front.Position = math.Vec3{Z: 2}
	back := scene.NewMesh("back", mesh.Box(math.Vec3{X: 3, Y: 3, Z: 1}), [4]float32{1, 0, 0, 1}, scene.MaterialOpaque)
	root.Add(front)
	root.Add(back)

	img := flatRenderer(64).Render(root)
	c := img.NRGBAAt(32, 32)
	assert.Greater(t, c.G, c.R, "front box wins the depth test")
}

func TestGlassBlendsOverContents(t *testing.T) {
	root := scene.New("root")
	root.Add(scene.NewMesh("inside", mesh.Box(math.Vec3{X: 1, Y: 1, Z: 1}), [4]float32{1, 0, 0, 1}, scene.MaterialOpaque))
	root.Add(scene.NewMesh("glass", mesh.Box(math.Vec3{X: 3, Y: 3, Z: 3}), [4]float32{0, 0, 1, 0.2}, scene.MaterialGlass))

	img := flatRenderer(64).Render(root)
	c := img.NRGBAAt(32, 32)
	assert.Greater(t, c.R, uint8(50), "contents show through glass")
	assert.Greater(t, c.B, uint8(0))
}

func TestFitFramesVisibleNodes(t *testing.T) {
	root := scene.New("root")
	n := scene.NewMesh("box", mesh.Box(math.Vec3{X: 2, Y: 6, Z: 2}), [4]float32{1, 1, 1, 1}, scene.MaterialOpaque)
	n.Position = math.Vec3{Y: 3}
	root.Add(n)
	hidden := scene.NewMesh("far", mesh.Box(math.Vec3{X: 1, Y: 1, Z: 1}), [4]float32{1, 1, 1, 1}, scene.MaterialOpaque)
	hidden.Position = math.Vec3{X: 100}
	hidden.Visible = false
	root.Add(hidden)

	r := NewRenderer(32, 32, 1)
	r.Fit(root, 0)
	assert.InDelta(t, 3, r.center.Y, 1e-5)
	assert.InDelta(t, 0, r.center.X, 1e-5)
	assert.InDelta(t, 6, r.span, 1e-5)
}

func TestSupersampleDownsamples(t *testing.T) {
	root := scene.New("root")
	root.Add(scene.NewMesh("box", mesh.Box(math.Vec3{X: 2, Y: 2, Z: 2}), [4]float32{1, 1, 1, 1}, scene.MaterialOpaque))

	r := NewRenderer(40, 30, 3)
	img := r.Render(root)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestPremultipliedRoundTrip(t *testing.T) {
	fb := NewFrameBuffer(2, 1, [4]float64{})
	fb.blend(0, 1, 0, 0, 0.5)

	pre := fb.Premultiplied()
	assert.Equal(t, uint8(128), pre.Pix[0])
	assert.Equal(t, uint8(128), pre.Pix[3])
	assert.Zero(t, pre.Pix[7], "untouched pixel stays transparent")

	c := Straight(pre).NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.Zero(t, c.G)
	assert.Equal(t, uint8(128), c.A)
}

func TestDownsampleKeepsTranslucentColour(t *testing.T) {
	fb := NewFrameBuffer(8, 8, [4]float64{})
	for i := 0; i < 64; i++ {
		fb.blend(i, 1, 1, 1, 0.5)
	}

	img := Straight(Downsample(fb.Premultiplied(), 4, 4))
	require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	c := img.NRGBAAt(1, 1)
	assert.InDelta(t, 255, int(c.R), 2, "no darkening at half alpha")
	assert.InDelta(t, 128, int(c.A), 2)
}

func TestCaptureWritesWebP(t *testing.T) {
	dir := t.TempDir()
	c := NewCapture(dir, "frame")

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	path, err := c.WriteFrame(img, 7)
	require.NoError(t, err)
	assert.Contains(t, path, "frame_0007.webp")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := nativewebp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	anim, err := c.WriteAnimation([]image.Image{img, img}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.FileExists(t, anim)

	_, err = c.WriteAnimation(nil, time.Millisecond)
	assert.Error(t, err)
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	c := NewCapture(t.TempDir(), "shot")
	_, err := c.CaptureFromPixels(make([]byte, 10), 2, 2)
	assert.Error(t, err)

	pixels := make([]byte, 2*2*4)
	pixels[0] = 255 // bottom-left red in GL order
	path, err := c.CaptureFromPixels(pixels, 2, 2)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
