// Package raster draws the scene subtree without a GPU: a z-buffered
// software rasteriser with per-pixel clip planes, supersampling and WebP
// output.
package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []float64 // premultiplied linear RGBA, len = W*H*4
	ZBuf   []float64 // depth per pixel, larger is closer
}

// NewFrameBuffer allocates a buffer cleared to bg.
func NewFrameBuffer(w, h int, bg [4]float64) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]float64, w*h*4),
		ZBuf:   make([]float64, w*h),
	}
	fb.Clear(bg)
	return fb
}

// Clear resets colour to bg and depth to -inf.
func (fb *FrameBuffer) Clear(bg [4]float64) {
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
		copy(fb.Color[i*4:i*4+4], bg[:])
	}
}

// blend composites a straight colour over the pixel at i with alpha a.
func (fb *FrameBuffer) blend(i int, r, g, b, a float64) {
	p := fb.Color[i*4 : i*4+4]
	p[0] = r*a + p[0]*(1-a)
	p[1] = g*a + p[1]*(1-a)
	p[2] = b*a + p[2]*(1-a)
	p[3] = a + p[3]*(1-a)
}

// Premultiplied encodes the buffer as sRGB with premultiplied alpha.
func (fb *FrameBuffer) Premultiplied() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i := 0; i < fb.Width*fb.Height; i++ {
		p := fb.Color[i*4 : i*4+4]
		a := p[3]
		if a <= 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			img.Pix[i*4+c] = clamp255(linearToSRGB(p[c]/a) * a * 255)
		}
		img.Pix[i*4+3] = clamp255(a * 255)
	}
	return img
}

// Straight converts a premultiplied image to straight alpha.
func Straight(img *image.RGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a > 0 {
			inv := 255 / float64(a)
			out.Pix[i] = clamp255(float64(img.Pix[i]) * inv)
			out.Pix[i+1] = clamp255(float64(img.Pix[i+1]) * inv)
			out.Pix[i+2] = clamp255(float64(img.Pix[i+2]) * inv)
		}
		out.Pix[i+3] = a
	}
	return out
}
