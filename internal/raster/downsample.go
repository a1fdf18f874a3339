package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales a premultiplied image to w x h with CatmullRom.
// Filtering premultiplied colour keeps translucent edges from darkening.
func Downsample(img *image.RGBA, w, h int) *image.RGBA {
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
