package raster

import (
	gomath "math"

	"github.com/Faultbox/pourglass/pkg/math"
)

// vertex is a projected vertex: screen x/y in pixels, view depth, and the
// world position used for clip tests.
type vertex struct {
	sx, sy, sz float64
	world      math.Vec3
}

// clipTest keeps pixels where normal·p + constant >= 0.
type clipTest struct {
	normal   math.Vec3
	constant float32
	ok       bool
}

func (c clipTest) keeps(p math.Vec3) bool {
	return !c.ok || c.normal.Dot(p)+c.constant >= 0
}

// fragment is the flat-shaded colour of one triangle in linear space.
type fragment struct {
	r, g, b, a float64
	depthWrite bool
}

// rasterize fills one triangle. Opaque fragments write depth; translucent
// ones only test it and blend over what is there.
func rasterize(fb *FrameBuffer, v [3]vertex, f fragment, clip clipTest) {
	x0, y0, z0 := v[0].sx, v[0].sy, v[0].sz
	x1, y1, z1 := v[1].sx, v[1].sy, v[1].sz
	x2, y2, z2 := v[2].sx, v[2].sy, v[2].sz

	minX := int(gomath.Floor(gomath.Min(gomath.Min(x0, x1), x2)))
	maxX := int(gomath.Ceil(gomath.Max(gomath.Max(x0, x1), x2)))
	minY := int(gomath.Floor(gomath.Min(gomath.Min(y0, y1), y2)))
	maxY := int(gomath.Ceil(gomath.Max(gomath.Max(y0, y1), y2)))
	if minX < 0 {
		minX = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > fb.Height-1 {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-9 && det < 1e-9 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			i := rowOff + sx
			z := w0*z0 + w1*z1 + w2*z2
			if z <= fb.ZBuf[i] {
				continue
			}

			if clip.ok {
				p := v[0].world.Scale(float32(w0)).
					Add(v[1].world.Scale(float32(w1))).
					Add(v[2].world.Scale(float32(w2)))
				if !clip.keeps(p) {
					continue
				}
			}

			if f.depthWrite {
				fb.ZBuf[i] = z
			}
			fb.blend(i, f.r, f.g, f.b, f.a)
		}
	}
}
