package raster

import (
	gomath "math"

	"github.com/Faultbox/pourglass/pkg/math"
)

// LightConfig holds the flat-shading parameters.
type LightConfig struct {
	LightDir math.Vec3
	RimDir   math.Vec3
	HalfMain math.Vec3
	Ambient  float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
}

// DefaultLightConfig returns a key light from the upper right and a cool
// rim light from behind.
func DefaultLightConfig() LightConfig {
	light := math.Vec3{X: 0.5, Y: 0.8, Z: 0.6}.Normalize()
	view := math.Vec3{Z: 1}
	return LightConfig{
		LightDir: light,
		RimDir:   math.Vec3{X: -0.6, Y: 0.4, Z: -0.7}.Normalize(),
		HalfMain: light.Add(view).Normalize(),
		Ambient:  0.35,
		Direct:   0.65,
		Rim:      0.25,
		SpecInt:  0.35,
		SpecPow:  24,
	}
}

// Shade returns the lighting scalar and specular term for a face normal.
// Faces are lit from both sides.
func (lc *LightConfig) Shade(n math.Vec3) (shade, spec float64) {
	ndl := gomath.Abs(float64(n.Dot(lc.LightDir)))
	ndr := gomath.Abs(float64(n.Dot(lc.RimDir)))
	ndh := gomath.Abs(float64(n.Dot(lc.HalfMain)))
	return lc.Ambient + ndl*lc.Direct + ndr*lc.Rim, gomath.Pow(ndh, lc.SpecPow) * lc.SpecInt
}
