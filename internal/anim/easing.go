package anim

import (
	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/pourglass/pkg/math"
)

// Ease maps normalized time in [0,1] to progress. Progress starts at 0 and
// ends at 1 but may leave [0,1] in between.
type Ease func(t float32) float32

// Linear is the identity curve.
func Linear(t float32) float32 { return t }

// InQuad accelerates from rest.
func InQuad(t float32) float32 { return t * t }

// InCubic accelerates from rest, harder than InQuad.
func InCubic(t float32) float32 { return t * t * t }

// OutCubic decelerates to rest.
func OutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// OutBounce decelerates with three diminishing bounces at the end.
func OutBounce(t float32) float32 {
	const n, d = 7.5625, 2.75
	switch {
	case t < 1/d:
		return n * t * t
	case t < 2/d:
		t -= 1.5 / d
		return n*t*t + 0.75
	case t < 2.5/d:
		t -= 2.25 / d
		return n*t*t + 0.9375
	default:
		t -= 2.625 / d
		return n*t*t + 0.984375
	}
}

// dipSplit is the share of the curve spent falling past rest.
const dipSplit = 0.6

// DipRecoil falls with gravity-like acceleration past the endpoint by
// overshoot (as a fraction of the travel) and then springs back up to rest.
func DipRecoil(overshoot float32) Ease {
	if overshoot < 0 {
		overshoot = 0
	}
	return func(t float32) float32 {
		t = math.Clamp01(t)
		if t < dipSplit {
			return (1 + overshoot) * InQuad(t/dipSplit)
		}
		u := (t - dipSplit) / (1 - dipSplit)
		return 1 + overshoot - overshoot*recoil(u)
	}
}

// Spring recoil curve, sampled once from an underdamped harmonica spring
// moving from 0 to 1 and corrected so the last sample is exactly 1.
const recoilSamples = 64

var recoilLUT = buildRecoilLUT(recoilSamples, 9, 0.45)

func buildRecoilLUT(n int, frequency, damping float64) []float32 {
	spring := harmonica.NewSpring(harmonica.FPS(n), frequency, damping)
	lut := make([]float32, n)
	var pos, vel float64
	for i := 1; i < n; i++ {
		pos, vel = spring.Update(pos, vel, 1)
		lut[i] = float32(pos)
	}
	miss := 1 - lut[n-1]
	for i := range lut {
		lut[i] += miss * float32(i) / float32(n-1)
	}
	return lut
}

func recoil(u float32) float32 {
	u = math.Clamp01(u)
	f := u * float32(len(recoilLUT)-1)
	i := int(f)
	if i >= len(recoilLUT)-1 {
		return recoilLUT[len(recoilLUT)-1]
	}
	return math.Lerp(recoilLUT[i], recoilLUT[i+1], f-float32(i))
}
