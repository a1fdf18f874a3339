package math

import "github.com/chewxy/math32"

// Pi as float32.
const Pi = math32.Pi

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// InverseLerp returns where v lies between a and b, unclamped.
// Returns 0 when a == b.
func InverseLerp(a, b, v float32) float32 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// Min returns the smaller of a and b.
func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Abs returns |v|.
func Abs(v float32) float32 {
	return math32.Abs(v)
}

// Sin, Cos and Tan are float32 trig shortcuts.
func Sin(v float32) float32 { return math32.Sin(v) }
func Cos(v float32) float32 { return math32.Cos(v) }
func Tan(v float32) float32 { return math32.Tan(v) }

// Sqrt returns the square root.
func Sqrt(v float32) float32 {
	return math32.Sqrt(v)
}

// Pow returns x**y.
func Pow(x, y float32) float32 {
	return math32.Pow(x, y)
}
