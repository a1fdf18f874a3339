package lighting

import (
	"testing"

	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/raster"
	"github.com/Faultbox/pourglass/pkg/math"
)

func near(a, b math.Vec3) bool {
	const eps = 1e-5
	d := a.Sub(b)
	return math.Abs(d.X) < eps && math.Abs(d.Y) < eps && math.Abs(d.Z) < eps
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name          string
		azimuth, elev float32
		want          math.Vec3
	}{
		{"front horizon", 0, 0, math.Vec3{Z: 1}},
		{"right horizon", 90, 0, math.Vec3{X: 1}},
		{"zenith", 0, 90, math.Vec3{Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SunDirection(tt.azimuth, tt.elev); !near(got, tt.want) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elev, got, tt.want)
			}
		})
	}
}

func TestKeyDefaultsWhenUnset(t *testing.T) {
	got := Key(config.LightConfig{})
	if want := raster.DefaultLightConfig(); !near(got.LightDir, want.LightDir) {
		t.Errorf("LightDir = %v, want default %v", got.LightDir, want.LightDir)
	}
}

func TestKeyFollowsSun(t *testing.T) {
	got := Key(config.LightConfig{Azimuth: 0, Elevation: 90})
	if !near(got.LightDir, math.Vec3{Y: 1}) {
		t.Errorf("LightDir = %v, want straight up", got.LightDir)
	}
	if l := got.HalfMain.Length(); math.Abs(l-1) > 1e-5 {
		t.Errorf("HalfMain length = %v, want 1", l)
	}
}
