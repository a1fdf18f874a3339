// Package lighting turns configured sun angles into shading parameters.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/raster"
	"github.com/Faultbox/pourglass/pkg/math"
)

// SunDirection converts angles in degrees to a unit vector pointing at the
// sun. Azimuth rotates around Y starting from +Z, elevation is measured up
// from the horizon.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * gomath.Pi / 180
	el := float64(elevation) * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// Key returns the default shading with its key light moved to the sun.
// A zero config keeps the default key light.
func Key(cfg config.LightConfig) raster.LightConfig {
	lc := raster.DefaultLightConfig()
	if cfg.Azimuth == 0 && cfg.Elevation == 0 {
		return lc
	}
	lc.LightDir = SunDirection(cfg.Azimuth, cfg.Elevation)
	lc.HalfMain = lc.LightDir.Add(math.Vec3{Z: 1}).Normalize()
	return lc
}
