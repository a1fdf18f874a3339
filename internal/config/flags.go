package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagCatalog    = flag.String("catalog", "", "Path to vessel catalog")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLerpRate   = flag.Float64("lerp-rate", 0, "Fill relaxation rate per reference frame")
	flagPerTick    = flag.Bool("per-tick", false, "Relax fill per tick instead of per elapsed time")
	flagMute       = flag.Bool("mute", false, "Disable audio cues")
	flagOut        = flag.String("out", "", "Snapshot output directory")
	flagFrames     = flag.Int("frames", 0, "Snapshot ticks per recipe")
	flagAnimate    = flag.Bool("animate", false, "Write an animated WebP of the snapshot run")
	flagAzimuth    = flag.Float64("sun-azimuth", 0, "Key light azimuth in degrees")
	flagElevation  = flag.Float64("sun-elevation", 0, "Key light elevation in degrees")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagCatalog != "" {
		cfg.Data.Catalog = *flagCatalog
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagLerpRate > 0 {
		cfg.Simulation.LerpRate = float32(*flagLerpRate)
	}
	if *flagPerTick {
		cfg.Simulation.DecayMode = DecayPerTick
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
	if *flagOut != "" {
		cfg.Snapshot.OutputDir = *flagOut
	}
	if *flagFrames > 0 {
		cfg.Snapshot.Frames = *flagFrames
	}
	if *flagAnimate {
		cfg.Snapshot.Animate = true
	}
	if *flagAzimuth != 0 || *flagElevation != 0 {
		cfg.Light.Azimuth = float32(*flagAzimuth)
		cfg.Light.Elevation = float32(*flagElevation)
	}
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}
