// Package config handles simulation and host configuration loading.
package config

import "time"

// Decay modes for fill relaxation.
const (
	DecayTimeCorrect = "time"
	DecayPerTick     = "tick"
)

// Config holds all settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Light      LightConfig      `yaml:"light"`
	Audio      AudioConfig      `yaml:"audio"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds fill, choreography and idle-motion tuning.
type SimulationConfig struct {
	LerpRate     float32 `yaml:"lerp_rate"`
	Epsilon      float32 `yaml:"epsilon"`
	DecayMode    string  `yaml:"decay_mode"` // "time" or "tick"
	ReferenceFPS float32 `yaml:"reference_fps"`

	ProfileSamples int     `yaml:"profile_samples"`
	RingSegments   int     `yaml:"ring_segments"`
	RadialSegments int     `yaml:"radial_segments"`
	SafetyFactor   float32 `yaml:"safety_factor"`

	// RippleAmplitude is a fraction of vessel height.
	RippleAmplitude float32 `yaml:"ripple_amplitude"`

	Stagger       time.Duration `yaml:"stagger"`
	HiddenHeight  float32       `yaml:"hidden_height"` // above the attachment point
	IceFall       time.Duration `yaml:"ice_fall"`
	IceDip        float32       `yaml:"ice_dip"` // overshoot depth below rest
	GarnishFall   time.Duration `yaml:"garnish_fall"`
	SwapOut       time.Duration `yaml:"swap_out"`
	SwapIn        time.Duration `yaml:"swap_in"`
	SwapDistance  float32       `yaml:"swap_distance"`
	DropHeight    float32       `yaml:"drop_height"`
	BobAmplitude  float32       `yaml:"bob_amplitude"` // fraction of vessel scale
	BobPeriod     time.Duration `yaml:"bob_period"`
	BobPhaseSteps int           `yaml:"bob_phase_steps"`
}

// ViewerConfig holds display settings for the interactive viewer.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// SnapshotConfig holds headless rendering settings.
type SnapshotConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Supersample int     `yaml:"supersample"`
	Frames      int     `yaml:"frames"`
	Every       int     `yaml:"every"` // write one frame per this many ticks
	FPS         float32 `yaml:"fps"`
	OutputDir   string  `yaml:"output_dir"`
	Animate     bool    `yaml:"animate"` // also write one animated WebP per run
}

// LightConfig places the key light, in degrees. Zero keeps the built-in
// key light.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
}

// AudioConfig holds cue playback settings.
type AudioConfig struct {
	Volume float32 `yaml:"volume"`
	Muted  bool    `yaml:"muted"`
	CueDir string  `yaml:"cue_dir"` // optional <cue>.wav overrides
}

// DataConfig holds data file paths.
type DataConfig struct {
	Catalog string   `yaml:"catalog"` // empty uses the built-in catalog
	Recipes []string `yaml:"recipes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			LerpRate:        0.04,
			Epsilon:         0.001,
			DecayMode:       DecayTimeCorrect,
			ReferenceFPS:    60,
			ProfileSamples:  21,
			RingSegments:    48,
			RadialSegments:  48,
			SafetyFactor:    0.98,
			RippleAmplitude: 0.01,
			Stagger:         150 * time.Millisecond,
			HiddenHeight:    3,
			IceFall:         700 * time.Millisecond,
			IceDip:          0.15,
			GarnishFall:     600 * time.Millisecond,
			SwapOut:         500 * time.Millisecond,
			SwapIn:          800 * time.Millisecond,
			SwapDistance:    8,
			DropHeight:      5,
			BobAmplitude:    0.015,
			BobPeriod:       3 * time.Second,
			BobPhaseSteps:   5,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Snapshot: SnapshotConfig{
			Width:       512,
			Height:      512,
			Supersample: 2,
			Frames:      240,
			Every:       30,
			FPS:         60,
			OutputDir:   "frames",
		},
		Audio: AudioConfig{
			Volume: 0.6,
			Muted:  false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
