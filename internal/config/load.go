package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./pourglass.yaml",
		UserPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Pourglass")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Pourglass")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "pourglass")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "pourglass")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	s := &c.Simulation
	if s.LerpRate <= 0 || s.LerpRate > 1 {
		return fmt.Errorf("simulation.lerp_rate %v out of range (0,1]", s.LerpRate)
	}
	if s.Epsilon <= 0 {
		return fmt.Errorf("simulation.epsilon must be positive, got %v", s.Epsilon)
	}
	switch s.DecayMode {
	case DecayTimeCorrect, DecayPerTick:
	default:
		return fmt.Errorf("simulation.decay_mode %q: want %q or %q", s.DecayMode, DecayTimeCorrect, DecayPerTick)
	}
	if s.ProfileSamples < 2 {
		return fmt.Errorf("simulation.profile_samples must be at least 2, got %d", s.ProfileSamples)
	}
	if s.BobPeriod <= 0 {
		return fmt.Errorf("simulation.bob_period must be positive, got %v", s.BobPeriod)
	}
	return nil
}
