package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserPath is where Save writes: pourglass.yaml in ConfigDir, one of the
// places Load searches.
func UserPath() string {
	return filepath.Join(ConfigDir(), "pourglass.yaml")
}

// Save writes the effective config to UserPath and returns that path.
func (c *Config) Save() (string, error) {
	path := UserPath()
	if err := c.SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTo writes the config as YAML to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
