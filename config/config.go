// Package config loads the launcher's yaml configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the host configuration. A missing file yields the defaults.
type Config struct {
	// LegacyFile is the flat-file catalog to import and watch.
	LegacyFile string `yaml:"legacy_file"`
	// Trusted permits verbs that run arbitrary external scripts.
	Trusted bool `yaml:"trusted"`
	// TopN caps how many search results are shown.
	TopN int `yaml:"top_n"`
	// Hotkeys maps action names to trigger chords. The chord "off"
	// disables a binding without removing it.
	Hotkeys map[string]string `yaml:"hotkeys"`
}

func Default() Config {
	return Config{
		TopN: 10,
		Hotkeys: map[string]string{
			"launcher.show": "ctrl+space",
		},
	}
}

// DefaultPath is ~/.launchbox/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".launchbox", "config.yaml"), nil
}

// Load reads the config at path, applying defaults for anything unset.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.TopN <= 0 {
		cfg.TopN = Default().TopN
	}
	return cfg, nil
}
