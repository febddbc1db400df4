// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// Output is the directory layer files are written to.
	Output string `yaml:"output,omitempty"`
	// Minify compacts exported GeoJSON files.
	Minify bool `yaml:"minify,omitempty"`

	API    API     `yaml:"api"`
	Venues []Venue `yaml:"venues"`
}

// API holds Mappedin REST API access settings.
type API struct {
	URL    string `yaml:"url,omitempty"`
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`
}

// Venue selects one venue to fetch and import.
type Venue struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"` // optional label, venue manifest name used when empty
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Output == "" {
		cfg.Output = "layers"
	}

	for i, v := range cfg.Venues {
		if v.ID == "" {
			return nil, fmt.Errorf("venue %d: id is required", i)
		}
	}

	return &cfg, nil
}
