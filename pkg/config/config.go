// Package config loads the shared pipeline configuration file.
//
// Every stage invocation reads the same YAML file fresh and interprets only
// the keys it needs; the loaded value is immutable for that invocation.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Data holds dataset input/output locations.
type Data struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`
}

// Model holds the training configuration.
type Model struct {
	Algorithm   string             `yaml:"algorithm"`
	Parameters  map[string]float64 `yaml:"parameters"`
	TestSize    float64            `yaml:"test_size"`
	RandomState int64              `yaml:"random_state"`
}

// Config is the full pipeline configuration.
type Config struct {
	Data  Data  `yaml:"data"`
	Model Model `yaml:"model"`
}

// Load reads and parses the YAML configuration at path, applying defaults
// for absent keys.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.InputPath == "" {
		c.Data.InputPath = "./data/sample_data.csv"
	}
	if c.Data.OutputPath == "" {
		c.Data.OutputPath = "./outputs"
	}
	if c.Model.Algorithm == "" {
		c.Model.Algorithm = "random_forest"
	}
	if c.Model.TestSize == 0 {
		c.Model.TestSize = 0.2
	}
	if c.Model.RandomState == 0 {
		c.Model.RandomState = 42
	}
	if c.Model.Parameters == nil {
		c.Model.Parameters = map[string]float64{}
	}
}
