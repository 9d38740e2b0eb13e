package lumen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds engine settings loadable from YAML. Zero-value fields fall
// back to the defaults, so a partial file only overrides what it names.
type Config struct {
	// MaxLights is the fixed per-kind capacity allocated at startup.
	MaxLights int `yaml:"max_lights"`

	Frustum FrustumConfig `yaml:"frustum"`

	// LODBias scales every light's LOD distance; 1.0 is neutral.
	LODBias float32 `yaml:"lod_bias"`

	// ScalarUpdates forces the one-at-a-time point path.
	ScalarUpdates bool `yaml:"scalar_updates"`

	Logging LoggingConfig `yaml:"logging"`
}

type FrustumConfig struct {
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultConfig mirrors the engine's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxLights: 4096,
		Frustum:   FrustumConfig{Near: 0.1, Far: 1000},
		LODBias:   1,
		Logging:   LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing path returns
// plain defaults rather than an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.MaxLights <= 0 {
		return nil, fmt.Errorf("config %s: max_lights must be positive, got %d", path, cfg.MaxLights)
	}
	return cfg, nil
}

// NewEngineFromConfig wires up a logger and an engine from one config.
func NewEngineFromConfig(cfg *Config) (*Engine, error) {
	log, err := NewLogger(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	opts := []Option{WithLogger(log)}
	if cfg.ScalarUpdates {
		opts = append(opts, WithScalarUpdates())
	}

	e, err := NewEngine(cfg.MaxLights, opts...)
	if err != nil {
		return nil, err
	}
	e.SetViewFrustum(cfg.Frustum.Near, cfg.Frustum.Far)
	if cfg.LODBias > 0 {
		e.SetLODBias(cfg.LODBias)
	}
	return e, nil
}
