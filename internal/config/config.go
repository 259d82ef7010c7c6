package config

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the annotator's tunables. Values come from ANNOTATOR_* environment
// variables; in the browser the environment is empty and the defaults apply.
type Config struct {
	Width         int     `envconfig:"WIDTH" default:"640"`
	Height        int     `envconfig:"HEIGHT" default:"480"`
	ZoomInFactor  float64 `envconfig:"ZOOM_IN_FACTOR" default:"1.25"`
	ZoomOutFactor float64 `envconfig:"ZOOM_OUT_FACTOR" default:"0.8"`
	FitMargin     float64 `envconfig:"FIT_MARGIN" default:"0.9"`
	PickRadius    float64 `envconfig:"PICK_RADIUS" default:"8"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("annotator", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every field at its default value.
func Default() *Config {
	return &Config{
		Width:         640,
		Height:        480,
		ZoomInFactor:  1.25,
		ZoomOutFactor: 0.8,
		FitMargin:     0.9,
		PickRadius:    8,
		LogLevel:      "info",
	}
}

// Level maps LogLevel onto a slog level. Unknown names fall back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
