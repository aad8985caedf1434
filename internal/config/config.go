// Package config loads go-touchtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Haptics backends.
const (
	BackendLog    = "log"
	BackendTone   = "tone"
	BackendRumble = "rumble"
)

// Config holds the settings shared by the commands. Flags override it.
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./web"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// Haptics selects the local actuator for the terminal face.
	Haptics string  `env:"HAPTICS" envDefault:"log"`
	ToneHz  float64 `env:"TONE_HZ" envDefault:"180"`

	// TimeZone is an IANA name; empty means the host zone.
	TimeZone string `env:"TIME_ZONE"`
}

// Load parses TOUCHTIME_* environment variables.
func Load() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "TOUCHTIME_"})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot check by type.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	switch strings.ToLower(c.Haptics) {
	case BackendLog, BackendTone, BackendRumble:
	default:
		return fmt.Errorf("config: unknown haptics backend %q", c.Haptics)
	}
	if c.ToneHz <= 0 {
		return fmt.Errorf("config: tone frequency must be positive, got %v", c.ToneHz)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location resolves TimeZone.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
