// Package config composes the qkart client configuration.
package config

import (
	"strings"

	"github.com/qkart/qkart/pkg/config"
	"github.com/qkart/qkart/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	API       config.APIConfig       `koanf:"api"`
	Search    config.SearchConfig    `koanf:"search"`
	Session   config.SessionConfig   `koanf:"session"`
	Log       config.LogConfig       `koanf:"log"`
	Telemetry config.TelemetryConfig `koanf:"telemetry"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.API.String())
	b.WriteString(c.Search.String())
	b.WriteString(c.Session.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Telemetry.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}
