package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// APIConfig describes how to reach the remote storefront service.
type APIConfig struct {
	BaseURL string        `koanf:"baseURL"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the API configuration.
func (c *APIConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- API ---\n")
	b.WriteString(fmt.Sprintf("  baseURL: %s\n", c.BaseURL))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("API base URL is not configured")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid API base URL: %s", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid API timeout: %v", c.Timeout)
	}
	return nil
}
