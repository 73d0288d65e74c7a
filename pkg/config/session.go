package config

import (
	"fmt"
	"strings"
)

// SessionConfig controls where signed-in credentials are persisted between
// command invocations. An empty File means the platform user config dir.
type SessionConfig struct {
	File string `koanf:"file"`
}

// String returns a string representation of the session configuration.
func (c *SessionConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Session ---\n")
	file := c.File
	if file == "" {
		file = "<user config dir>"
	}
	b.WriteString(fmt.Sprintf("  file: %s\n", file))
	return b.String()
}

func (c *SessionConfig) Validate() error {
	return nil
}
