package config

import (
	"fmt"
	"strings"
	"time"
)

// SearchConfig controls the search dispatcher. Debounce is the quiescence
// window: how long typing must pause before a search request is issued.
type SearchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// String returns a string representation of the search configuration.
func (c *SearchConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Search ---\n")
	b.WriteString(fmt.Sprintf("  debounce: %s\n", c.Debounce))
	return b.String()
}

func (c *SearchConfig) Validate() error {
	if c.Debounce <= 0 {
		return fmt.Errorf("invalid search debounce window: %v", c.Debounce)
	}
	return nil
}
