package extractor

import (
	"fmt"

	"github.com/rgonek/richdoc/sanitizer"
)

// ColorMode controls whether run colors are written as inline styles.
type ColorMode string

const (
	ColorKeep   ColorMode = "keep"
	ColorIgnore ColorMode = "ignore"
)

// Config holds extractor configuration.
type Config struct {
	ColorMode ColorMode `json:"colorMode,omitempty" yaml:"colorMode,omitempty"`
	// HeadingOffset shifts detected heading levels down, capped at h6.
	HeadingOffset int              `json:"headingOffset,omitempty" yaml:"headingOffset,omitempty"`
	Sanitizer     sanitizer.Config `json:"sanitizer,omitempty" yaml:"sanitizer,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.ColorMode == "" {
		c.ColorMode = ColorKeep
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.ColorMode != ColorKeep && c.ColorMode != ColorIgnore {
		return fmt.Errorf("invalid colorMode %q", c.ColorMode)
	}
	if c.HeadingOffset < 0 || c.HeadingOffset > 5 {
		return fmt.Errorf("headingOffset must be between 0 and 5, got %d", c.HeadingOffset)
	}
	return nil
}
