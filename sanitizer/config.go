package sanitizer

import "fmt"

const (
	defaultMaxPasses       = 4
	defaultFontFamilyLimit = 3
)

// Config holds sanitizer options.
type Config struct {
	// MaxPasses bounds how often the sanitizer re-runs on its own output
	// while the output keeps changing.
	MaxPasses int `json:"maxPasses,omitempty" yaml:"maxPasses,omitempty"`
	// FontFamilyLimit caps the number of names kept in font-family.
	FontFamilyLimit int `json:"fontFamilyLimit,omitempty" yaml:"fontFamilyLimit,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.MaxPasses == 0 {
		c.MaxPasses = defaultMaxPasses
	}
	if c.FontFamilyLimit == 0 {
		c.FontFamilyLimit = defaultFontFamilyLimit
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.MaxPasses < 1 || c.MaxPasses > 10 {
		return fmt.Errorf("maxPasses must be between 1 and 10, got %d", c.MaxPasses)
	}
	if c.FontFamilyLimit < 1 || c.FontFamilyLimit > 10 {
		return fmt.Errorf("fontFamilyLimit must be between 1 and 10, got %d", c.FontFamilyLimit)
	}
	return nil
}
