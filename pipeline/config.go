package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/rgonek/richdoc/builder"
	"github.com/rgonek/richdoc/extractor"
	"github.com/rgonek/richdoc/sanitizer"
)

// DefaultMaxInputBytes is the upload limit of the document service.
const DefaultMaxInputBytes = 20 << 20

// Config holds engine configuration.
type Config struct {
	Logger *slog.Logger `json:"-" yaml:"-"`
	// MaxInputBytes bounds imported and exported inputs.
	MaxInputBytes int64            `json:"maxInputBytes,omitempty" yaml:"maxInputBytes,omitempty"`
	Sanitizer     sanitizer.Config `json:"sanitizer,omitempty" yaml:"sanitizer,omitempty"`
	Builder       builder.Config   `json:"builder,omitempty" yaml:"builder,omitempty"`
	// Extractor.Sanitizer defaults to Sanitizer when unset.
	Extractor extractor.Config `json:"extractor,omitempty" yaml:"extractor,omitempty"`
	// DetectLanguage enables language detection in Analyze.
	DetectLanguage bool `json:"detectLanguage,omitempty" yaml:"detectLanguage,omitempty"`
	// Languages restricts detection to these ISO 639-1 codes. Empty means
	// every supported language.
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxInputBytes == 0 {
		c.MaxInputBytes = DefaultMaxInputBytes
	}
	if c.Extractor.Sanitizer == (sanitizer.Config{}) {
		c.Extractor.Sanitizer = c.Sanitizer
	}
	return c
}

// clone returns a copy of Config that shares no slices with c.
func (c Config) clone() Config {
	cloned := c
	if c.Languages != nil {
		cloned.Languages = append([]string(nil), c.Languages...)
	}
	return cloned
}

// Validate checks that config values are valid. Component configs are
// validated by their constructors.
func (c Config) Validate() error {
	if c.MaxInputBytes < 0 {
		return fmt.Errorf("maxInputBytes must not be negative, got %d", c.MaxInputBytes)
	}
	if len(c.Languages) == 1 {
		return fmt.Errorf("languages must list at least two codes, got %q", c.Languages[0])
	}
	for _, code := range c.Languages {
		if _, ok := lookupLanguage(code); !ok {
			return fmt.Errorf("invalid language code %q", code)
		}
	}
	return nil
}
