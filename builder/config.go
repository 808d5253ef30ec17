package builder

import (
	"fmt"
	"strings"

	"github.com/rgonek/richdoc/style"
)

// ColorMode controls whether text and highlight colors reach the document.
type ColorMode string

const (
	ColorKeep   ColorMode = "keep"
	ColorIgnore ColorMode = "ignore"
)

const (
	defaultQuoteIndentPt = 36
	maxQuoteIndentPt     = 144
)

// Config holds builder configuration.
type Config struct {
	// MonospaceFont is applied to code spans and code blocks.
	MonospaceFont string `json:"monospaceFont,omitempty" yaml:"monospaceFont,omitempty"`
	// QuoteIndentPt is the left indentation of block quotes in points.
	QuoteIndentPt  float64         `json:"quoteIndentPt,omitempty" yaml:"quoteIndentPt,omitempty"`
	ColorMode      ColorMode       `json:"colorMode,omitempty" yaml:"colorMode,omitempty"`
	ResolutionMode ResolutionMode  `json:"resolutionMode,omitempty" yaml:"resolutionMode,omitempty"`
	ImageHook      ImageRenderHook `json:"-" yaml:"-"`
}

func (c Config) applyDefaults() Config {
	if c.MonospaceFont == "" {
		c.MonospaceFont = style.DefaultMonospaceFont
	}
	if c.QuoteIndentPt == 0 {
		c.QuoteIndentPt = defaultQuoteIndentPt
	}
	if c.ColorMode == "" {
		c.ColorMode = ColorKeep
	}
	if c.ResolutionMode == "" {
		c.ResolutionMode = ResolutionBestEffort
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.MonospaceFont) == "" {
		return fmt.Errorf("monospaceFont must not be blank")
	}
	if c.QuoteIndentPt < 0 || c.QuoteIndentPt > maxQuoteIndentPt {
		return fmt.Errorf("quoteIndentPt must be between 0 and %d, got %g", maxQuoteIndentPt, c.QuoteIndentPt)
	}
	if c.ColorMode != ColorKeep && c.ColorMode != ColorIgnore {
		return fmt.Errorf("invalid colorMode %q", c.ColorMode)
	}
	if c.ResolutionMode != ResolutionBestEffort && c.ResolutionMode != ResolutionStrict {
		return fmt.Errorf("invalid resolutionMode %q", c.ResolutionMode)
	}
	return nil
}
