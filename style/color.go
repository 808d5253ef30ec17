package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex returns the color as six uppercase hex digits without a leading '#'.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// CSS returns the color in #rrggbb notation.
func (c RGB) CSS() string {
	return "#" + strings.ToLower(c.Hex())
}

var namedColors = map[string]RGB{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"lime":    {0, 255, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"aqua":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"fuchsia": {255, 0, 255},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"silver":  {192, 192, 192},
	"maroon":  {128, 0, 0},
	"olive":   {128, 128, 0},
	"navy":    {0, 0, 128},
	"purple":  {128, 0, 128},
	"teal":    {0, 128, 128},
	"orange":  {255, 165, 0},
}

var (
	hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)
	rgbColorRe = regexp.MustCompile(`^(?i)rgb\(\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*\)$`)
)

// ParseColor parses a named color, #rrggbb, rrggbb or rgb(r, g, b).
// rgb() channels are clamped to [0, 255]. Any other syntax is rejected.
func ParseColor(text string) (RGB, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return RGB{}, false
	}

	if c, ok := namedColors[strings.ToLower(text)]; ok {
		return c, true
	}

	if m := hexColorRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return RGB{}, false
		}
		return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
	}

	if m := rgbColorRe.FindStringSubmatch(text); m != nil {
		return RGB{R: clampChannel(m[1]), G: clampChannel(m[2]), B: clampChannel(m[3])}, true
	}

	return RGB{}, false
}

func clampChannel(s string) uint8 {
	v, err := strconv.Atoi(s)
	if err != nil {
		// only overflow reaches here; the pattern guarantees digits
		if strings.HasPrefix(s, "-") {
			return 0
		}
		return 255
	}
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
