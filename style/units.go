package style

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	pxToPt = 0.75
	emToPt = 12.0
)

var lengthRe = regexp.MustCompile(`^(?i)(-?(?:\d+(?:\.\d*)?|\.\d+))\s*(pt|px|em|rem)?$`)

// FontSizeToPoints converts a CSS font size to points. Units pt, px, em and
// rem are understood; a bare number is taken as points. Non-positive sizes
// are rejected.
func FontSizeToPoints(value string) (float64, bool) {
	pt, ok := LengthToPoints(value)
	if !ok || pt <= 0 {
		return 0, false
	}
	return pt, true
}

// LengthToPoints converts a CSS length to points using the same units as
// FontSizeToPoints. Zero and negative lengths are accepted.
func LengthToPoints(value string) (float64, bool) {
	m := lengthRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "px":
		return n * pxToPt, true
	case "em", "rem":
		return n * emToPt, true
	default:
		return n, true
	}
}
