package style

import "strings"

// Highlight is an index into the fixed highlight palette. The zero value means
// no highlight.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightYellow
	HighlightGreen
	HighlightCyan
	HighlightMagenta
	HighlightBlue
	HighlightRed
	HighlightDarkBlue
	HighlightDarkCyan
	HighlightDarkGreen
	HighlightDarkMagenta
	HighlightDarkRed
	HighlightDarkYellow
	HighlightDarkGray
	HighlightLightGray
	HighlightBlack
	HighlightWhite
)

type paletteEntry struct {
	highlight Highlight
	name      string
	color     RGB
}

// palette is ordered; NearestHighlight resolves ties to the earliest entry.
// Names are the OOXML ST_HighlightColor values.
var palette = []paletteEntry{
	{HighlightYellow, "yellow", RGB{255, 255, 0}},
	{HighlightGreen, "green", RGB{0, 255, 0}},
	{HighlightCyan, "cyan", RGB{0, 255, 255}},
	{HighlightMagenta, "magenta", RGB{255, 0, 255}},
	{HighlightBlue, "blue", RGB{0, 0, 255}},
	{HighlightRed, "red", RGB{255, 0, 0}},
	{HighlightDarkBlue, "darkBlue", RGB{0, 0, 128}},
	{HighlightDarkCyan, "darkCyan", RGB{0, 128, 128}},
	{HighlightDarkGreen, "darkGreen", RGB{0, 128, 0}},
	{HighlightDarkMagenta, "darkMagenta", RGB{128, 0, 128}},
	{HighlightDarkRed, "darkRed", RGB{128, 0, 0}},
	{HighlightDarkYellow, "darkYellow", RGB{128, 128, 0}},
	{HighlightDarkGray, "darkGray", RGB{128, 128, 128}},
	{HighlightLightGray, "lightGray", RGB{192, 192, 192}},
	{HighlightBlack, "black", RGB{0, 0, 0}},
	{HighlightWhite, "white", RGB{255, 255, 255}},
}

// NearestHighlight returns the palette entry with the smallest squared
// Euclidean distance to c.
func NearestHighlight(c RGB) Highlight {
	best := HighlightNone
	bestDist := -1
	for _, entry := range palette {
		d := distance(c, entry.color)
		if bestDist < 0 || d < bestDist {
			best = entry.highlight
			bestDist = d
		}
	}
	return best
}

func distance(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// HighlightFromName resolves an OOXML highlight name such as "darkBlue".
// "none" and unknown names report false.
func HighlightFromName(name string) (Highlight, bool) {
	for _, entry := range palette {
		if strings.EqualFold(entry.name, name) {
			return entry.highlight, true
		}
	}
	return HighlightNone, false
}

// Name returns the OOXML name of h, or "" for HighlightNone.
func (h Highlight) Name() string {
	if e, ok := lookup(h); ok {
		return e.name
	}
	return ""
}

// RGB returns the palette color of h.
func (h Highlight) RGB() (RGB, bool) {
	if e, ok := lookup(h); ok {
		return e.color, true
	}
	return RGB{}, false
}

func (h Highlight) String() string {
	if name := h.Name(); name != "" {
		return name
	}
	return "none"
}

func lookup(h Highlight) (paletteEntry, bool) {
	if h <= HighlightNone || int(h) > len(palette) {
		return paletteEntry{}, false
	}
	return palette[h-1], true
}
