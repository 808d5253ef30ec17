package sanitizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/style"
)

var (
	dimensionRe = regexp.MustCompile(`^(?:0|\d+(?:\.\d+)?(?:px|pt|em|rem|%))$`)
	fontNameRe  = regexp.MustCompile(`^[\p{L}\p{N} _.-]+$`)
)

var unsafeStyleFragments = []string{"expression(", "javascript:", "url(", "\\", "<", ">", "/*"}

// cleanStyle filters a style attribute down to allowed, validated
// declarations. A property given twice keeps its first position and last
// value.
func (s *state) cleanStyle(tag, value string) (string, bool) {
	var kept []style.Declaration
	index := make(map[string]int)

	for _, d := range style.ParseDeclarations(value) {
		v, ok := s.cleanDeclaration(d)
		if !ok {
			s.addWarning(markup.WarningDroppedStyle, tag, fmt.Sprintf("dropped style %q", d.Property+": "+d.Value))
			continue
		}
		if i, seen := index[d.Property]; seen {
			kept[i].Value = v
			continue
		}
		index[d.Property] = len(kept)
		kept = append(kept, style.Declaration{Property: d.Property, Value: v})
	}

	if len(kept) == 0 {
		return "", false
	}
	return style.FormatDeclarations(kept), true
}

func (s *state) cleanDeclaration(d style.Declaration) (string, bool) {
	prop, ok := markup.AllowedStyleProperties[d.Property]
	if !ok {
		return "", false
	}

	lower := strings.ToLower(d.Value)
	compact := strings.Join(strings.Fields(lower), "")
	for _, fragment := range unsafeStyleFragments {
		if strings.Contains(compact, fragment) {
			return "", false
		}
	}

	switch prop.Kind {
	case markup.StyleColor:
		if _, ok := style.ParseColor(lower); ok {
			return lower, true
		}
	case markup.StyleDimension:
		if dimensionRe.MatchString(lower) {
			return lower, true
		}
	case markup.StyleKeyword:
		if prop.Keywords[lower] {
			return lower, true
		}
	case markup.StyleDecoration:
		tokens := strings.Fields(lower)
		for _, token := range tokens {
			if !markup.DecorationKeywords[token] {
				return "", false
			}
		}
		return strings.Join(tokens, " "), len(tokens) > 0
	case markup.StyleFontFamily:
		return s.cleanFontFamily(d.Value)
	}
	return "", false
}

func (s *state) cleanFontFamily(value string) (string, bool) {
	var names []string
	for _, name := range style.FontFamilies(value) {
		if !fontNameRe.MatchString(name) {
			continue
		}
		names = append(names, strings.Join(strings.Fields(name), " "))
		if len(names) == s.config.FontFamilyLimit {
			break
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, ", "), true
}
