package sanitizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rgonek/richdoc/markup"
	"golang.org/x/net/html"
)

var (
	digitsRe   = regexp.MustCompile(`^\d+$`)
	colwidthRe = regexp.MustCompile(`^\d+(?:,\d+)*$`)
)

var (
	unsafeHrefSchemes = []string{"javascript:", "data:", "vbscript:"}
	unsafeSrcSchemes  = []string{"javascript:", "vbscript:"}
)

const (
	linkTarget = "_blank"
	linkRel    = "noopener noreferrer"
)

// cleanAttributes rebuilds an element's attributes from scratch and returns
// them in markup.AttributeOrder.
func (s *state) cleanAttributes(tag string, attrs []html.Attribute) []html.Attribute {
	values := make(map[string]string, len(attrs))

	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		switch {
		case a.Namespace != "":
			s.dropAttribute(tag, a.Namespace+":"+key)
		case key == "style" && tag != "br":
			if v, ok := s.cleanStyle(tag, a.Val); ok {
				values[key] = v
			}
		case markup.AllowedAttributes[tag][key]:
			if v, ok := cleanAttribute(key, a.Val); ok {
				values[key] = v
			} else {
				s.dropAttribute(tag, key)
			}
		case tag == "a" && (key == "target" || key == "rel"):
			// rebuilt below
		default:
			s.dropAttribute(tag, key)
		}
	}

	if _, ok := values["href"]; ok && tag == "a" {
		values["target"] = linkTarget
		values["rel"] = linkRel
	}

	out := make([]html.Attribute, 0, len(values))
	for _, key := range markup.AttributeOrder {
		if v, ok := values[key]; ok {
			out = append(out, html.Attribute{Key: key, Val: v})
		}
	}
	return out
}

func (s *state) dropAttribute(tag, key string) {
	s.addWarning(markup.WarningDroppedAttribute, tag, fmt.Sprintf("dropped attribute %q", key))
}

func cleanAttribute(key, value string) (string, bool) {
	switch key {
	case "href":
		return cleanURL(value, unsafeHrefSchemes, false)
	case "src":
		return cleanURL(value, unsafeSrcSchemes, true)
	case "colwidth":
		v := strings.TrimSpace(value)
		return v, colwidthRe.MatchString(v)
	case "alt", "title":
		return value, true
	}

	if limit, ok := markup.IntegerAttributes[key]; ok {
		return cleanInteger(value, limit)
	}
	return "", false
}

// cleanURL rejects values whose scheme, ignoring case, whitespace and
// control characters, is in denied. With imagesOnly, data: URLs are kept
// only for data:image/.
func cleanURL(value string, denied []string, imagesOnly bool) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}

	target := normalizedScheme(v)
	for _, scheme := range denied {
		if strings.HasPrefix(target, scheme) {
			return "", false
		}
	}
	if imagesOnly && strings.HasPrefix(target, "data:") && !strings.HasPrefix(target, "data:image/") {
		return "", false
	}
	return v, true
}

func normalizedScheme(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r <= ' ' || r == 0x7f || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func cleanInteger(value string, limit markup.IntegerLimit) (string, bool) {
	v := strings.TrimSpace(value)
	if !digitsRe.MatchString(v) {
		return "", false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		n = limit.Max
	}
	if n <= limit.Min {
		return "", false
	}
	if n > limit.Max {
		n = limit.Max
	}
	return strconv.Itoa(n), true
}
