package style

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// Declaration is a single inline CSS property/value pair. Property is
// lowercased; Value is trimmed with inner whitespace collapsed.
type Declaration struct {
	Property string
	Value    string
}

// ParseDeclarations parses the contents of a style attribute. Malformed
// declarations are skipped rather than reported.
func ParseDeclarations(attr string) []Declaration {
	src := strings.TrimSpace(attr)
	if src == "" {
		return nil
	}
	// douceur only assigns a value once it sees the terminating ';'.
	if !strings.HasSuffix(src, ";") {
		src += ";"
	}

	parsed, err := parser.ParseDeclarations(src)
	if err != nil {
		return splitDeclarations(attr)
	}

	decls := make([]Declaration, 0, len(parsed))
	for _, d := range parsed {
		if d == nil {
			continue
		}
		if decl, ok := newDeclaration(d.Property, d.Value); ok {
			decls = append(decls, decl)
		}
	}
	return decls
}

func splitDeclarations(attr string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Split(attr, ";") {
		prop, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		value = strings.TrimSuffix(strings.TrimSpace(value), "!important")
		if decl, ok := newDeclaration(prop, value); ok {
			decls = append(decls, decl)
		}
	}
	return decls
}

func newDeclaration(prop, value string) (Declaration, bool) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	value = strings.Join(strings.Fields(value), " ")
	if prop == "" || value == "" {
		return Declaration{}, false
	}
	return Declaration{Property: prop, Value: value}, true
}

// FormatDeclarations renders declarations back into a style attribute value.
func FormatDeclarations(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// FontFamilies splits a font-family value into unquoted family names.
func FontFamilies(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
