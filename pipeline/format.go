package pipeline

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rgonek/richdoc/docx"
)

// Format selects a conversion path.
type Format string

const (
	FormatText     Format = "txt"
	FormatDOCX     Format = "docx"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

var (
	// ErrUnsupportedFormat indicates a file type with no conversion path.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInputTooLarge indicates an input above Config.MaxInputBytes.
	ErrInputTooLarge = errors.New("input too large")
)

var formatAliases = map[string]Format{
	"txt":      FormatText,
	"text":     FormatText,
	"docx":     FormatDOCX,
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"html":     FormatHTML,
	"htm":      FormatHTML,
}

// ParseFormat resolves a format name, an extension such as ".docx" or a
// file name.
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if ext := path.Ext(key); ext != "" {
		key = ext
	}
	key = strings.TrimPrefix(key, ".")

	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// MimeType returns the media type of files in format f.
func (f Format) MimeType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatDOCX:
		return docx.MimeType
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for f, with the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}
