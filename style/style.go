// Package style models inherited run and paragraph formatting and the color
// and unit conversions shared by the markup and document converters.
package style

import (
	"strconv"
	"strings"
)

// DefaultMonospaceFont is applied to code spans and preformatted text.
const DefaultMonospaceFont = "Courier New"

// Context is the run formatting inherited while walking a markup tree. It is
// a comparable value; every With* method returns a modified copy.
type Context struct {
	Bold        bool
	Italic      bool
	Underline   bool
	Strike      bool
	Subscript   bool
	Superscript bool
	FontName    string
	// FontSize in points; zero means unset.
	FontSize  float64
	Color     RGB
	HasColor  bool
	Highlight Highlight
}

// IsZero reports whether c carries no formatting.
func (c Context) IsZero() bool {
	return c == Context{}
}

func (c Context) WithBold() Context      { c.Bold = true; return c }
func (c Context) WithItalic() Context    { c.Italic = true; return c }
func (c Context) WithUnderline() Context { c.Underline = true; return c }
func (c Context) WithStrike() Context    { c.Strike = true; return c }

// WithSubscript sets subscript and clears superscript.
func (c Context) WithSubscript() Context {
	c.Subscript = true
	c.Superscript = false
	return c
}

// WithSuperscript sets superscript and clears subscript.
func (c Context) WithSuperscript() Context {
	c.Superscript = true
	c.Subscript = false
	return c
}

func (c Context) WithFont(name string) Context {
	c.FontName = name
	return c
}

func (c Context) WithFontSize(pt float64) Context {
	c.FontSize = pt
	return c
}

func (c Context) WithColor(rgb RGB) Context {
	c.Color = rgb
	c.HasColor = true
	return c
}

func (c Context) WithHighlight(h Highlight) Context {
	c.Highlight = h
	return c
}

// WithoutColors drops text color and highlight.
func (c Context) WithoutColors() Context {
	c.Color = RGB{}
	c.HasColor = false
	c.Highlight = HighlightNone
	return c
}

// linkColor matches the default Word hyperlink character style.
var linkColor = RGB{0x05, 0x63, 0xC1}

// WithTag merges the formatting implied by an inline element name.
// Unknown names return c unchanged.
func (c Context) WithTag(tag string) Context {
	switch tag {
	case "strong", "b":
		return c.WithBold()
	case "em", "i":
		return c.WithItalic()
	case "u":
		return c.WithUnderline()
	case "s", "strike", "del":
		return c.WithStrike()
	case "sub":
		return c.WithSubscript()
	case "sup":
		return c.WithSuperscript()
	case "code":
		return c.WithFont(DefaultMonospaceFont)
	case "mark":
		if c.Highlight == HighlightNone {
			return c.WithHighlight(HighlightYellow)
		}
	case "a":
		c = c.WithUnderline()
		if !c.HasColor {
			c = c.WithColor(linkColor)
		}
	}
	return c
}

// WithDeclarations merges inline CSS declarations. Values that do not parse
// are ignored.
func (c Context) WithDeclarations(decls []Declaration) Context {
	for _, d := range decls {
		c = c.withDeclaration(d)
	}
	return c
}

func (c Context) withDeclaration(d Declaration) Context {
	value := strings.ToLower(d.Value)
	switch d.Property {
	case "font-weight":
		if bold, ok := parseFontWeight(value); ok {
			c.Bold = bold
		}
	case "font-style":
		switch value {
		case "italic", "oblique":
			c.Italic = true
		case "normal":
			c.Italic = false
		}
	case "text-decoration", "text-decoration-line":
		for _, token := range strings.Fields(value) {
			switch token {
			case "underline":
				c.Underline = true
			case "line-through":
				c.Strike = true
			case "none":
				c.Underline = false
				c.Strike = false
			}
		}
	case "vertical-align":
		switch value {
		case "sub":
			c = c.WithSubscript()
		case "super":
			c = c.WithSuperscript()
		case "baseline":
			c.Subscript = false
			c.Superscript = false
		}
	case "font-family":
		if names := FontFamilies(d.Value); len(names) > 0 {
			c.FontName = names[0]
		}
	case "font-size":
		if pt, ok := FontSizeToPoints(value); ok {
			c.FontSize = pt
		}
	case "color":
		if rgb, ok := ParseColor(value); ok {
			c = c.WithColor(rgb)
		}
	case "background-color":
		if rgb, ok := ParseColor(value); ok {
			c.Highlight = NearestHighlight(rgb)
		}
	}
	return c
}

func parseFontWeight(value string) (bool, bool) {
	switch value {
	case "bold", "bolder":
		return true, true
	case "normal", "lighter":
		return false, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false, false
	}
	return n >= 600, true
}

// Alignment is a paragraph's horizontal alignment. The zero value inherits.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Paragraph is block-level formatting taken from a block element's style.
type Paragraph struct {
	Alignment Alignment
	// IndentPt is the left indentation in points.
	IndentPt float64
}

// ParagraphFromDeclarations reads text-align and left indentation.
func ParagraphFromDeclarations(decls []Declaration) Paragraph {
	var p Paragraph
	for _, d := range decls {
		value := strings.ToLower(d.Value)
		switch d.Property {
		case "text-align":
			switch Alignment(value) {
			case AlignLeft, AlignCenter, AlignRight, AlignJustify:
				p.Alignment = Alignment(value)
			}
		case "margin-left", "padding-left":
			if pt, ok := LengthToPoints(value); ok && pt > 0 {
				p.IndentPt += pt
			}
		}
	}
	return p
}
