package extractor

import (
	"html"
	"strings"

	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/style"
)

// runs renders runs as inline markup. Neighbouring runs of equal style are
// merged first.
func (e *Extractor) runs(in []docx.Run) string {
	var b strings.Builder
	for _, r := range mergeRuns(in) {
		if r.Break {
			b.WriteString("<br>")
			continue
		}
		b.WriteString(e.run(r))
	}
	return b.String()
}

func mergeRuns(in []docx.Run) []docx.Run {
	out := make([]docx.Run, 0, len(in))
	for _, r := range in {
		if !r.Break && r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && !r.Break && !out[n-1].Break && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// run wraps text in tags derived from its style: an enclosing span for
// size, family and colors, then strong, em, u, s and sub or sup.
func (e *Extractor) run(r docx.Run) string {
	text := html.EscapeString(r.Text)
	c := r.Style
	if e.config.ColorMode == ColorIgnore {
		c = c.WithoutColors()
	}

	switch {
	case c.Subscript:
		text = wrap("sub", text)
	case c.Superscript:
		text = wrap("sup", text)
	}
	if c.Strike {
		text = wrap("s", text)
	}
	if c.Underline {
		text = wrap("u", text)
	}
	if c.Italic {
		text = wrap("em", text)
	}
	if c.Bold {
		text = wrap("strong", text)
	}

	if decls := spanDeclarations(c); len(decls) > 0 {
		text = `<span style="` + html.EscapeString(style.FormatDeclarations(decls)) + `">` + text + "</span>"
	}
	return text
}

func spanDeclarations(c style.Context) []style.Declaration {
	var decls []style.Declaration
	if c.FontSize > 0 {
		decls = append(decls, style.Declaration{Property: "font-size", Value: points(c.FontSize)})
	}
	if c.FontName != "" {
		decls = append(decls, style.Declaration{Property: "font-family", Value: c.FontName})
	}
	if c.HasColor {
		decls = append(decls, style.Declaration{Property: "color", Value: c.Color.CSS()})
	}
	if rgb, ok := c.Highlight.RGB(); ok {
		decls = append(decls, style.Declaration{Property: "background-color", Value: rgb.CSS()})
	}
	return decls
}

func wrap(tag, inner string) string {
	return "<" + tag + ">" + inner + "</" + tag + ">"
}
