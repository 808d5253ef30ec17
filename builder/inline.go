package builder

import (
	"strings"

	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/plaintext"
	"github.com/rgonek/richdoc/style"
	"golang.org/x/net/html"
)

// runBuilder accumulates runs, collapsing HTML whitespace across run
// boundaries and merging neighbours of equal style.
type runBuilder struct {
	runs []docx.Run
	// space is set when the last written character was a space, or
	// nothing has been written since the start or the last break.
	space bool
}

func newRunBuilder() *runBuilder {
	return &runBuilder{space: true}
}

func (b *runBuilder) text(text string, st style.Context) {
	var sb strings.Builder
	for _, r := range text {
		if isHTMLSpace(r) {
			if !b.space {
				sb.WriteByte(' ')
				b.space = true
			}
			continue
		}
		sb.WriteRune(r)
		b.space = false
	}
	if sb.Len() == 0 {
		return
	}

	if n := len(b.runs); n > 0 {
		last := &b.runs[n-1]
		if !last.Break && last.Style == st {
			last.Text += sb.String()
			return
		}
	}
	b.runs = append(b.runs, docx.Run{Text: sb.String(), Style: st})
}

func (b *runBuilder) lineBreak(st style.Context) {
	b.trimTrailingSpace()
	b.runs = append(b.runs, docx.Run{Break: true, Style: st})
	b.space = true
}

func (b *runBuilder) empty() bool {
	return len(b.runs) == 0
}

// finish drops one trailing break, as browsers do, and trailing spaces.
func (b *runBuilder) finish() []docx.Run {
	if n := len(b.runs); n > 0 && b.runs[n-1].Break {
		b.runs = b.runs[:n-1]
	}
	b.trimTrailingSpace()
	return b.runs
}

func (b *runBuilder) trimTrailingSpace() {
	for len(b.runs) > 0 {
		last := &b.runs[len(b.runs)-1]
		if last.Break {
			return
		}
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			return
		}
		b.runs = b.runs[:len(b.runs)-1]
	}
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func (s *state) inlineChildren(n *html.Node, st style.Context) ([]docx.Run, error) {
	b := newRunBuilder()
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := s.inline(b, c, st); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// inline appends the runs of n to b.
func (s *state) inline(b *runBuilder, n *html.Node, st style.Context) error {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data, st)
		return nil
	case html.ElementNode:
	default:
		return nil
	}

	switch {
	case n.Data == "br":
		b.lineBreak(st)
		return nil
	case n.Data == "img":
		caption, err := s.imageCaption(imageAttrs(n))
		if err != nil {
			return err
		}
		b.text(docx.ImageText(caption), st)
		return nil
	case n.Data == "hr":
		if !b.empty() {
			b.lineBreak(st)
		}
		b.text(docx.RuleText, st)
		return nil
	case markup.BlockTags[n.Data]:
		s.blockInline(b, n, st)
		return nil
	}

	st = s.styleFor(st, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := s.inline(b, c, st); err != nil {
			return err
		}
	}
	return nil
}

// blockInline flattens a block element found in inline context into a line
// break followed by its plain text.
func (s *state) blockInline(b *runBuilder, n *html.Node, st style.Context) {
	text := plaintext.FromCanonical(markup.RenderNode(n))
	if text == "" {
		return
	}
	s.addWarning(markup.WarningFlattenedBlock, n.Data, "block element inside inline content was flattened to text")

	if !b.empty() {
		b.lineBreak(st)
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.lineBreak(st)
		}
		b.text(line, st)
	}
}
