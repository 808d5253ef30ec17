package builder

import (
	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/style"
	"golang.org/x/net/html"
)

// list converts a ul or ol element. Nested lists follow their parent item
// one level deeper. A list without li children but with text becomes a
// single item.
func (s *state) list(n *html.Node, st style.Context, level int) ([]docx.Block, error) {
	s.lists++
	listID := s.lists
	ordered := n.Data == "ol"

	var (
		out   []docx.Block
		stray []*html.Node
		items int
	)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isElement(c, "li"):
			items++
			blocks, err := s.listItem(c, st, ordered, level, listID)
			if err != nil {
				return nil, err
			}
			out = append(out, blocks...)
		case isElement(c, "ul", "ol"):
			nested, err := s.list(c, s.styleFor(st, c), level+1)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		default:
			stray = append(stray, c)
		}
	}

	if items > 0 {
		return out, nil
	}

	b := newRunBuilder()
	for _, c := range stray {
		if err := s.inline(b, c, st); err != nil {
			return nil, err
		}
	}
	if runs := b.finish(); len(runs) > 0 {
		item := docx.ListItem{Ordered: ordered, Level: level, ListID: listID, Runs: runs}
		out = append([]docx.Block{item}, out...)
	}
	return out, nil
}

func (s *state) listItem(li *html.Node, st style.Context, ordered bool, level, listID int) ([]docx.Block, error) {
	st = s.styleFor(st, li)
	b := newRunBuilder()
	var nested []docx.Block

	for c := li.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isElement(c, "ul", "ol"):
			blocks, err := s.list(c, s.styleFor(st, c), level+1)
			if err != nil {
				return nil, err
			}
			nested = append(nested, blocks...)
		case isElement(c, "p", "div", "h1", "h2", "h3", "h4", "h5", "h6"):
			if !b.empty() {
				b.lineBreak(st)
			}
			inner := s.styleFor(st, c)
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				if err := s.inline(b, gc, inner); err != nil {
					return nil, err
				}
			}
		case isElement(c, "table", "pre", "blockquote", "hr"):
			blocks, err := s.block(c, st)
			if err != nil {
				return nil, err
			}
			nested = append(nested, blocks...)
		default:
			if err := s.inline(b, c, st); err != nil {
				return nil, err
			}
		}
	}

	runs := b.finish()
	if len(runs) == 0 && len(nested) > 0 {
		return nested, nil
	}
	item := docx.ListItem{Ordered: ordered, Level: level, ListID: listID, Runs: runs}
	return append([]docx.Block{item}, nested...), nil
}
