// Package builder turns canonical markup into the docx block model.
package builder

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/plaintext"
	"github.com/rgonek/richdoc/style"
	"golang.org/x/net/html"
)

// Result holds the built document and any warnings.
type Result struct {
	Document *docx.Document  `json:"-"`
	Warnings []markup.Warning `json:"warnings,omitempty"`
}

// Builder converts canonical markup to documents. It is safe for
// concurrent use.
type Builder struct {
	config Config
}

type state struct {
	ctx      context.Context
	config   Config
	warnings []markup.Warning
	lists    int
}

// New creates a Builder with the given config.
func New(config Config) (*Builder, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Builder{config: cfg}, nil
}

// Build converts markup. fallbackText is used, one paragraph per line, when
// markup cannot be parsed or yields no blocks.
func (b *Builder) Build(markupText, fallbackText string) (Result, error) {
	return b.BuildWithContext(context.Background(), markupText, fallbackText)
}

// BuildWithContext is Build with a context that is checked between blocks
// and before hook calls.
func (b *Builder) BuildWithContext(ctx context.Context, markupText, fallbackText string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &state{ctx: ctx, config: b.config}
	if err := s.checkContext(); err != nil {
		return Result{}, err
	}

	var blocks []docx.Block
	root, err := markup.ParseBody(markupText)
	if err != nil {
		s.addWarning(markup.WarningParseFallback, "", fmt.Sprintf("markup could not be parsed, using fallback text: %v", err))
	} else {
		blocks, err = s.blocks(root, style.Context{}, style.Paragraph{})
		if err != nil {
			return Result{}, err
		}
	}

	if len(blocks) == 0 {
		blocks = fallbackBlocks(fallbackText)
	}

	return Result{
		Document: &docx.Document{Blocks: blocks},
		Warnings: s.warnings,
	}, nil
}

// Marshal encodes a built document as a .docx package using the builder's
// monospace font.
func (b *Builder) Marshal(res Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := docx.Write(&buf, res.Document, docx.WriteOptions{MonospaceFont: b.config.MonospaceFont}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fallbackBlocks(text string) []docx.Block {
	lines := strings.Split(plaintext.NormalizeNewlines(text), "\n")
	blocks := make([]docx.Block, 0, len(lines))
	for _, line := range lines {
		var runs []docx.Run
		if line != "" {
			runs = []docx.Run{{Text: line}}
		}
		blocks = append(blocks, docx.Paragraph{Runs: runs})
	}
	return blocks
}

func (s *state) checkContext() error {
	if s.ctx == nil {
		return nil
	}
	return s.ctx.Err()
}

func (s *state) addWarning(warnType markup.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, markup.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

// blocks converts the children of a container element. Inline content
// between block children is gathered into paragraphs carrying format.
func (s *state) blocks(parent *html.Node, st style.Context, format style.Paragraph) ([]docx.Block, error) {
	var out []docx.Block
	pending := newRunBuilder()
	flush := func() {
		if runs := pending.finish(); len(runs) > 0 {
			out = append(out, docx.Paragraph{Runs: runs, Format: format})
		}
		pending = newRunBuilder()
	}

	for _, c := range markup.Children(parent) {
		if err := s.checkContext(); err != nil {
			return nil, err
		}

		switch {
		case c.Type == html.ElementNode && c.Data == "img":
			flush()
			caption, err := s.imageCaption(imageAttrs(c))
			if err != nil {
				return nil, err
			}
			out = append(out, docx.ImagePlaceholder{Caption: caption})
		case c.Type == html.ElementNode && markup.BlockTags[c.Data]:
			flush()
			blocks, err := s.block(c, st)
			if err != nil {
				return nil, err
			}
			out = append(out, blocks...)
		default:
			if err := s.inline(pending, c, st); err != nil {
				return nil, err
			}
		}
	}
	flush()
	return out, nil
}

func (s *state) block(n *html.Node, st style.Context) ([]docx.Block, error) {
	st = s.styleFor(st, n)
	format := paragraphFormat(n)

	switch n.Data {
	case "p":
		runs, err := s.inlineChildren(n, st)
		if err != nil {
			return nil, err
		}
		return []docx.Block{docx.Paragraph{Runs: runs, Format: format}}, nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		runs, err := s.inlineChildren(n, st)
		if err != nil {
			return nil, err
		}
		level := docx.ClampHeadingLevel(int(n.Data[1] - '0'))
		return []docx.Block{docx.Heading{Level: level, Runs: runs, Format: format}}, nil
	case "ul", "ol":
		return s.list(n, st, 0)
	case "blockquote":
		return s.blockquote(n, st)
	case "pre":
		return []docx.Block{codeBlock(n)}, nil
	case "table":
		return s.table(n, st)
	case "hr":
		return []docx.Block{docx.HorizontalRule{}}, nil
	case "col", "colgroup":
		return nil, nil
	}
	return s.blocks(n, st, format)
}

func (s *state) blockquote(n *html.Node, st style.Context) ([]docx.Block, error) {
	inner, err := s.blocks(n, st, style.Paragraph{})
	if err != nil {
		return nil, err
	}
	if len(inner) == 0 {
		return []docx.Block{docx.BlockQuote{IndentPt: s.config.QuoteIndentPt}}, nil
	}

	out := make([]docx.Block, 0, len(inner))
	for _, b := range inner {
		if p, ok := b.(docx.Paragraph); ok {
			out = append(out, docx.BlockQuote{Runs: p.Runs, IndentPt: s.config.QuoteIndentPt + p.Format.IndentPt})
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// codeBlock takes the text of a pre element verbatim.
func codeBlock(n *html.Node) docx.CodeBlock {
	text := plaintext.NormalizeNewlines(markup.TextContent(n))
	text = strings.TrimSuffix(text, "\n")
	return docx.CodeBlock{Lines: strings.Split(text, "\n")}
}

// styleFor merges the formatting of element n into st.
func (s *state) styleFor(st style.Context, n *html.Node) style.Context {
	st = st.WithTag(n.Data)
	switch n.Data {
	case "code":
		st = st.WithFont(s.config.MonospaceFont)
	case "th":
		st = st.WithBold()
	}
	if v, ok := markup.Attr(n, "style"); ok {
		st = st.WithDeclarations(style.ParseDeclarations(v))
	}
	if s.config.ColorMode == ColorIgnore {
		st = st.WithoutColors()
	}
	return st
}

func paragraphFormat(n *html.Node) style.Paragraph {
	v, ok := markup.Attr(n, "style")
	if !ok {
		return style.Paragraph{}
	}
	return style.ParagraphFromDeclarations(style.ParseDeclarations(v))
}

func imageAttrs(n *html.Node) *nodeAttrs {
	src, _ := markup.Attr(n, "src")
	alt, _ := markup.Attr(n, "alt")
	title, _ := markup.Attr(n, "title")
	return &nodeAttrs{
		src:   strings.TrimSpace(src),
		alt:   strings.TrimSpace(alt),
		title: strings.TrimSpace(title),
	}
}

func isElement(n *html.Node, tags ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, tag := range tags {
		if n.Data == tag {
			return true
		}
	}
	return false
}
