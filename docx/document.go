// Package docx holds the word-processing block model and reads and writes
// it as an Office Open XML (.docx) package.
package docx

import (
	"errors"
	"strings"

	"github.com/rgonek/richdoc/style"
)

// MimeType is the media type of .docx files.
const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ImagePrefix starts the text that stands in for images.
const ImagePrefix = "[Image]"

// RuleText is the paragraph text written for horizontal rules.
var RuleText = strings.Repeat("-", 40)

var (
	// ErrGenerate indicates the document package could not be produced.
	ErrGenerate = errors.New("docx generation failed")
	// ErrInvalidDocument indicates the input is not a readable .docx package.
	ErrInvalidDocument = errors.New("invalid docx document")
)

// Document is an ordered list of blocks.
type Document struct {
	Blocks []Block
}

// Block is one of Paragraph, Heading, ListItem, BlockQuote, CodeBlock,
// Table, HorizontalRule or ImagePlaceholder.
type Block interface {
	block()
}

// Run is a span of uniformly formatted text, or a line break when Break is
// set.
type Run struct {
	Text  string
	Style style.Context
	Break bool
}

// ListKind tells bullet from numbered list membership.
type ListKind int

const (
	ListNone ListKind = iota
	ListBullet
	ListNumbered
)

// Paragraph is a plain paragraph. Style, List and ListLevel are set when the
// paragraph was read from a file and carries a named style or numbering.
type Paragraph struct {
	Runs      []Run
	Format    style.Paragraph
	Style     string
	List      ListKind
	ListLevel int
}

// Heading is a heading paragraph, Level 1 to 6.
type Heading struct {
	Level  int
	Runs   []Run
	Format style.Paragraph
}

// ListItem is one item of a bullet or numbered list. Items sharing ListID
// belong to the same list; Level is the nesting depth starting at 0.
type ListItem struct {
	Ordered bool
	Level   int
	ListID  int
	Runs    []Run
}

// BlockQuote is an indented quotation paragraph.
type BlockQuote struct {
	Runs     []Run
	IndentPt float64
}

// CodeBlock is preformatted text, written one monospace paragraph per line.
type CodeBlock struct {
	Lines []string
}

// Table is a grid of cells. Rows are expected to have equal length.
type Table struct {
	Rows [][]Cell
}

// Columns returns the length of the longest row.
func (t Table) Columns() int {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	return cols
}

// Cell holds either nested blocks or, when Blocks is empty, plain text.
type Cell struct {
	Text   string
	Blocks []Block
}

// HorizontalRule is a separator line.
type HorizontalRule struct{}

// ImagePlaceholder stands in for an image that is not embedded.
type ImagePlaceholder struct {
	Caption string
}

func (Paragraph) block()        {}
func (Heading) block()          {}
func (ListItem) block()         {}
func (BlockQuote) block()       {}
func (CodeBlock) block()        {}
func (Table) block()            {}
func (HorizontalRule) block()   {}
func (ImagePlaceholder) block() {}

// ImageText returns the placeholder text for an image caption.
func ImageText(caption string) string {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ImagePrefix
	}
	return ImagePrefix + " " + caption
}

// RunsText joins run text, turning breaks into newlines.
func RunsText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Break {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// PlainText returns the cell's text content.
func (c Cell) PlainText() string {
	if len(c.Blocks) == 0 {
		return c.Text
	}
	lines := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		lines = append(lines, BlockText(b))
	}
	return strings.Join(lines, "\n")
}

// BlockText returns the plain text of a block. Table rows are joined with
// newlines and their cells with " | ".
func BlockText(b Block) string {
	switch v := b.(type) {
	case Paragraph:
		return RunsText(v.Runs)
	case Heading:
		return RunsText(v.Runs)
	case ListItem:
		return RunsText(v.Runs)
	case BlockQuote:
		return RunsText(v.Runs)
	case CodeBlock:
		return strings.Join(v.Lines, "\n")
	case Table:
		rows := make([]string, 0, len(v.Rows))
		for _, row := range v.Rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, cell.PlainText())
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		return strings.Join(rows, "\n")
	case HorizontalRule:
		return RuleText
	case ImagePlaceholder:
		return ImageText(v.Caption)
	}
	return ""
}
