package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rgonek/richdoc/style"
)

const (
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
	marginTwips     = 1440
	textWidthTwips  = pageWidthTwips - 2*marginTwips
)

// WriteOptions tunes document output.
type WriteOptions struct {
	// MonospaceFont is used for code blocks. Defaults to style.DefaultMonospaceFont.
	MonospaceFont string
}

// Marshal renders doc as a .docx package.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, WriteOptions{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders doc as a .docx package to w. Errors wrap ErrGenerate.
func Write(w io.Writer, doc *Document, opts WriteOptions) error {
	if opts.MonospaceFont == "" {
		opts.MonospaceFont = style.DefaultMonospaceFont
	}

	wr := &writer{opts: opts, listNums: make(map[int]int)}
	var blocks []Block
	if doc != nil {
		blocks = doc.Blocks
	}

	documentXML, err := encodeXML(xmlDocument{
		W:    nsW,
		R:    nsR,
		Body: xmlBody{Content: wr.blocks(blocks), SectPr: defaultSectPr()},
	})
	if err != nil {
		return fmt.Errorf("%w: encode document.xml: %w", ErrGenerate, err)
	}

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML(opts.MonospaceFont)},
		{"word/numbering.xml", numberingXML(wr.lists)},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrGenerate, p.name, err)
		}
		if _, err := io.WriteString(f, p.data); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrGenerate, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: close package: %w", ErrGenerate, err)
	}
	return nil
}

func encodeXML(v any) (string, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return "", err
	}
	return xml.Header + string(data), nil
}

func defaultSectPr() xmlSectPr {
	return xmlSectPr{
		PgSz: xmlPgSz{W: pageWidthTwips, H: pageHeightTwips},
		PgMar: xmlMargin{
			Top: marginTwips, Right: marginTwips, Bottom: marginTwips, Left: marginTwips,
			Header: 720, Footer: 720,
		},
	}
}

type writer struct {
	opts WriteOptions
	// lists[i] reports whether numbering instance i+1 is ordered.
	lists    []bool
	listNums map[int]int
	// last numbering instance used by a list paragraph read from a file
	lastParagraphList ListKind
	lastParagraphNum  int
}

func (w *writer) blocks(blocks []Block) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		if _, ok := b.(Paragraph); !ok {
			w.lastParagraphList = ListNone
		}
		out = append(out, w.block(b)...)
	}
	return out
}

func (w *writer) block(b Block) []any {
	switch v := b.(type) {
	case Paragraph:
		return []any{w.paragraph(v)}
	case Heading:
		level := ClampHeadingLevel(v.Level)
		return []any{xmlParagraph{PPr: paragraphProperties(HeadingStyle(level), nil, v.Format), Runs: runs(v.Runs)}}
	case ListItem:
		styleID := StyleListBullet
		if v.Ordered {
			styleID = StyleListNumber
		}
		numPr := &xmlNumPr{
			Ilvl:  xmlVal{Val: strconv.Itoa(clampListLevel(v.Level))},
			NumID: xmlVal{Val: strconv.Itoa(w.numForList(v.ListID, v.Ordered))},
		}
		return []any{xmlParagraph{PPr: paragraphProperties(styleID, numPr, style.Paragraph{}), Runs: runs(v.Runs)}}
	case BlockQuote:
		format := style.Paragraph{IndentPt: v.IndentPt}
		return []any{xmlParagraph{PPr: paragraphProperties(StyleQuote, nil, format), Runs: runs(v.Runs)}}
	case CodeBlock:
		code := style.Context{}.WithFont(w.opts.MonospaceFont)
		out := make([]any, 0, len(v.Lines))
		for _, line := range v.Lines {
			var lineRuns []Run
			if line != "" {
				lineRuns = []Run{{Text: line, Style: code}}
			}
			out = append(out, xmlParagraph{PPr: paragraphProperties(StyleCode, nil, style.Paragraph{}), Runs: runs(lineRuns)})
		}
		if len(out) == 0 {
			out = append(out, xmlParagraph{PPr: paragraphProperties(StyleCode, nil, style.Paragraph{})})
		}
		return out
	case Table:
		// Word rejects rows without cells.
		if v.Columns() == 0 {
			return nil
		}
		return []any{w.table(v)}
	case HorizontalRule:
		return []any{xmlParagraph{Runs: runs([]Run{{Text: RuleText}})}}
	case ImagePlaceholder:
		return []any{xmlParagraph{Runs: runs([]Run{{Text: ImageText(v.Caption), Style: style.Context{}.WithItalic()}})}}
	}
	return nil
}

func (w *writer) paragraph(p Paragraph) xmlParagraph {
	styleID := styleIDFromName(p.Style)
	var numPr *xmlNumPr

	if p.List != ListNone {
		if styleID == "" {
			styleID = StyleListBullet
			if p.List == ListNumbered {
				styleID = StyleListNumber
			}
		}
		if w.lastParagraphList != p.List {
			w.lastParagraphNum = w.newList(p.List == ListNumbered)
		}
		numPr = &xmlNumPr{
			Ilvl:  xmlVal{Val: strconv.Itoa(clampListLevel(p.ListLevel))},
			NumID: xmlVal{Val: strconv.Itoa(w.lastParagraphNum)},
		}
	}
	w.lastParagraphList = p.List

	return xmlParagraph{PPr: paragraphProperties(styleID, numPr, p.Format), Runs: runs(p.Runs)}
}

func (w *writer) numForList(listID int, ordered bool) int {
	if num, ok := w.listNums[listID]; ok {
		return num
	}
	num := w.newList(ordered)
	w.listNums[listID] = num
	return num
}

func (w *writer) newList(ordered bool) int {
	w.lists = append(w.lists, ordered)
	return len(w.lists)
}

func (w *writer) table(t Table) xmlTable {
	cols := t.Columns()
	colWidth := textWidthTwips / cols

	tbl := xmlTable{
		TblPr: xmlTblPr{Style: xmlVal{Val: StyleTableGrid}, Width: xmlWidth{W: 0, Type: "auto"}},
	}
	for i := 0; i < cols; i++ {
		tbl.Grid.Cols = append(tbl.Grid.Cols, xmlGridCol{W: colWidth})
	}

	for _, row := range t.Rows {
		var xr xmlRow
		for i := 0; i < cols; i++ {
			var cell Cell
			if i < len(row) {
				cell = row[i]
			}
			xr.Cells = append(xr.Cells, xmlCell{
				Width:   xmlWidth{W: colWidth, Type: "dxa"},
				Content: w.cell(cell),
			})
		}
		tbl.Rows = append(tbl.Rows, xr)
	}
	return tbl
}

func (w *writer) cell(c Cell) []any {
	if len(c.Blocks) > 0 {
		return w.blocks(c.Blocks)
	}
	if c.Text == "" {
		return nil
	}
	return []any{xmlParagraph{Runs: runs(textRuns(c.Text, style.Context{}))}}
}

func paragraphProperties(styleID string, numPr *xmlNumPr, format style.Paragraph) *xmlPPr {
	ppr := &xmlPPr{NumPr: numPr}
	if styleID != "" && styleID != StyleNormal {
		ppr.PStyle = &xmlVal{Val: styleID}
	}
	if format.IndentPt > 0 {
		ppr.Ind = &xmlInd{Left: int(math.Round(format.IndentPt * 20))}
	}
	if jc := justification(format.Alignment); jc != "" {
		ppr.Jc = &xmlVal{Val: jc}
	}
	if ppr.PStyle == nil && ppr.NumPr == nil && ppr.Ind == nil && ppr.Jc == nil {
		return nil
	}
	return ppr
}

func justification(a style.Alignment) string {
	switch a {
	case style.AlignLeft:
		return "left"
	case style.AlignCenter:
		return "center"
	case style.AlignRight:
		return "right"
	case style.AlignJustify:
		return "both"
	}
	return ""
}

// styleIDFromName maps a style name such as "Heading 1" onto its ID.
func styleIDFromName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "")
}

// textRuns splits text on newlines into text and break runs.
func textRuns(text string, st style.Context) []Run {
	var out []Run
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out = append(out, Run{Break: true, Style: st})
		}
		if line != "" {
			out = append(out, Run{Text: line, Style: st})
		}
	}
	return out
}

func runs(in []Run) []xmlRun {
	out := make([]xmlRun, 0, len(in))
	for _, r := range in {
		if r.Break {
			out = append(out, xmlRun{RPr: runProperties(r.Style), Br: &xmlEmpty{}})
			continue
		}
		if r.Text == "" {
			continue
		}
		if strings.Contains(r.Text, "\n") {
			out = append(out, runs(textRuns(r.Text, r.Style))...)
			continue
		}
		out = append(out, xmlRun{
			RPr: runProperties(r.Style),
			T:   &xmlText{Space: "preserve", Text: r.Text},
		})
	}
	return out
}

func runProperties(c style.Context) *xmlRPr {
	if c.IsZero() {
		return nil
	}

	rpr := &xmlRPr{}
	if c.FontName != "" {
		rpr.RFonts = &xmlFonts{ASCII: c.FontName, HAnsi: c.FontName, EastAsia: c.FontName, CS: c.FontName}
	}
	if c.Bold {
		rpr.B = &xmlEmpty{}
	}
	if c.Italic {
		rpr.I = &xmlEmpty{}
	}
	if c.Strike {
		rpr.Strike = &xmlEmpty{}
	}
	if c.HasColor {
		rpr.Color = &xmlVal{Val: c.Color.Hex()}
	}
	if c.FontSize > 0 {
		rpr.Sz = &xmlVal{Val: strconv.Itoa(int(math.Round(c.FontSize * 2)))}
	}
	if name := c.Highlight.Name(); name != "" {
		rpr.Highlight = &xmlVal{Val: name}
	}
	if c.Underline {
		rpr.U = &xmlVal{Val: "single"}
	}
	switch {
	case c.Superscript:
		rpr.VertAlign = &xmlVal{Val: "superscript"}
	case c.Subscript:
		rpr.VertAlign = &xmlVal{Val: "subscript"}
	}
	return rpr
}

// ClampHeadingLevel limits a heading level to 1..6.
func ClampHeadingLevel(level int) int {
	return min(max(level, 1), 6)
}

func clampListLevel(level int) int {
	return min(max(level, 0), 8)
}
