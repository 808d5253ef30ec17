package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/rgonek/richdoc/style"
)

const maxPartSize = 64 << 20

const officeDocumentRel = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

// Elements whose children are read as if they were the parent's.
var transparentElements = map[string]bool{
	"sdt": true, "sdtContent": true, "customXml": true, "ins": true,
	"moveTo": true, "smartTag": true, "hyperlink": true, "fldSimple": true,
}

// Read parses a .docx package. Errors wrap ErrInvalidDocument.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mainPath := mainDocumentPath(files)
	mainFile, ok := files[mainPath]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidDocument, mainPath)
	}

	r := &reader{styles: map[string]string{}, numbering: map[string]map[int]string{}}
	dir := path.Dir(mainPath)
	if f, ok := files[path.Join(dir, "styles.xml")]; ok {
		if err := r.loadStyles(f); err != nil {
			return nil, err
		}
	}
	if f, ok := files[path.Join(dir, "numbering.xml")]; ok {
		if err := r.loadNumbering(f); err != nil {
			return nil, err
		}
	}

	body, err := readPart(mainFile)
	if err != nil {
		return nil, err
	}
	blocks, err := r.parseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, mainPath, err)
	}
	return &Document{Blocks: blocks}, nil
}

func mainDocumentPath(files map[string]*zip.File) string {
	const fallback = "word/document.xml"

	f, ok := files["_rels/.rels"]
	if !ok {
		return fallback
	}
	data, err := readPart(f)
	if err != nil {
		return fallback
	}

	var rels struct {
		Items []struct {
			Type   string `xml:"Type,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return fallback
	}
	for _, rel := range rels.Items {
		if rel.Type == officeDocumentRel {
			return strings.TrimPrefix(rel.Target, "/")
		}
	}
	return fallback
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInvalidDocument, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidDocument, f.Name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidDocument, f.Name, maxPartSize)
	}
	return data, nil
}

type reader struct {
	// style ID -> style name
	styles map[string]string
	// numId -> ilvl -> numFmt
	numbering map[string]map[int]string
}

func (r *reader) loadStyles(f *zip.File) error {
	data, err := readPart(f)
	if err != nil {
		return err
	}

	var part struct {
		Styles []struct {
			ID   string `xml:"styleId,attr"`
			Name struct {
				Val string `xml:"val,attr"`
			} `xml:"name"`
		} `xml:"style"`
	}
	if err := xml.Unmarshal(data, &part); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, f.Name, err)
	}
	for _, s := range part.Styles {
		if s.ID != "" && s.Name.Val != "" {
			r.styles[s.ID] = s.Name.Val
		}
	}
	return nil
}

func (r *reader) loadNumbering(f *zip.File) error {
	data, err := readPart(f)
	if err != nil {
		return err
	}

	var part struct {
		Abstract []struct {
			ID     string `xml:"abstractNumId,attr"`
			Levels []struct {
				Ilvl   int `xml:"ilvl,attr"`
				NumFmt struct {
					Val string `xml:"val,attr"`
				} `xml:"numFmt"`
			} `xml:"lvl"`
		} `xml:"abstractNum"`
		Nums []struct {
			ID         string `xml:"numId,attr"`
			AbstractID struct {
				Val string `xml:"val,attr"`
			} `xml:"abstractNumId"`
		} `xml:"num"`
	}
	if err := xml.Unmarshal(data, &part); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, f.Name, err)
	}

	formats := make(map[string]map[int]string, len(part.Abstract))
	for _, a := range part.Abstract {
		levels := make(map[int]string, len(a.Levels))
		for _, l := range a.Levels {
			levels[l.Ilvl] = l.NumFmt.Val
		}
		formats[a.ID] = levels
	}
	for _, n := range part.Nums {
		if levels, ok := formats[n.AbstractID.Val]; ok {
			r.numbering[n.ID] = levels
		}
	}
	return nil
}

func (r *reader) parseDocument(data []byte) ([]Block, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no body element")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "body" {
			return r.readBlocks(d, "body")
		}
	}
}

// readBlocks reads paragraphs and tables until the end element named end.
func (r *reader) readBlocks(d *xml.Decoder, end string) ([]Block, error) {
	var blocks []Block
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				p, err := r.readParagraph(d)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, p)
			case t.Name.Local == "tbl":
				tbl, err := r.readTable(d)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, tbl)
			case transparentElements[t.Name.Local]:
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == end {
				return blocks, nil
			}
		}
	}
}

func (r *reader) readParagraph(d *xml.Decoder) (Paragraph, error) {
	var p Paragraph
	for {
		tok, err := d.Token()
		if err != nil {
			return p, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "pPr":
				if err := r.readParagraphProperties(d, &p); err != nil {
					return p, err
				}
			case t.Name.Local == "r":
				runs, err := r.readRun(d)
				if err != nil {
					return p, err
				}
				p.Runs = append(p.Runs, runs...)
			case transparentElements[t.Name.Local]:
			default:
				if err := d.Skip(); err != nil {
					return p, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return p, nil
			}
		}
	}
}

func (r *reader) readParagraphProperties(d *xml.Decoder, p *Paragraph) error {
	var numID string
	ilvl := 0

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "numPr":
				continue
			case "pStyle":
				id := attr(t, "val")
				if name, ok := r.styles[id]; ok {
					p.Style = name
				} else {
					p.Style = id
				}
			case "numId":
				numID = attr(t, "val")
			case "ilvl":
				ilvl, _ = strconv.Atoi(attr(t, "val"))
			case "jc":
				p.Format.Alignment = alignment(attr(t, "val"))
			case "ind":
				left := attr(t, "left")
				if left == "" {
					left = attr(t, "start")
				}
				if twips, err := strconv.Atoi(left); err == nil && twips > 0 {
					p.Format.IndentPt = float64(twips) / 20
				}
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "pPr" {
				if numID != "" && numID != "0" {
					p.List = r.listKind(numID, ilvl)
					p.ListLevel = ilvl
				}
				return nil
			}
		}
	}
}

func (r *reader) listKind(numID string, ilvl int) ListKind {
	levels, ok := r.numbering[numID]
	if !ok {
		return ListBullet
	}
	if levels[ilvl] == "bullet" {
		return ListBullet
	}
	return ListNumbered
}

func alignment(val string) style.Alignment {
	switch val {
	case "left", "start":
		return style.AlignLeft
	case "center":
		return style.AlignCenter
	case "right", "end":
		return style.AlignRight
	case "both", "distribute":
		return style.AlignJustify
	}
	return style.AlignDefault
}

func (r *reader) readRun(d *xml.Decoder) ([]Run, error) {
	var (
		st   style.Context
		out  []Run
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Run{Text: text.String(), Style: st})
			text.Reset()
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if st, err = readRunProperties(d); err != nil {
					return nil, err
				}
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return nil, err
				}
				text.WriteString(s)
			case "tab":
				text.WriteByte('\t')
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "br", "cr":
				flush()
				out = append(out, Run{Break: true, Style: st})
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "noBreakHyphen":
				text.WriteByte('-')
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "drawing", "pict":
				desc, err := imageDescription(d)
				if err != nil {
					return nil, err
				}
				text.WriteString(ImageText(desc))
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				flush()
				return out, nil
			}
		}
	}
}

func readRunProperties(d *xml.Decoder) (style.Context, error) {
	var c style.Context
	for {
		tok, err := d.Token()
		if err != nil {
			return c, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			val := attr(t, "val")
			switch t.Name.Local {
			case "b":
				c.Bold = onOff(val)
			case "i":
				c.Italic = onOff(val)
			case "u":
				c.Underline = val != "none"
			case "strike", "dstrike":
				c.Strike = onOff(val)
			case "vertAlign":
				switch val {
				case "superscript":
					c = c.WithSuperscript()
				case "subscript":
					c = c.WithSubscript()
				}
			case "color":
				if rgb, ok := style.ParseColor(val); ok && val != "auto" {
					c = c.WithColor(rgb)
				}
			case "sz":
				if half, err := strconv.Atoi(val); err == nil && half > 0 {
					c.FontSize = float64(half) / 2
				}
			case "highlight":
				if h, ok := style.HighlightFromName(val); ok {
					c.Highlight = h
				}
			case "shd":
				fill := attr(t, "fill")
				if rgb, ok := style.ParseColor(fill); ok && c.Highlight == style.HighlightNone && !strings.EqualFold(fill, "FFFFFF") {
					c.Highlight = style.NearestHighlight(rgb)
				}
			case "rFonts":
				for _, key := range []string{"ascii", "hAnsi", "eastAsia", "cs"} {
					if name := attr(t, key); name != "" {
						c.FontName = name
						break
					}
				}
			}
			if err := d.Skip(); err != nil {
				return c, err
			}
		case xml.EndElement:
			if t.Name.Local == "rPr" {
				return c, nil
			}
		}
	}
}

// imageDescription consumes a drawing or VML picture and returns its
// description, if any.
func imageDescription(d *xml.Decoder) (string, error) {
	var desc string
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if desc == "" {
				for _, key := range []string{"descr", "title", "alt"} {
					if v := strings.TrimSpace(attr(t, key)); v != "" {
						desc = v
						break
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return desc, nil
}

func (r *reader) readTable(d *xml.Decoder) (Table, error) {
	var t Table
	for {
		tok, err := d.Token()
		if err != nil {
			return t, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case el.Name.Local == "tr":
				row, err := r.readRow(d)
				if err != nil {
					return t, err
				}
				t.Rows = append(t.Rows, row)
			case transparentElements[el.Name.Local]:
			default:
				if err := d.Skip(); err != nil {
					return t, err
				}
			}
		case xml.EndElement:
			if el.Name.Local == "tbl" {
				return PadTable(t), nil
			}
		}
	}
}

func (r *reader) readRow(d *xml.Decoder) ([]Cell, error) {
	var row []Cell
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case el.Name.Local == "tc":
				blocks, err := r.readBlocks(d, "tc")
				if err != nil {
					return nil, err
				}
				row = append(row, Cell{Blocks: blocks})
			case transparentElements[el.Name.Local]:
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if el.Name.Local == "tr" {
				return row, nil
			}
		}
	}
}

// PadTable pads short rows with empty cells so every row is as long as the
// longest one.
func PadTable(t Table) Table {
	cols := t.Columns()
	rows := make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		padded := make([]Cell, cols)
		copy(padded, row)
		rows[i] = padded
	}
	return Table{Rows: rows}
}

func attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func onOff(val string) bool {
	switch strings.ToLower(val) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}
