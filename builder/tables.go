package builder

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/style"
	"golang.org/x/net/html"
)

// table collects every tr owned by n, at any depth under thead, tbody or
// tfoot but not inside nested tables, and pads the grid to the widest row.
// A caption becomes a paragraph before the table.
func (s *state) table(n *html.Node, st style.Context) ([]docx.Block, error) {
	sel := goquery.NewDocumentFromNode(n).Selection

	var out []docx.Block
	var err error

	sel.ChildrenFiltered("caption").EachWithBreak(func(_ int, caption *goquery.Selection) bool {
		var runs []docx.Run
		runs, err = s.inlineChildren(caption.Get(0), st)
		if err == nil && len(runs) > 0 {
			out = append(out, docx.Paragraph{Runs: runs})
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	var rows [][]docx.Cell
	spans := false
	sel.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if !tr.Closest("table").IsNodes(n) {
			return true
		}

		var row []docx.Cell
		tr.ChildrenFiltered("td, th").EachWithBreak(func(_ int, td *goquery.Selection) bool {
			if _, ok := td.Attr("colspan"); ok {
				spans = true
			}
			if _, ok := td.Attr("rowspan"); ok {
				spans = true
			}

			var cell docx.Cell
			cell, err = s.cell(td.Get(0), st)
			row = append(row, cell)
			return err == nil
		})
		rows = append(rows, row)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	if spans {
		s.addWarning(markup.WarningDroppedFeature, "table", "cell spans are not preserved")
	}
	grid := docx.PadTable(docx.Table{Rows: rows})
	if grid.Columns() == 0 {
		if len(rows) > 0 {
			s.addWarning(markup.WarningDroppedElement, "table", "table without cells was dropped")
		}
		return out, nil
	}
	return append(out, grid), nil
}

func (s *state) cell(n *html.Node, st style.Context) (docx.Cell, error) {
	st = s.styleFor(st, n)
	blocks, err := s.blocks(n, st, paragraphFormat(n))
	if err != nil {
		return docx.Cell{}, err
	}
	return docx.Cell{Blocks: blocks}, nil
}
