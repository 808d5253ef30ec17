package builder

import (
	"testing"

	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, cfg Config) *Builder {
	t.Helper()
	b, err := New(cfg)
	require.NoError(t, err)
	return b
}

func build(t *testing.T, markupText string) []docx.Block {
	t.Helper()
	res, err := newTestBuilder(t, Config{}).Build(markupText, "")
	require.NoError(t, err)
	require.NotNil(t, res.Document)
	return res.Document.Blocks
}

func TestBuildTableIsRectangular(t *testing.T) {
	blocks := build(t, `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td><td>e</td></tr></table>`)

	require.Len(t, blocks, 1)
	tbl, ok := blocks[0].(docx.Table)
	require.True(t, ok)
	require.Len(t, tbl.Rows, 2)
	assert.Len(t, tbl.Rows[0], 3)
	assert.Len(t, tbl.Rows[1], 3)
	assert.Equal(t, "", tbl.Rows[0][2].PlainText())
	assert.Equal(t, "a | b | \nc | d | e", docx.BlockText(tbl))
}

func TestBuildTableWithoutCells(t *testing.T) {
	b := newTestBuilder(t, Config{})
	res, err := b.Build(`<p>a</p><table><tbody><tr></tr><tr></tr></tbody></table><p>b</p>`, "")
	require.NoError(t, err)

	blocks := res.Document.Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", docx.BlockText(blocks[0]))
	assert.Equal(t, "b", docx.BlockText(blocks[1]))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, markup.WarningDroppedElement, res.Warnings[0].Type)

	data, err := b.Marshal(res)
	require.NoError(t, err)
	doc, err := docx.Read(data)
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 2)
}

func TestBuildTableSections(t *testing.T) {
	blocks := build(t, `<table><caption>Totals</caption><thead><tr><th>H1</th><th>H2</th></tr></thead>`+
		`<tbody><tr><td>x</td></tr></tbody><tfoot><tr><td>f1</td><td>f2</td></tr></tfoot></table>`)

	require.Len(t, blocks, 2)
	assert.Equal(t, "Totals", docx.BlockText(blocks[0]))

	tbl := blocks[1].(docx.Table)
	require.Len(t, tbl.Rows, 3)
	for _, row := range tbl.Rows {
		assert.Len(t, row, 2)
	}

	header := tbl.Rows[0][0].Blocks[0].(docx.Paragraph)
	assert.True(t, header.Runs[0].Style.Bold)
	body := tbl.Rows[1][0].Blocks[0].(docx.Paragraph)
	assert.False(t, body.Runs[0].Style.Bold)
}

func TestBuildNestedTableRowsStayInside(t *testing.T) {
	blocks := build(t, `<table><tr><td><table><tr><td>in1</td></tr><tr><td>in2</td></tr></table></td><td>b</td></tr></table>`)

	require.Len(t, blocks, 1)
	outer := blocks[0].(docx.Table)
	require.Len(t, outer.Rows, 1)
	require.Len(t, outer.Rows[0], 2)

	inner, ok := outer.Rows[0][0].Blocks[0].(docx.Table)
	require.True(t, ok)
	assert.Len(t, inner.Rows, 2)
}

func TestBuildTableSpansWarn(t *testing.T) {
	res, err := newTestBuilder(t, Config{}).Build(`<table><tr><td colspan="2">a</td></tr></table>`, "")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, markup.WarningDroppedFeature, res.Warnings[0].Type)
}

func TestBuildHeadings(t *testing.T) {
	blocks := build(t, `<h1>Title</h1><h3 style="text-align: center">Sub</h3>`)

	require.Len(t, blocks, 2)
	h1 := blocks[0].(docx.Heading)
	assert.Equal(t, 1, h1.Level)
	assert.Equal(t, "Title", docx.RunsText(h1.Runs))

	h3 := blocks[1].(docx.Heading)
	assert.Equal(t, 3, h3.Level)
	assert.Equal(t, style.AlignCenter, h3.Format.Alignment)
}

func TestBuildInlineStyles(t *testing.T) {
	blocks := build(t, `<p>Hello <strong>bold <em>both</em></strong> <span style="color: #ff0000; font-size: 12px">red</span></p>`)

	require.Len(t, blocks, 1)
	runs := blocks[0].(docx.Paragraph).Runs
	require.Len(t, runs, 5)

	assert.Equal(t, docx.Run{Text: "Hello "}, runs[0])
	assert.Equal(t, docx.Run{Text: "bold ", Style: style.Context{}.WithBold()}, runs[1])
	assert.Equal(t, docx.Run{Text: "both", Style: style.Context{}.WithBold().WithItalic()}, runs[2])
	assert.Equal(t, docx.Run{Text: " "}, runs[3])

	red := runs[4]
	assert.Equal(t, "red", red.Text)
	assert.Equal(t, style.RGB{R: 255}, red.Style.Color)
	assert.True(t, red.Style.HasColor)
	assert.InDelta(t, 9, red.Style.FontSize, 0.001)
}

func TestBuildStyleInheritanceDoesNotLeak(t *testing.T) {
	blocks := build(t, `<p><u>a<sub>b</sub><sup>c</sup></u>d</p>`)

	runs := blocks[0].(docx.Paragraph).Runs
	require.Len(t, runs, 4)
	assert.True(t, runs[0].Style.Underline)
	assert.True(t, runs[1].Style.Subscript)
	assert.False(t, runs[1].Style.Superscript)
	assert.True(t, runs[2].Style.Superscript)
	assert.False(t, runs[2].Style.Subscript)
	assert.True(t, runs[3].Style.IsZero())
}

func TestBuildHighlightFromBackground(t *testing.T) {
	blocks := build(t, `<p><span style="background-color: rgb(250,250,0)">x</span><mark>m</mark></p>`)

	runs := blocks[0].(docx.Paragraph).Runs
	require.Len(t, runs, 1)
	assert.Equal(t, "xm", runs[0].Text)
	assert.Equal(t, style.HighlightYellow, runs[0].Style.Highlight)
}

func TestBuildColorIgnore(t *testing.T) {
	b := newTestBuilder(t, Config{ColorMode: ColorIgnore})
	res, err := b.Build(`<p><span style="color: red; background-color: blue">x</span><a href="https://example.com">l</a></p>`, "")
	require.NoError(t, err)

	runs := res.Document.Blocks[0].(docx.Paragraph).Runs
	for _, r := range runs {
		assert.False(t, r.Style.HasColor)
		assert.Equal(t, style.HighlightNone, r.Style.Highlight)
	}
	assert.True(t, runs[len(runs)-1].Style.Underline)
}

func TestBuildCodeFont(t *testing.T) {
	blocks := build(t, `<p><code>x := 1</code></p>`)
	assert.Equal(t, style.DefaultMonospaceFont, blocks[0].(docx.Paragraph).Runs[0].Style.FontName)

	b := newTestBuilder(t, Config{MonospaceFont: "Consolas"})
	res, err := b.Build(`<p><code>x</code></p>`, "")
	require.NoError(t, err)
	assert.Equal(t, "Consolas", res.Document.Blocks[0].(docx.Paragraph).Runs[0].Style.FontName)
}

func TestBuildLineBreaks(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		runs   int
	}{
		{"break between text", `<p>a<br>b</p>`, "a\nb", 3},
		{"trailing break dropped", `<p>a<br>b<br></p>`, "a\nb", 3},
		{"empty paragraph", `<p><br></p>`, "", 0},
		{"whitespace collapsed", "<p>  a \n\t b  </p>", "a b", 1},
		{"space before break trimmed", `<p>a <br> b</p>`, "a\nb", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := build(t, tt.markup)
			require.Len(t, blocks, 1)
			p := blocks[0].(docx.Paragraph)
			assert.Equal(t, tt.want, docx.RunsText(p.Runs))
			assert.Len(t, p.Runs, tt.runs)
		})
	}
}

func TestBuildLists(t *testing.T) {
	blocks := build(t, `<ul><li>a</li><li>b<ul><li>c</li></ul></li></ul><ol><li>one</li></ol>`)

	require.Len(t, blocks, 4)
	a := blocks[0].(docx.ListItem)
	b := blocks[1].(docx.ListItem)
	c := blocks[2].(docx.ListItem)
	one := blocks[3].(docx.ListItem)

	assert.Equal(t, "a", docx.RunsText(a.Runs))
	assert.False(t, a.Ordered)
	assert.Equal(t, 0, a.Level)
	assert.Equal(t, a.ListID, b.ListID)

	assert.Equal(t, "c", docx.RunsText(c.Runs))
	assert.Equal(t, 1, c.Level)
	assert.NotEqual(t, a.ListID, c.ListID)

	assert.True(t, one.Ordered)
	assert.NotEqual(t, a.ListID, one.ListID)
}

func TestBuildListEdgeCases(t *testing.T) {
	t.Run("text without items becomes one item", func(t *testing.T) {
		blocks := build(t, `<ul>loose <strong>text</strong></ul>`)
		require.Len(t, blocks, 1)
		item := blocks[0].(docx.ListItem)
		assert.Equal(t, "loose text", docx.RunsText(item.Runs))
	})

	t.Run("paragraphs inside an item", func(t *testing.T) {
		blocks := build(t, `<ol><li><p>first</p><p>second</p></li></ol>`)
		require.Len(t, blocks, 1)
		item := blocks[0].(docx.ListItem)
		assert.True(t, item.Ordered)
		assert.Equal(t, "first\nsecond", docx.RunsText(item.Runs))
	})

	t.Run("empty list", func(t *testing.T) {
		res, err := newTestBuilder(t, Config{}).Build(`<ul></ul>`, "fallback")
		require.NoError(t, err)
		require.Len(t, res.Document.Blocks, 1)
		assert.Equal(t, "fallback", docx.BlockText(res.Document.Blocks[0]))
	})
}

func TestBuildPreKeepsLinesVerbatim(t *testing.T) {
	blocks := build(t, "<pre>line1\n  <strong>line2</strong>\n</pre>")

	require.Len(t, blocks, 1)
	code := blocks[0].(docx.CodeBlock)
	assert.Equal(t, []string{"line1", "  line2"}, code.Lines)
}

func TestBuildBlockquote(t *testing.T) {
	blocks := build(t, `<blockquote><p>q1</p><p style="margin-left: 12pt">q2</p></blockquote>`)

	require.Len(t, blocks, 2)
	q1 := blocks[0].(docx.BlockQuote)
	assert.Equal(t, "q1", docx.RunsText(q1.Runs))
	assert.InDelta(t, 36, q1.IndentPt, 0.001)

	q2 := blocks[1].(docx.BlockQuote)
	assert.InDelta(t, 48, q2.IndentPt, 0.001)
}

func TestBuildImagesAndRules(t *testing.T) {
	blocks := build(t, `<p>see <img src="x.png" alt="Logo"></p><img src="a.png"><hr><p>end</p>`)

	require.Len(t, blocks, 4)
	assert.Equal(t, "see [Image] Logo", docx.BlockText(blocks[0]))
	assert.Equal(t, docx.ImagePlaceholder{Caption: "a.png"}, blocks[1])
	assert.Equal(t, docx.HorizontalRule{}, blocks[2])
	assert.Equal(t, "end", docx.BlockText(blocks[3]))
}

func TestBuildBlockInsideInline(t *testing.T) {
	res, err := newTestBuilder(t, Config{}).Build(`<span style="font-weight: bold">before<div>inside <em>x</em></div></span>`, "")
	require.NoError(t, err)

	blocks := res.Document.Blocks
	require.Len(t, blocks, 1)
	p := blocks[0].(docx.Paragraph)
	assert.Equal(t, "before\ninside x", docx.RunsText(p.Runs))
	for _, r := range p.Runs {
		assert.True(t, r.Style.Bold)
		assert.False(t, r.Style.Italic)
	}

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, markup.WarningFlattenedBlock, res.Warnings[0].Type)
}

func TestBuildTopLevelTextAndDivs(t *testing.T) {
	blocks := build(t, `loose<div style="text-align: right">right <p>para</p></div>`)

	require.Len(t, blocks, 3)
	assert.Equal(t, "loose", docx.BlockText(blocks[0]))

	right := blocks[1].(docx.Paragraph)
	assert.Equal(t, "right", docx.RunsText(right.Runs))
	assert.Equal(t, style.AlignRight, right.Format.Alignment)
	assert.Equal(t, "para", docx.BlockText(blocks[2]))
}

func TestBuildFallback(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		fallback string
		want     []string
	}{
		{"empty markup uses fallback lines", "", "l1\r\nl2", []string{"l1", "l2"}},
		{"whitespace markup", "  \n ", "only", []string{"only"}},
		{"no fallback yields one empty paragraph", "", "", []string{""}},
		{"markup wins over fallback", "<p>x</p>", "ignored", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestBuilder(t, Config{}).Build(tt.markup, tt.fallback)
			require.NoError(t, err)

			var got []string
			for _, b := range res.Document.Blocks {
				got = append(got, docx.BlockText(b))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderMarshal(t *testing.T) {
	b := newTestBuilder(t, Config{MonospaceFont: "Consolas"})
	res, err := b.Build(`<h2>T</h2><pre>code</pre>`, "")
	require.NoError(t, err)

	data, err := b.Marshal(res)
	require.NoError(t, err)

	doc, err := docx.Read(data)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "heading 2", doc.Blocks[0].(docx.Paragraph).Style)
	assert.Equal(t, "Consolas", doc.Blocks[1].(docx.Paragraph).Runs[0].Style.FontName)
}

func BenchmarkBuild(b *testing.B) {
	input := `<h1>Report</h1><p>Intro <strong>bold</strong> and <em>italic</em>.</p>` +
		`<ul><li>one</li><li>two<ol><li>nested</li></ol></li></ul>` +
		`<table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table><pre>x\ny</pre>`
	bl, err := New(Config{})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bl.Build(input, ""); err != nil {
			b.Fatal(err)
		}
	}
}
