// Package extractor projects the docx block model onto canonical markup and
// plain text.
package extractor

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/rgonek/richdoc/docx"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/sanitizer"
	"github.com/rgonek/richdoc/style"
)

var (
	headingStyleRe = regexp.MustCompile(`(?i)^(?:heading|titre|überschrift|título|titolo)\s*([1-9])$`)
	listStyleRe    = regexp.MustCompile(`(?i)^list\s*(bullet|number)(?:\s*[1-9])?$`)
	ruleTextRe     = regexp.MustCompile(`^-{10,}$`)
)

// Style names are compared lowercased with spaces removed, so both names
// ("Intense Quote") and IDs ("IntenseQuote") match.
var (
	quoteStyles = map[string]bool{"quote": true, "intensequote": true}
	codeStyles  = map[string]bool{"sourcecode": true, "htmlpreformatted": true, "code": true}
)

// Result holds the canonical markup and plain text of a document.
type Result struct {
	Plaintext string           `json:"plaintext"`
	HTML      string           `json:"html"`
	Warnings  []markup.Warning `json:"warnings,omitempty"`
}

// Extractor converts documents to markup. It is safe for concurrent use.
type Extractor struct {
	config    Config
	sanitizer *sanitizer.Sanitizer
}

// New creates an Extractor with the given config.
func New(config Config) (*Extractor, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	z, err := sanitizer.New(cfg.Sanitizer)
	if err != nil {
		return nil, fmt.Errorf("invalid sanitizer config: %w", err)
	}
	return &Extractor{config: cfg, sanitizer: z}, nil
}

// ExtractBytes reads a .docx package and extracts it.
func (e *Extractor) ExtractBytes(data []byte) (Result, error) {
	doc, err := docx.Read(data)
	if err != nil {
		return Result{}, err
	}
	return e.Extract(doc)
}

// Extract projects doc onto canonical markup and plain text.
func (e *Extractor) Extract(doc *docx.Document) (Result, error) {
	if doc == nil {
		return Result{}, fmt.Errorf("document is nil")
	}

	items := make([]item, 0, len(doc.Blocks))
	lines := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		items = append(items, e.classify(b))
		lines = append(lines, docx.BlockText(b))
	}

	cleaned := e.sanitizer.Sanitize(render(items))
	return Result{
		Plaintext: strings.Trim(strings.Join(lines, "\n"), "\n"),
		HTML:      cleaned.HTML,
		Warnings:  cleaned.Warnings,
	}, nil
}

type itemKind int

const (
	itemBlock itemKind = iota
	itemListEntry
	itemQuote
	itemCode
)

// item is one block projected to markup. Lists, quotes and code lines are
// grouped with their neighbours when rendered.
type item struct {
	kind itemKind
	// list container tag for itemListEntry
	container string
	// element markup for itemBlock, inner markup otherwise; raw text for
	// itemCode
	body string
}

func (e *Extractor) classify(b docx.Block) item {
	switch v := b.(type) {
	case docx.Heading:
		return item{body: e.heading(v.Level, v.Runs, v.Format)}
	case docx.ListItem:
		container := "ul"
		if v.Ordered {
			container = "ol"
		}
		return item{kind: itemListEntry, container: container, body: e.runs(v.Runs)}
	case docx.BlockQuote:
		return item{kind: itemQuote, body: e.runs(v.Runs)}
	case docx.CodeBlock:
		return item{kind: itemCode, body: strings.Join(v.Lines, "\n")}
	case docx.Table:
		return item{body: table(v)}
	case docx.HorizontalRule:
		return item{body: "<hr>"}
	case docx.ImagePlaceholder:
		return item{body: "<p>" + html.EscapeString(docx.ImageText(v.Caption)) + "</p>"}
	case docx.Paragraph:
		return e.paragraph(v)
	}
	return item{}
}

func (e *Extractor) paragraph(p docx.Paragraph) item {
	name := strings.TrimSpace(p.Style)
	key := strings.ToLower(strings.Join(strings.Fields(name), ""))
	listKind := ""
	if m := listStyleRe.FindStringSubmatch(name); m != nil {
		listKind = strings.ToLower(m[1])
	}

	if level, ok := headingLevel(name); ok {
		return item{body: e.heading(level, p.Runs, p.Format)}
	}

	switch {
	case p.List == docx.ListBullet:
		return item{kind: itemListEntry, container: "ul", body: e.runs(p.Runs)}
	case p.List == docx.ListNumbered:
		return item{kind: itemListEntry, container: "ol", body: e.runs(p.Runs)}
	case listKind == "bullet":
		return item{kind: itemListEntry, container: "ul", body: e.runs(p.Runs)}
	case listKind == "number":
		return item{kind: itemListEntry, container: "ol", body: e.runs(p.Runs)}
	case quoteStyles[key]:
		return item{kind: itemQuote, body: e.runs(p.Runs)}
	case codeStyles[key]:
		return item{kind: itemCode, body: docx.RunsText(p.Runs)}
	}

	if ruleTextRe.MatchString(strings.TrimSpace(docx.RunsText(p.Runs))) {
		return item{body: "<hr>"}
	}
	return item{body: "<p" + formatAttr(p.Format) + ">" + paragraphBody(e.runs(p.Runs)) + "</p>"}
}

func headingLevel(styleName string) (int, bool) {
	switch strings.ToLower(styleName) {
	case "title":
		return 1, true
	case "subtitle":
		return 2, true
	}
	m := headingStyleRe.FindStringSubmatch(styleName)
	if m == nil {
		return 0, false
	}
	level, _ := strconv.Atoi(m[1])
	return level, true
}

func (e *Extractor) heading(level int, runs []docx.Run, format style.Paragraph) string {
	level = docx.ClampHeadingLevel(level + e.config.HeadingOffset)
	tag := "h" + strconv.Itoa(level)
	return "<" + tag + formatAttr(format) + ">" + e.runs(runs) + "</" + tag + ">"
}

func render(items []item) string {
	var b strings.Builder
	for i := 0; i < len(items); {
		it := items[i]
		j := i + 1
		switch it.kind {
		case itemListEntry:
			for j < len(items) && items[j].kind == itemListEntry && items[j].container == it.container {
				j++
			}
			b.WriteString("<" + it.container + ">")
			for _, entry := range items[i:j] {
				b.WriteString("<li>" + entry.body + "</li>")
			}
			b.WriteString("</" + it.container + ">")
		case itemQuote:
			for j < len(items) && items[j].kind == itemQuote {
				j++
			}
			b.WriteString("<blockquote>")
			for _, entry := range items[i:j] {
				b.WriteString("<p>" + paragraphBody(entry.body) + "</p>")
			}
			b.WriteString("</blockquote>")
		case itemCode:
			for j < len(items) && items[j].kind == itemCode {
				j++
			}
			lines := make([]string, 0, j-i)
			for _, entry := range items[i:j] {
				lines = append(lines, entry.body)
			}
			code := html.EscapeString(strings.Join(lines, "\n"))
			b.WriteString("<pre>")
			// The parser drops one newline right after <pre>.
			if strings.HasPrefix(code, "\n") {
				b.WriteString("\n")
			}
			b.WriteString(code + "</pre>")
		default:
			b.WriteString(it.body)
		}
		i = j
	}
	return b.String()
}

func paragraphBody(inner string) string {
	if inner == "" {
		return "<br>"
	}
	return inner
}

func formatAttr(format style.Paragraph) string {
	var decls []style.Declaration
	if format.Alignment != style.AlignDefault {
		decls = append(decls, style.Declaration{Property: "text-align", Value: string(format.Alignment)})
	}
	if format.IndentPt > 0 {
		decls = append(decls, style.Declaration{Property: "margin-left", Value: points(format.IndentPt)})
	}
	if len(decls) == 0 {
		return ""
	}
	return ` style="` + html.EscapeString(style.FormatDeclarations(decls)) + `"`
}

func table(t docx.Table) string {
	var b strings.Builder
	b.WriteString("<table><tbody>")
	for _, row := range docx.PadTable(t).Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + textMarkup(cell.PlainText()) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// textMarkup escapes text and turns newlines into line breaks.
func textMarkup(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}

func points(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}
