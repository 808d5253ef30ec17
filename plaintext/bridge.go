// Package plaintext converts between plain text and canonical markup.
package plaintext

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// EmptyParagraph is the canonical form of a blank line.
const EmptyParagraph = "<p><br></p>"

// blankLine marks explicit empty paragraphs so newline collapsing leaves
// them alone. It is a private-use rune and is stripped from input first.
const blankLine = "\uE000"

var (
	strictPolicy = bluemonday.StrictPolicy()

	interBlockSpaceRe = regexp.MustCompile(`(?i)(<(?:/?(?:p|div|h[1-6]|li|ul|ol|blockquote|table|thead|tbody|tfoot|tr|td|th|caption|colgroup)|/pre|br|hr|col)\b[^>]*>)\s+(<)`)
	emptyParagraphRe  = regexp.MustCompile(`(?i)<p\b[^>]*>\s*(?:<br\s*/?>\s*)?</p\s*>`)
	cellBoundaryRe    = regexp.MustCompile(`(?i)</t[dh]\s*>(<t[dh]\b)`)
	lineBreakRe       = regexp.MustCompile(`(?i)<br\b[^>]*>`)
	blockCloseRe      = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|li|ul|ol|blockquote|pre|tr|table|caption)\s*>|<hr\b[^>]*>`)
	newlineRunRe      = regexp.MustCompile(`\n{3,}`)
)

// ToCanonical turns plain text into one paragraph per line. Blank lines
// become explicit empty paragraphs.
func ToCanonical(text string) string {
	lines := strings.Split(NormalizeNewlines(text), "\n")

	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			b.WriteString(EmptyParagraph)
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}

// FromCanonical projects markup onto plain text. Line breaks and closing
// block tags end lines, table cells on a row are joined with " | ", runs of
// three or more newlines collapse to two and the result is trimmed.
func FromCanonical(markup string) string {
	s := NormalizeNewlines(strings.ReplaceAll(markup, blankLine, ""))

	// Matches consume the next tag's '<', so nested closings need repeated passes.
	for {
		next := interBlockSpaceRe.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	s = emptyParagraphRe.ReplaceAllString(s, blankLine+"\n")
	s = cellBoundaryRe.ReplaceAllString(s, " | $1")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = blockCloseRe.ReplaceAllString(s, "\n")

	s = html.UnescapeString(strictPolicy.Sanitize(s))

	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	s = strings.ReplaceAll(s, blankLine, "")
	s = strings.TrimSpace(s)

	return norm.NFC.String(s)
}

// NormalizeNewlines converts CRLF and CR line endings to LF.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
