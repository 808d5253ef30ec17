package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Render serializes the children of root. Output is deterministic: text and
// attribute values are escaped the same way on every call and attributes are
// written in the order they are stored on the node.
func Render(root *html.Node) string {
	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		writeNode(&b, c)
	}
	return b.String()
}

// RenderNode serializes n including its own tags.
func RenderNode(n *html.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		writeElement(b, n)
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
	}
}

func writeElement(b *strings.Builder, n *html.Node) {
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if VoidTags[n.Data] {
		return
	}

	// The parser drops one newline directly after <pre>; write it back so a
	// reparse keeps leading newlines of the content.
	if n.Data == "pre" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode &&
		strings.HasPrefix(n.FirstChild.Data, "\n") {
		b.WriteByte('\n')
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}

	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteByte('>')
}
