// Package sanitizer reduces untrusted editor markup to the canonical
// allowlisted subset defined by package markup.
package sanitizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/plaintext"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	scriptRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleRe   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// Result holds the sanitized markup and what was removed on the way.
type Result struct {
	HTML     string           `json:"html"`
	Warnings []markup.Warning `json:"warnings,omitempty"`
}

// Sanitizer cleans markup. It is safe for concurrent use.
type Sanitizer struct {
	config Config
}

type state struct {
	config   Config
	warnings []markup.Warning
	quiet    bool
}

// New creates a Sanitizer with the given config.
func New(config Config) (*Sanitizer, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sanitizer{config: cfg}, nil
}

var defaultSanitizer = &Sanitizer{config: Config{}.applyDefaults()}

// Sanitize cleans raw with the default configuration. It never fails and
// never returns an empty document.
func Sanitize(raw string) string {
	return defaultSanitizer.Sanitize(raw).HTML
}

// Sanitize cleans raw. Sanitizing the returned markup again yields the same
// markup.
func (z *Sanitizer) Sanitize(raw string) Result {
	s := &state{config: z.config}

	out, err := s.pass(raw)
	if err != nil {
		s.addWarning(markup.WarningParseFallback, "", fmt.Sprintf("markup could not be parsed, kept as plain text: %v", err))
		return Result{HTML: plaintext.ToCanonical(raw), Warnings: s.warnings}
	}

	// Re-parsing can re-nest elements that unwrapping brought together;
	// repeat until the output is stable.
	for i := 1; i < z.config.MaxPasses; i++ {
		again := &state{config: z.config, quiet: true}
		next, err := again.pass(out)
		if err != nil || next == out {
			break
		}
		out = next
	}

	return Result{HTML: out, Warnings: s.warnings}
}

func (s *state) pass(raw string) (string, error) {
	cleaned := scriptRe.ReplaceAllString(raw, "")
	cleaned = styleRe.ReplaceAllString(cleaned, "")
	cleaned = commentRe.ReplaceAllString(cleaned, "")

	body, err := markup.ParseBody(cleaned)
	if err != nil {
		return "", err
	}

	s.cleanChildren(body)

	out := markup.Render(body)
	if markup.IsBlank(out) {
		return plaintext.EmptyParagraph, nil
	}
	return out, nil
}

func (s *state) cleanChildren(n *html.Node) {
	for _, c := range markup.Children(n) {
		switch c.Type {
		case html.TextNode:
		case html.ElementNode:
			s.cleanElement(c)
		default:
			n.RemoveChild(c)
		}
	}
}

func (s *state) cleanElement(n *html.Node) {
	tag := strings.ToLower(n.Data)

	if n.Namespace != "" || markup.Dropped[tag] {
		n.Parent.RemoveChild(n)
		s.addWarning(markup.WarningDroppedElement, tag, fmt.Sprintf("removed <%s> and its content", tag))
		return
	}

	if canonical, ok := markup.Renamed[tag]; ok {
		tag = canonical
		n.Data = canonical
		n.DataAtom = atom.Lookup([]byte(canonical))
	}

	if !markup.AllowedTags[tag] {
		s.cleanChildren(n)
		s.unwrap(n)
		s.addWarning(markup.WarningUnwrappedElement, tag, fmt.Sprintf("unwrapped <%s>", tag))
		return
	}

	n.Attr = s.cleanAttributes(tag, n.Attr)

	if markup.VoidTags[tag] {
		for _, c := range markup.Children(n) {
			n.RemoveChild(c)
		}
		return
	}

	s.cleanChildren(n)
}

// unwrap replaces n with its children.
func (s *state) unwrap(n *html.Node) {
	parent := n.Parent
	for _, c := range markup.Children(n) {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

func (s *state) addWarning(warnType markup.WarningType, nodeType, message string) {
	if s.quiet {
		return
	}
	s.warnings = append(s.warnings, markup.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}
