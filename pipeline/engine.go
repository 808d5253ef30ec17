// Package pipeline routes documents between their file formats and the
// canonical markup and plain text projections.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/rgonek/richdoc/builder"
	"github.com/rgonek/richdoc/extractor"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/plaintext"
	"github.com/rgonek/richdoc/sanitizer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Content is a document as canonical markup plus its plain text projection.
type Content struct {
	HTML      string           `json:"html"`
	Plaintext string           `json:"plaintext"`
	Warnings  []markup.Warning `json:"warnings,omitempty"`
}

// File is an exported document.
type File struct {
	Data     []byte           `json:"-"`
	Format   Format           `json:"format"`
	MimeType string           `json:"mimeType"`
	Warnings []markup.Warning `json:"warnings,omitempty"`
}

// Analysis is the projection handed to search indexing and text analysis.
type Analysis struct {
	Plaintext string `json:"plaintext"`
	Markdown  string `json:"markdown"`
	Words     int    `json:"words"`
	// Language is an ISO 639-1 code, empty when unknown or disabled.
	Language string `json:"language,omitempty"`
}

// Engine runs conversions. It is safe for concurrent use.
type Engine struct {
	config     Config
	logger     *slog.Logger
	sanitizer  *sanitizer.Sanitizer
	builder    *builder.Builder
	extractor  *extractor.Extractor
	markdown   goldmark.Markdown
	toMarkdown *converter.Converter
	languages  *LanguageDetector
}

// New creates an Engine with the given config.
func New(config Config) (*Engine, error) {
	cfg := config.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	z, err := sanitizer.New(cfg.Sanitizer)
	if err != nil {
		return nil, fmt.Errorf("invalid sanitizer config: %w", err)
	}
	b, err := builder.New(cfg.Builder)
	if err != nil {
		return nil, fmt.Errorf("invalid builder config: %w", err)
	}
	x, err := extractor.New(cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("invalid extractor config: %w", err)
	}

	e := &Engine{
		config:    cfg,
		logger:    cfg.Logger,
		sanitizer: z,
		builder:   b,
		extractor: x,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		toMarkdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	if cfg.DetectLanguage {
		if e.languages, err = NewLanguageDetector(cfg.Languages); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Normalize sanitizes editor markup and projects it to plain text.
func (e *Engine) Normalize(ctx context.Context, raw string) (Content, error) {
	if err := e.checkSize(ctx, int64(len(raw))); err != nil {
		return Content{}, err
	}
	res := e.sanitizer.Sanitize(raw)
	e.logger.DebugContext(ctx, "normalized markup", "bytes", len(raw), "warnings", len(res.Warnings))
	return e.content(ctx, res.HTML, res.Warnings), nil
}

// Import converts an uploaded file to canonical markup. Plain text only
// passes through the plain text bridge.
func (e *Engine) Import(ctx context.Context, data []byte, format Format) (Content, error) {
	if err := e.checkSize(ctx, int64(len(data))); err != nil {
		return Content{}, err
	}

	var (
		html     string
		warnings []markup.Warning
	)
	switch format {
	case FormatText:
		text := strings.ToValidUTF8(string(data), "")
		text = strings.TrimPrefix(text, "\ufeff")
		html = plaintext.ToCanonical(text)
	case FormatDOCX:
		res, err := e.extractor.ExtractBytes(data)
		if err != nil {
			return Content{}, fmt.Errorf("import docx: %w", err)
		}
		html, warnings = res.HTML, res.Warnings
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := e.markdown.Convert(data, &buf); err != nil {
			return Content{}, fmt.Errorf("import markdown: %w", err)
		}
		res := e.sanitizer.Sanitize(buf.String())
		html, warnings = res.HTML, res.Warnings
	case FormatHTML:
		res := e.sanitizer.Sanitize(string(data))
		html, warnings = res.HTML, res.Warnings
	default:
		return Content{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	e.logger.DebugContext(ctx, "imported document", "format", format, "bytes", len(data), "warnings", len(warnings))
	return e.content(ctx, html, warnings), nil
}

// Export renders canonical markup as a file. Documents built from empty
// markup get one paragraph per line of fallbackText.
func (e *Engine) Export(ctx context.Context, canonical, fallbackText string, format Format) (File, error) {
	if err := e.checkSize(ctx, int64(len(canonical))); err != nil {
		return File{}, err
	}

	clean := e.sanitizer.Sanitize(canonical)
	file := File{Format: format, MimeType: format.MimeType(), Warnings: clean.Warnings}

	switch format {
	case FormatDOCX:
		src := clean.HTML
		if src == plaintext.EmptyParagraph {
			src = ""
		}
		built, err := e.builder.BuildWithContext(ctx, src, fallbackText)
		if err != nil {
			return File{}, fmt.Errorf("export docx: %w", err)
		}
		data, err := e.builder.Marshal(built)
		if err != nil {
			return File{}, fmt.Errorf("export docx: %w", err)
		}
		file.Data = data
		file.Warnings = append(file.Warnings, built.Warnings...)
	case FormatText:
		file.Data = []byte(plaintext.FromCanonical(clean.HTML))
	case FormatMarkdown:
		md, err := e.markdownOf(clean.HTML)
		if err != nil {
			return File{}, err
		}
		file.Data = []byte(md)
	case FormatHTML:
		file.Data = []byte(clean.HTML)
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	e.logWarnings(ctx, "export", file.Warnings)
	e.logger.DebugContext(ctx, "exported document", "format", format, "bytes", len(file.Data))
	return file, nil
}

// Analyze builds the indexing projection of canonical markup.
func (e *Engine) Analyze(ctx context.Context, canonical string) (Analysis, error) {
	if err := e.checkSize(ctx, int64(len(canonical))); err != nil {
		return Analysis{}, err
	}

	clean := e.sanitizer.Sanitize(canonical)
	md, err := e.markdownOf(clean.HTML)
	if err != nil {
		return Analysis{}, err
	}

	text := plaintext.FromCanonical(clean.HTML)
	a := Analysis{
		Plaintext: text,
		Markdown:  md,
		Words:     len(strings.Fields(text)),
	}
	if e.languages != nil {
		if err := ctx.Err(); err != nil {
			return Analysis{}, err
		}
		a.Language, _ = e.languages.Detect(text)
	}

	e.logger.DebugContext(ctx, "analyzed document", "words", a.Words, "language", a.Language)
	return a, nil
}

func (e *Engine) markdownOf(html string) (string, error) {
	md, err := e.toMarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func (e *Engine) content(ctx context.Context, html string, warnings []markup.Warning) Content {
	e.logWarnings(ctx, "content", warnings)
	return Content{
		HTML:      html,
		Plaintext: plaintext.FromCanonical(html),
		Warnings:  warnings,
	}
}

func (e *Engine) checkSize(ctx context.Context, n int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n > e.config.MaxInputBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, n, e.config.MaxInputBytes)
	}
	return nil
}

// logWarnings reports fallbacks and unresolved references; routine
// removals stay at debug level.
func (e *Engine) logWarnings(ctx context.Context, op string, warnings []markup.Warning) {
	for _, w := range warnings {
		switch w.Type {
		case markup.WarningParseFallback, markup.WarningUnresolvedReference:
			e.logger.WarnContext(ctx, w.Message, "op", op, "type", w.Type, "node", w.NodeType)
		default:
			e.logger.DebugContext(ctx, w.Message, "op", op, "type", w.Type, "node", w.NodeType)
		}
	}
}
