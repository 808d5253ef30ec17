package pipeline

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector detects the language of plain text. Language models are
// loaded on first use. It is safe for concurrent use.
type LanguageDetector struct {
	languages []lingua.Language
	once      sync.Once
	detector  lingua.LanguageDetector
}

// NewLanguageDetector creates a detector for the given ISO 639-1 codes, or
// for every supported language when codes is empty.
func NewLanguageDetector(codes []string) (*LanguageDetector, error) {
	cfg := Config{Languages: codes}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &LanguageDetector{}
	for _, code := range codes {
		lang, _ := lookupLanguage(code)
		d.languages = append(d.languages, lang)
	}
	return d, nil
}

func (d *LanguageDetector) load() lingua.LanguageDetector {
	d.once.Do(func() {
		b := lingua.NewLanguageDetectorBuilder()
		if len(d.languages) == 0 {
			d.detector = b.FromAllLanguages().Build()
			return
		}
		d.detector = b.FromLanguages(d.languages...).Build()
	})
	return d.detector
}

// Detect returns the lowercase ISO 639-1 code of the language of text.
// It reports false when text is blank or no language is reliable.
func (d *LanguageDetector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, ok := d.load().DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

func lookupLanguage(code string) (lingua.Language, bool) {
	code = strings.TrimSpace(code)
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, true
		}
	}
	return 0, false
}
