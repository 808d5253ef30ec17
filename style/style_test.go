package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGB
		ok    bool
	}{
		{"named", "red", RGB{255, 0, 0}, true},
		{"named mixed case", "Navy", RGB{0, 0, 128}, true},
		{"hash hex", "#FFCC00", RGB{255, 204, 0}, true},
		{"bare hex", "00ff7f", RGB{0, 255, 127}, true},
		{"rgb", "rgb(250, 250, 0)", RGB{250, 250, 0}, true},
		{"rgb clamps", "rgb(300,-5, 12)", RGB{255, 0, 12}, true},
		{"rgb no spaces", "RGB(1,2,3)", RGB{1, 2, 3}, true},
		{"short hex rejected", "#fff", RGB{}, false},
		{"hsl rejected", "hsl(0, 100%, 50%)", RGB{}, false},
		{"unknown name", "rebeccapurple", RGB{}, false},
		{"empty", "  ", RGB{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearestHighlight(t *testing.T) {
	assert.Equal(t, HighlightYellow, NearestHighlight(RGB{250, 250, 0}))
	assert.Equal(t, HighlightRed, NearestHighlight(RGB{230, 20, 10}))
	assert.Equal(t, HighlightDarkBlue, NearestHighlight(RGB{0, 0, 120}))
	assert.Equal(t, HighlightWhite, NearestHighlight(RGB{250, 250, 250}))

	t.Run("deterministic", func(t *testing.T) {
		c := RGB{17, 200, 99}
		first := NearestHighlight(c)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, NearestHighlight(c))
		}
	})

	t.Run("ties resolve to earliest entry", func(t *testing.T) {
		// (128,128,64) is equidistant from darkYellow (128,128,0) and darkGray (128,128,128)
		assert.Equal(t, HighlightDarkYellow, NearestHighlight(RGB{128, 128, 64}))
	})
}

func TestHighlightNames(t *testing.T) {
	h, ok := HighlightFromName("darkBlue")
	assert.True(t, ok)
	assert.Equal(t, HighlightDarkBlue, h)
	assert.Equal(t, "darkBlue", h.Name())

	_, ok = HighlightFromName("none")
	assert.False(t, ok)
	assert.Equal(t, "", HighlightNone.Name())
	assert.Equal(t, "none", HighlightNone.String())

	rgb, ok := HighlightYellow.RGB()
	assert.True(t, ok)
	assert.Equal(t, "FFFF00", rgb.Hex())
	assert.Equal(t, "#ffff00", rgb.CSS())
}

func TestFontSizeToPoints(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"12pt", 12, true},
		{"16px", 12, true},
		{"1.5em", 18, true},
		{"2rem", 24, true},
		{"10", 10, true},
		{" 14 PT ", 14, true},
		{"0", 0, false},
		{"-3pt", 0, false},
		{"large", 0, false},
		{"12%", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := FontSizeToPoints(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestContextSubSupExclusive(t *testing.T) {
	c := Context{}.WithSubscript().WithSuperscript()
	assert.True(t, c.Superscript)
	assert.False(t, c.Subscript)

	c = c.WithSubscript()
	assert.True(t, c.Subscript)
	assert.False(t, c.Superscript)
}

func TestContextIsValue(t *testing.T) {
	parent := Context{}.WithBold()
	child := parent.WithTag("em")

	assert.False(t, parent.Italic)
	assert.True(t, child.Bold)
	assert.True(t, child.Italic)
}

func TestContextWithDeclarations(t *testing.T) {
	decls := ParseDeclarations(`font-weight: 700; font-style: italic; text-decoration: underline line-through; font-family: "Times New Roman", serif; font-size: 16px; color: #ff0000; background-color: rgb(250,250,0)`)
	c := Context{}.WithDeclarations(decls)

	assert.True(t, c.Bold)
	assert.True(t, c.Italic)
	assert.True(t, c.Underline)
	assert.True(t, c.Strike)
	assert.Equal(t, "Times New Roman", c.FontName)
	assert.InDelta(t, 12.0, c.FontSize, 0.0001)
	assert.True(t, c.HasColor)
	assert.Equal(t, RGB{255, 0, 0}, c.Color)
	assert.Equal(t, HighlightYellow, c.Highlight)
}

func TestContextWithTag(t *testing.T) {
	assert.True(t, Context{}.WithTag("b").Bold)
	assert.True(t, Context{}.WithTag("del").Strike)
	assert.Equal(t, DefaultMonospaceFont, Context{}.WithTag("code").FontName)
	assert.Equal(t, HighlightYellow, Context{}.WithTag("mark").Highlight)
	assert.Equal(t, HighlightRed, Context{}.WithHighlight(HighlightRed).WithTag("mark").Highlight)

	link := Context{}.WithTag("a")
	assert.True(t, link.Underline)
	assert.True(t, link.HasColor)

	assert.Equal(t, Context{}, Context{}.WithTag("span"))
}

func TestParseDeclarations(t *testing.T) {
	decls := ParseDeclarations("COLOR:  red ;  font-size:12pt")
	assert.Equal(t, []Declaration{
		{Property: "color", Value: "red"},
		{Property: "font-size", Value: "12pt"},
	}, decls)

	assert.Empty(t, ParseDeclarations("   "))
	assert.Equal(t, "color: red; font-size: 12pt", FormatDeclarations(decls))
}

func TestParseDeclarationsLastDeclaration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Declaration
	}{
		{"single without semicolon", "text-align: center", []Declaration{{Property: "text-align", Value: "center"}}},
		{"single with semicolon", "text-align: center;", []Declaration{{Property: "text-align", Value: "center"}}},
		{"trailing whitespace", "color: red; margin-left: 10pt  ", []Declaration{
			{Property: "color", Value: "red"},
			{Property: "margin-left", Value: "10pt"},
		}},
		{"doubled semicolon", "color: red;; font-weight: bold", []Declaration{
			{Property: "color", Value: "red"},
			{Property: "font-weight", Value: "bold"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDeclarations(tt.input))
		})
	}
}

func TestFormatDeclarationsReparses(t *testing.T) {
	decls := []Declaration{
		{Property: "color", Value: "#ff0000"},
		{Property: "background-color", Value: "#ffff00"},
		{Property: "font-size", Value: "14pt"},
		{Property: "font-family", Value: "Arial"},
	}
	formatted := FormatDeclarations(decls)
	assert.Equal(t, decls, ParseDeclarations(formatted))
	assert.Equal(t, formatted, FormatDeclarations(ParseDeclarations(formatted)))
}

func TestFontFamilies(t *testing.T) {
	assert.Equal(t, []string{"Times New Roman", "Arial", "serif"}, FontFamilies(`"Times New Roman", 'Arial' , serif,`))
}

func TestParagraphFromDeclarations(t *testing.T) {
	p := ParagraphFromDeclarations(ParseDeclarations("text-align: Center; margin-left: 24px; padding-left: 1em"))
	assert.Equal(t, AlignCenter, p.Alignment)
	assert.InDelta(t, 30.0, p.IndentPt, 0.0001)

	p = ParagraphFromDeclarations(ParseDeclarations("text-align: middle"))
	assert.Equal(t, AlignDefault, p.Alignment)
}
