package sanitizer

import (
	"strings"
	"testing"

	"github.com/rgonek/richdoc/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newTestSanitizer(t testing.TB, cfg Config) *Sanitizer {
	t.Helper()

	s, err := New(cfg)
	require.NoError(t, err)

	return s
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "script removed and bold canonicalized",
			input: `<p>Hello <b>World</b></p><script>alert(1)</script>`,
			want:  `<p>Hello <strong>World</strong></p>`,
		},
		{
			name:  "javascript href dropped",
			input: `<a href="javascript:alert(1)">x</a>`,
			want:  `<a>x</a>`,
		},
		{
			name:  "obfuscated javascript href dropped",
			input: "<a href=\" JaVa\tScript:alert(1)\">x</a>",
			want:  `<a>x</a>`,
		},
		{
			name:  "safe link gets target and rel",
			input: `<a href="https://example.com" onclick="evil()" target="_self" rel="opener">link</a>`,
			want:  `<a href="https://example.com" target="_blank" rel="noopener noreferrer">link</a>`,
		},
		{
			name:  "event handler dropped",
			input: `<img src="x.png" onerror="alert(1)">`,
			want:  `<img src="x.png">`,
		},
		{
			name:  "data image src kept",
			input: `<img src="data:image/png;base64,AAAA" alt="pic">`,
			want:  `<img src="data:image/png;base64,AAAA" alt="pic">`,
		},
		{
			name:  "data html src dropped",
			input: `<img src="data:text/html;base64,AAAA">`,
			want:  `<img>`,
		},
		{
			name:  "integer attributes clamped and dropped",
			input: `<img src="a.png" width="9999" height="-3">`,
			want:  `<img src="a.png" width="4000">`,
		},
		{
			name:  "table attributes",
			input: `<table><tr><td colspan="50" rowspan="1" colwidth="120,80">a</td><td colwidth="wide">b</td></tr></table>`,
			want:  `<table><tbody><tr><td colspan="20" colwidth="120,80">a</td><td>b</td></tr></tbody></table>`,
		},
		{
			name:  "style filtered",
			input: `<span style="color: RED; position: absolute; font-family: 'Arial', Helvetica, Verdana, sans-serif; font-size: 12PX">t</span>`,
			want:  `<span style="color: red; font-family: Arial, Helvetica, Verdana; font-size: 12px">t</span>`,
		},
		{
			name:  "unsafe style values rejected",
			input: `<p style="width: expression(alert(1)); border-collapse: collapse; margin-left: 10cm">x</p>`,
			want:  `<p style="border-collapse: collapse">x</p>`,
		},
		{
			name:  "border-collapse keyword validated",
			input: `<table style="border-collapse: inherit"><tr><td>x</td></tr></table>`,
			want:  `<table><tbody><tr><td>x</td></tr></tbody></table>`,
		},
		{
			name:  "unknown elements unwrapped",
			input: `<section><p>a</p></section><font color="red">b</font>`,
			want:  `<p>a</p>b`,
		},
		{
			name:  "dangerous containers removed with content",
			input: `<div><iframe src="x"></iframe>keep<object data="y">fallback</object></div>`,
			want:  `<div>keep</div>`,
		},
		{
			name:  "comments removed",
			input: `<p>a<!-- secret -->b</p>`,
			want:  `<p>ab</p>`,
		},
		{
			name:  "unterminated script removed",
			input: `<p>unterminated <script>alert(1)`,
			want:  `<p>unterminated </p>`,
		},
		{
			name:  "aliases renamed",
			input: `<I>x</I><STRIKE>y</STRIKE><del>z</del>`,
			want:  `<em>x</em><s>y</s><s>z</s>`,
		},
		{
			name:  "style dropped on br",
			input: `<p>a<br style="color: red">b</p>`,
			want:  `<p>a<br>b</p>`,
		},
		{name: "empty input", input: "", want: `<p><br></p>`},
		{name: "whitespace input", input: " \n ", want: `<p><br></p>`},
		{name: "only script", input: `<script>x</script>`, want: `<p><br></p>`},
		{name: "svg removed", input: `<svg><script>alert(1)</script><circle/></svg>`, want: `<p><br></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

var idempotenceInputs = []string{
	`<p>Hello <b>World</b></p>`,
	`<h1><x-foo><h2>t</h2></x-foo></h1>`,
	`<p>a<section><p>b</p></section></p>`,
	`<table>text<tr><td>a<td>b</table>`,
	`<ul>loose<li>one<li>two</ul>`,
	"<pre>\n\nindented\n  code</pre>",
	`<a href="http://x"><div><a href="http://y">nested</a></div></a>`,
	`<p style="color: rgb(250,250,0); font-family: &quot;Times New Roman&quot;, serif">c</p>`,
	`<span>&lt;script&gt;alert(1)&lt;/script&gt;</span>`,
	`<b><p>bold block</p></b>`,
	`<p>unclosed <em>emphasis<p>next`,
	`plain text & more`,
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, input := range idempotenceInputs {
		t.Run(input, func(t *testing.T) {
			once := Sanitize(input)
			assert.Equal(t, once, Sanitize(once))
		})
	}
}

func TestSanitizeKeepsAllowedStyles(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: `<p style="text-align: center">x</p>`,
			want:  `<p style="text-align: center">x</p>`,
		},
		{
			input: `<p style="color: red; font-weight: bold">x</p>`,
			want:  `<p style="color: red; font-weight: bold">x</p>`,
		},
		{
			input: `<p style="text-align: center"><span style="color:#ff0000;background-color:#ffff00;font-size:14pt;font-family:Arial">c</span></p>`,
			want:  `<p style="text-align: center"><span style="color: #ff0000; background-color: #ffff00; font-size: 14pt; font-family: Arial">c</span></p>`,
		},
		{
			input: `<span style="font-style: italic; text-decoration: underline line-through; vertical-align: super; margin-left: 10pt; line-height: 1.5em">y</span>`,
			want:  `<span style="font-style: italic; text-decoration: underline line-through; vertical-align: super; margin-left: 10pt; line-height: 1.5em">y</span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			once := Sanitize(tt.input)
			assert.Equal(t, tt.want, once)
			assert.Equal(t, tt.want, Sanitize(once))
		})
	}
}

func TestSanitizeNestedHeadingsSettle(t *testing.T) {
	assert.Equal(t, `<h1></h1><h2>t</h2>`, Sanitize(`<h1><x-foo><h2>t</h2></x-foo></h1>`))
}

func TestSanitizeWarnings(t *testing.T) {
	s := newTestSanitizer(t, Config{})

	result := s.Sanitize(`<section><p onclick="x()" style="position: fixed">a</p></section><iframe></iframe>`)
	assert.Equal(t, `<p>a</p>`, result.HTML)

	types := make(map[markup.WarningType]int)
	for _, w := range result.Warnings {
		types[w.Type]++
	}
	assert.Equal(t, 1, types[markup.WarningUnwrappedElement])
	assert.Equal(t, 1, types[markup.WarningDroppedElement])
	assert.Equal(t, 1, types[markup.WarningDroppedAttribute])
	assert.Equal(t, 1, types[markup.WarningDroppedStyle])
}

func TestFontFamilyLimit(t *testing.T) {
	s := newTestSanitizer(t, Config{FontFamilyLimit: 1})

	result := s.Sanitize(`<span style="font-family: Georgia, serif">x</span>`)
	assert.Equal(t, `<span style="font-family: Georgia">x</span>`, result.HTML)
}

func TestConfigValidate(t *testing.T) {
	_, err := New(Config{MaxPasses: 11})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxPasses")

	_, err = New(Config{FontFamilyLimit: -1})
	require.Error(t, err)
}

// assertSafe checks the safety properties on rendered output.
func assertSafe(t testing.TB, out string) {
	t.Helper()

	lower := strings.ToLower(out)
	if strings.Contains(lower, "<script") {
		t.Fatalf("output contains a script tag: %q", out)
	}

	body, err := markup.ParseBody(out)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if !markup.AllowedTags[n.Data] {
				t.Fatalf("disallowed tag <%s> in %q", n.Data, out)
			}
			for _, a := range n.Attr {
				if strings.HasPrefix(a.Key, "on") {
					t.Fatalf("event handler %q in %q", a.Key, out)
				}
				if a.Key == "href" && strings.HasPrefix(normalizedScheme(a.Val), "javascript:") {
					t.Fatalf("javascript href in %q", out)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
}

func TestSanitizeSafety(t *testing.T) {
	inputs := []string{
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:alert(1)" onmouseover="x()">x</a>`,
		`<scr<script>ipt>alert(1)</script>`,
		`<div style="background: url(javascript:alert(1))">x</div>`,
		`<math><mi xlink:href="javascript:alert(1)">x</mi></math>`,
		`<body onload="x()"><p>y</p></body>`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assertSafe(t, Sanitize(input))
		})
	}
}
