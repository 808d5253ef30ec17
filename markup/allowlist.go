// Package markup defines the canonical HTML subset exchanged between the
// sanitizer, the document builder and the extractor: its allowlists, a
// fragment parser and a deterministic renderer.
package markup

// AllowedTags is the canonical element set. Anything else is unwrapped or
// dropped by the sanitizer.
var AllowedTags = map[string]bool{
	"p": true, "br": true, "div": true, "span": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"strong": true, "em": true, "u": true, "s": true, "sub": true, "sup": true,
	"mark": true, "code": true, "a": true, "img": true,
	"pre": true, "blockquote": true, "ul": true, "ol": true, "li": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true,
	"th": true, "td": true, "colgroup": true, "col": true, "caption": true,
}

// Renamed maps presentational aliases onto their canonical element.
var Renamed = map[string]string{
	"b":      "strong",
	"i":      "em",
	"strike": "s",
	"del":    "s",
}

// Dropped elements are removed together with their content.
var Dropped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"iframe": true, "frame": true, "frameset": true, "object": true,
	"embed": true, "applet": true, "param": true, "marquee": true,
	"svg": true, "math": true, "head": true, "title": true, "meta": true,
	"link": true, "base": true, "input": true, "button": true,
	"select": true, "option": true, "optgroup": true, "textarea": true,
	"xmp": true, "noembed": true, "noframes": true, "plaintext": true,
	"audio": true, "video": true, "source": true, "track": true,
	"canvas": true, "map": true, "area": true, "portal": true,
}

// VoidTags have no end tag.
var VoidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "col": true,
}

// BlockTags are elements that start a new block in document flow.
var BlockTags = map[string]bool{
	"p": true, "div": true, "hr": true, "pre": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true,
	"th": true, "td": true, "colgroup": true, "col": true, "caption": true,
}

// AttributeOrder is the order in which attributes are rendered. An
// attribute is kept only when listed for its element in AllowedAttributes
// (or is "style").
var AttributeOrder = []string{
	"href", "target", "rel", "src", "alt", "title",
	"width", "height", "colspan", "rowspan", "colwidth", "span", "style",
}

// AllowedAttributes lists the non-style attributes per element.
var AllowedAttributes = map[string]map[string]bool{
	"a":        {"href": true, "title": true},
	"img":      {"src": true, "alt": true, "title": true, "width": true, "height": true},
	"td":       {"colspan": true, "rowspan": true, "colwidth": true},
	"th":       {"colspan": true, "rowspan": true, "colwidth": true},
	"col":      {"span": true, "width": true},
	"colgroup": {"span": true},
}

// IntegerLimit bounds an integer attribute. Values at or below Min are
// dropped, values above Max are clamped.
type IntegerLimit struct {
	Min int
	Max int
}

// IntegerAttributes are parsed as bare non-negative integers.
var IntegerAttributes = map[string]IntegerLimit{
	"width":   {Min: 0, Max: 4000},
	"height":  {Min: 0, Max: 4000},
	"colspan": {Min: 1, Max: 20},
	"span":    {Min: 1, Max: 20},
	"rowspan": {Min: 1, Max: 100},
}

// StyleValueKind says how a style property's value is validated.
type StyleValueKind int

const (
	StyleColor StyleValueKind = iota
	StyleDimension
	StyleKeyword
	StyleFontFamily
	StyleDecoration
)

// StyleProperty describes an allowed inline style property.
type StyleProperty struct {
	Kind     StyleValueKind
	Keywords map[string]bool
}

func keywords(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// AllowedStyleProperties is the fixed inline style property set.
var AllowedStyleProperties = map[string]StyleProperty{
	"color":            {Kind: StyleColor},
	"background-color": {Kind: StyleColor},
	"font-family":      {Kind: StyleFontFamily},
	"font-size":        {Kind: StyleDimension},
	"font-weight": {Kind: StyleKeyword, Keywords: keywords(
		"normal", "bold", "bolder", "lighter",
		"100", "200", "300", "400", "500", "600", "700", "800", "900")},
	"font-style":           {Kind: StyleKeyword, Keywords: keywords("normal", "italic", "oblique")},
	"text-decoration":      {Kind: StyleDecoration},
	"text-decoration-line": {Kind: StyleDecoration},
	"text-align":           {Kind: StyleKeyword, Keywords: keywords("left", "right", "center", "justify")},
	"vertical-align": {Kind: StyleKeyword, Keywords: keywords(
		"baseline", "sub", "super", "top", "middle", "bottom")},
	"margin-left":     {Kind: StyleDimension},
	"padding-left":    {Kind: StyleDimension},
	"text-indent":     {Kind: StyleDimension},
	"line-height":     {Kind: StyleDimension},
	"width":           {Kind: StyleDimension},
	"height":          {Kind: StyleDimension},
	"border-collapse": {Kind: StyleKeyword, Keywords: keywords("collapse", "separate")},
}

// DecorationKeywords are the tokens allowed in text-decoration values.
var DecorationKeywords = keywords("none", "underline", "line-through", "overline")
