package docx

import "encoding/xml"

const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Element names carry the "w:" prefix literally; encoding/xml writes them
// verbatim and the namespace is declared on the root.

type xmlDocument struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	Body    xmlBody  `xml:"w:body"`
}

type xmlBody struct {
	Content []any
	SectPr  xmlSectPr
}

func (b xmlBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range b.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}
	if err := e.Encode(b.SectPr); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

type xmlSectPr struct {
	XMLName xml.Name  `xml:"w:sectPr"`
	PgSz    xmlPgSz   `xml:"w:pgSz"`
	PgMar   xmlMargin `xml:"w:pgMar"`
}

type xmlPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type xmlMargin struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type xmlParagraph struct {
	XMLName xml.Name `xml:"w:p"`
	PPr     *xmlPPr  `xml:"w:pPr,omitempty"`
	Runs    []xmlRun `xml:"w:r"`
}

type xmlPPr struct {
	PStyle *xmlVal   `xml:"w:pStyle,omitempty"`
	NumPr  *xmlNumPr `xml:"w:numPr,omitempty"`
	Ind    *xmlInd   `xml:"w:ind,omitempty"`
	Jc     *xmlVal   `xml:"w:jc,omitempty"`
}

type xmlVal struct {
	Val string `xml:"w:val,attr"`
}

type xmlEmpty struct{}

type xmlNumPr struct {
	Ilvl  xmlVal `xml:"w:ilvl"`
	NumID xmlVal `xml:"w:numId"`
}

type xmlInd struct {
	Left int `xml:"w:left,attr"`
}

type xmlRun struct {
	RPr *xmlRPr   `xml:"w:rPr,omitempty"`
	Br  *xmlEmpty `xml:"w:br,omitempty"`
	T   *xmlText  `xml:"w:t,omitempty"`
}

type xmlText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// xmlRPr fields follow the CT_RPr sequence order.
type xmlRPr struct {
	RFonts    *xmlFonts `xml:"w:rFonts,omitempty"`
	B         *xmlEmpty `xml:"w:b,omitempty"`
	I         *xmlEmpty `xml:"w:i,omitempty"`
	Strike    *xmlEmpty `xml:"w:strike,omitempty"`
	Color     *xmlVal   `xml:"w:color,omitempty"`
	Sz        *xmlVal   `xml:"w:sz,omitempty"`
	Highlight *xmlVal   `xml:"w:highlight,omitempty"`
	U         *xmlVal   `xml:"w:u,omitempty"`
	VertAlign *xmlVal   `xml:"w:vertAlign,omitempty"`
}

type xmlFonts struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
	CS       string `xml:"w:cs,attr"`
}

type xmlTable struct {
	XMLName xml.Name `xml:"w:tbl"`
	TblPr   xmlTblPr `xml:"w:tblPr"`
	Grid    xmlGrid  `xml:"w:tblGrid"`
	Rows    []xmlRow `xml:"w:tr"`
}

type xmlTblPr struct {
	Style xmlVal   `xml:"w:tblStyle"`
	Width xmlWidth `xml:"w:tblW"`
}

type xmlWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type xmlGrid struct {
	Cols []xmlGridCol `xml:"w:gridCol"`
}

type xmlGridCol struct {
	W int `xml:"w:w,attr"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"w:tc"`
}

type xmlCell struct {
	Width   xmlWidth
	Content []any
}

func (c xmlCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	tcPr := xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}
	if err := e.EncodeToken(tcPr); err != nil {
		return err
	}
	if err := e.EncodeElement(c.Width, xml.StartElement{Name: xml.Name{Local: "w:tcW"}}); err != nil {
		return err
	}
	if err := e.EncodeToken(tcPr.End()); err != nil {
		return err
	}

	content := c.Content
	// A cell must end with a paragraph.
	if len(content) == 0 {
		content = []any{xmlParagraph{}}
	} else if _, ok := content[len(content)-1].(xmlParagraph); !ok {
		content = append(content, xmlParagraph{})
	}
	for _, item := range content {
		if err := e.Encode(item); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}
