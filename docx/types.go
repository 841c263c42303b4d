// Package docx provides DOCX (Office Open XML) document parsing.
package docx

import "encoding/xml"

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	XMLName    xml.Name          `xml:"p"`
	Properties paragraphPropsXML `xml:"pPr"`
	Runs       []runXML          `xml:"r"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style      styleRefXML   `xml:"pStyle"`
	OutlineLvl outlineLvlXML `xml:"outlineLvl"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// outlineLvlXML represents outline level.
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	XMLName xml.Name   `xml:"r"`
	Text    []textXML  `xml:"t"`
	Tabs    []tabXML   `xml:"tab"`
	Breaks  []breakXML `xml:"br"`
}

// textXML represents a text element (<w:t>).
type textXML struct {
	Value string `xml:",chardata"`
	Space string `xml:"space,attr"`
}

// tabXML represents a tab character.
type tabXML struct{}

// breakXML represents a line or page break.
type breakXML struct {
	Type string `xml:"type,attr"`
}

// tableXML represents a table element (<w:tbl>).
type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// stylesXML represents word/styles.xml.
type stylesXML struct {
	XMLName xml.Name   `xml:"styles"`
	Styles  []styleXML `xml:"style"`
}

// styleXML represents a style definition.
type styleXML struct {
	StyleID string       `xml:"styleId,attr"`
	Type    string       `xml:"type,attr"`
	Name    styleNameXML `xml:"name"`
	PPr     stylePPrXML  `xml:"pPr"`
}

type styleNameXML struct {
	Val string `xml:"val,attr"`
}

type stylePPrXML struct {
	OutlineLvl outlineLvlXML `xml:"outlineLvl"`
}
