// Package pptx provides PPTX (Office Open XML Presentation) document parsing.
package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName xml.Name    `xml:"presentation"`
	SlideSz *slideSzXML `xml:"sldSz"`
}

type slideSzXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML represents the shape tree containing all shapes on a slide.
type spTreeXML struct {
	Sp           []spXML           `xml:"sp"`
	GraphicFrame []graphicFrameXML `xml:"graphicFrame"`
	GrpSp        []grpSpXML        `xml:"grpSp"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	NvPr nvPrXML `xml:"nvPr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"` // Placeholder info
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
}

type spPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

type xfrmXML struct {
	Off offXML `xml:"off"`
	Ext extXML `xml:"ext"`
}

type offXML struct {
	X int `xml:"x,attr"` // X position in EMUs
	Y int `xml:"y,attr"` // Y position in EMUs
}

type extXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a paragraph.
type pXML struct {
	R  []rXML  `xml:"r"`
	Br []brXML `xml:"br"`
}

// rXML represents a text run.
type rXML struct {
	T string `xml:"t"`
}

type brXML struct{}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	Xfrm    *xfrmXML   `xml:"xfrm"`
	Graphic graphicXML `xml:"graphic"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"`
}

// tblXML represents a table.
type tblXML struct {
	Tr []trXML `xml:"tr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

// grpSpXML represents a group of shapes.
type grpSpXML struct {
	Sp    []spXML    `xml:"sp"`
	GrpSp []grpSpXML `xml:"grpSp"` // Nested groups
}
