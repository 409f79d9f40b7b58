// Package alto serializes paginated documents into ALTO v4 XML, the page
// layout annotation format consumed by OCR training pipelines.
package alto

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/ocroft/folio/flow"
)

const (
	xmlns          = "http://www.loc.gov/standards/alto/ns-v4#"
	xmlnsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://www.loc.gov/standards/alto/ns-v4# http://www.loc.gov/standards/alto/v4/alto-4-2.xsd"
)

// Alto is the document root.
type Alto struct {
	XMLName        xml.Name    `xml:"alto"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXSI       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Description    Description `xml:"Description"`
	Layout         Layout      `xml:"Layout"`
}

type Description struct {
	MeasurementUnit string      `xml:"MeasurementUnit"`
	SourceImage     SourceImage `xml:"sourceImageInformation"`
}

type SourceImage struct {
	FileName string `xml:"fileName"`
}

type Layout struct {
	Page Page `xml:"Page"`
}

type Page struct {
	ID            string     `xml:"ID,attr"`
	PhysicalImgNr int        `xml:"PHYSICAL_IMG_NR,attr"`
	Width         float64    `xml:"WIDTH,attr"`
	Height        float64    `xml:"HEIGHT,attr"`
	BaseDirection string     `xml:"BASEDIRECTION,attr,omitempty"`
	PrintSpace    PrintSpace `xml:"PrintSpace"`
}

type PrintSpace struct {
	HPos       float64     `xml:"HPOS,attr"`
	VPos       float64     `xml:"VPOS,attr"`
	Width      float64     `xml:"WIDTH,attr"`
	Height     float64     `xml:"HEIGHT,attr"`
	TextBlocks []TextBlock `xml:"TextBlock"`
}

type TextBlock struct {
	ID            string     `xml:"ID,attr"`
	HPos          int        `xml:"HPOS,attr"`
	VPos          int        `xml:"VPOS,attr"`
	Width         int        `xml:"WIDTH,attr"`
	Height        int        `xml:"HEIGHT,attr"`
	Lang          string     `xml:"LANG,attr,omitempty"`
	BaseDirection string     `xml:"BASEDIRECTION,attr,omitempty"`
	TextLines     []TextLine `xml:"TextLine"`
}

type TextLine struct {
	ID       string `xml:"ID,attr"`
	HPos     int    `xml:"HPOS,attr"`
	VPos     int    `xml:"VPOS,attr"`
	Width    int    `xml:"WIDTH,attr"`
	Height   int    `xml:"HEIGHT,attr"`
	Baseline string `xml:"BASELINE,attr"`
	Shape    Shape  `xml:"Shape"`
	Str      String `xml:"String"`
}

type Shape struct {
	Polygon Polygon `xml:"Polygon"`
}

type Polygon struct {
	Points string `xml:"POINTS,attr"`
}

type String struct {
	Content string `xml:"CONTENT,attr"`
	HPos    int    `xml:"HPOS,attr"`
	VPos    int    `xml:"VPOS,attr"`
	Width   int    `xml:"WIDTH,attr"`
	Height  int    `xml:"HEIGHT,attr"`
}

// Options controls one ALTO serialization.
type Options struct {
	// Unit is the MeasurementUnit element: "mm" for physical output,
	// "pixel" for rasterized output. Defaults to "mm".
	Unit string

	// Scale multiplies every coordinate. 1.0 for mm output; dpi/25.4 when
	// translating mm geometry to pixel positions.
	Scale float64

	// FileName names the sibling PDF or image in sourceImageInformation.
	FileName string

	// PageNumber fills PHYSICAL_IMG_NR.
	PageNumber int

	// PageWidth/PageHeight override the page dimensions, e.g. with the
	// exact raster size. Zero means scaled paper size.
	PageWidth  float64
	PageHeight float64
}

func newID() string {
	return fmt.Sprintf("_%s", uuid.New())
}

func scaled(v int, scale float64) int {
	return int(float64(v) * scale)
}

// Build converts one paginated page into an ALTO document. Coordinates are
// multiplied by opts.Scale and truncated, matching how pixel positions are
// derived from mm geometry.
func Build(doc *flow.Document, page *flow.Page, opts Options) *Alto {
	if opts.Unit == "" {
		opts.Unit = "mm"
	}
	if opts.Scale == 0 {
		opts.Scale = 1.0
	}
	pw, ph := opts.PageWidth, opts.PageHeight
	if pw == 0 {
		pw = roundUnit(doc.PaperWidth*opts.Scale, opts.Unit)
	}
	if ph == 0 {
		ph = roundUnit(doc.PaperHeight*opts.Scale, opts.Unit)
	}

	a := &Alto{
		Xmlns:          xmlns,
		XmlnsXSI:       xmlnsXSI,
		SchemaLocation: schemaLocation,
		Description: Description{
			MeasurementUnit: opts.Unit,
			SourceImage:     SourceImage{FileName: opts.FileName},
		},
		Layout: Layout{
			Page: Page{
				ID:            newID(),
				PhysicalImgNr: opts.PageNumber,
				Width:         pw,
				Height:        ph,
				BaseDirection: doc.Direction.String(),
				PrintSpace: PrintSpace{
					Width:  pw,
					Height: ph,
				},
			},
		},
	}

	for _, blk := range page.Blocks {
		a.Layout.Page.PrintSpace.TextBlocks = append(a.Layout.Page.PrintSpace.TextBlocks, buildBlock(blk, opts.Scale))
	}
	return a
}

func buildBlock(blk flow.TextBlock, scale float64) TextBlock {
	out := TextBlock{
		ID:            newID(),
		HPos:          scaled(blk.X, scale),
		VPos:          scaled(blk.Y, scale),
		Width:         scaled(blk.Width, scale),
		Height:        scaled(blk.Height, scale),
		Lang:          blk.Language,
		BaseDirection: blk.Direction.String(),
	}
	for _, ln := range blk.Lines {
		hpos := scaled(ln.Left, scale)
		vpos := scaled(ln.Top, scale)
		w := scaled(ln.Right-ln.Left, scale)
		h := scaled(ln.Bottom-ln.Top, scale)
		bl := scaled(ln.Baseline, scale)
		out.TextLines = append(out.TextLines, TextLine{
			ID:     newID(),
			HPos:   hpos,
			VPos:   vpos,
			Width:  w,
			Height: h,
			Baseline: fmt.Sprintf("%d,%d %d,%d",
				scaled(ln.BaselineLeft, scale), bl,
				scaled(ln.BaselineRight, scale), bl),
			Shape: Shape{Polygon: Polygon{Points: fmt.Sprintf("%d,%d %d,%d %d,%d %d,%d",
				hpos, vpos, hpos+w, vpos, hpos+w, vpos+h, hpos, vpos+h)}},
			Str: String{
				Content: ln.Text,
				HPos:    hpos,
				VPos:    vpos,
				Width:   w,
				Height:  h,
			},
		})
	}
	return out
}

// Encode writes the document as indented XML with a standard header.
func (a *Alto) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(a); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// roundUnit keeps physical page sizes exact and rounds pixel sizes to whole
// device pixels.
func roundUnit(v float64, unit string) float64 {
	if unit == "pixel" {
		return math.Round(v)
	}
	return v
}
