package canvassvc

import (
	"bytes"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core/layout"
	"github.com/udriss/correction/core/report"
)

const fontFamily = "Helvetica"

// PDF is a report.Canvas drawing on a fpdf document with the core fonts.
type PDF struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string // utf-8 -> cp1252
	size float64
}

var _ report.Canvas = (*PDF)(nil)

// NewPDF returns a portrait PDF canvas of the `geo` page size, in millimeters.
func NewPDF(geo layout.Geometry) report.Canvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: geo.PageWidth, Ht: geo.PageHeight},
	})
	pdf.SetMargins(geo.Margin, geo.Margin, geo.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(fontFamily, "", 10)
	return &PDF{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		size: 10,
	}
}

func (c *PDF) AddPage() { c.pdf.AddPage() }

// SetPage moves back to page `n` and re-emits the current font on it.
func (c *PDF) SetPage(n int) {
	c.pdf.SetPage(n)
	c.pdf.SetFontSize(c.size)
}

func (c *PDF) PageCount() int { return c.pdf.PageCount() }

func (c *PDF) SetFont(style string, size float64) {
	c.size = size
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *PDF) SetTextColor(col report.Color) { c.pdf.SetTextColor(col.R, col.G, col.B) }
func (c *PDF) SetDrawColor(col report.Color) { c.pdf.SetDrawColor(col.R, col.G, col.B) }
func (c *PDF) SetFillColor(col report.Color) { c.pdf.SetFillColor(col.R, col.G, col.B) }
func (c *PDF) SetLineWidth(w float64)        { c.pdf.SetLineWidth(w) }

func (c *PDF) Rect(x, y, w, h float64, fill bool) {
	style := "D"
	if fill {
		style = "FD"
	}
	c.pdf.Rect(x, y, w, h, style)
}

func (c *PDF) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *PDF) Text(x, y float64, s string) { c.pdf.Text(x, y, c.tr(s)) }

func (c *PDF) StringWidth(s string) float64 { return c.pdf.GetStringWidth(c.tr(s)) }

// Image embeds a PNG. A broken image is reported and leaves the document usable.
func (c *PDF) Image(name string, png []byte, x, y, size float64) error {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name = "sym-" + name
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return errors.Wrapf(err, "registering image %s", name)
	}
	c.pdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")
	return nil
}

func (c *PDF) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}
