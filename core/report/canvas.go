package report

import (
	"context"
	"io"

	"github.com/udriss/correction/core/layout"
)

type (
	Color struct {
		R, G, B int
	}

	// Canvas is the drawing surface of one document. Units are millimeters,
	// the origin is the top left corner of the current page and Text draws on the baseline.
	Canvas interface {
		AddPage()
		SetPage(n int) // 1-based
		PageCount() int
		SetFont(style string, size float64) // style: "" | "B" | "I"
		SetTextColor(c Color)
		SetDrawColor(c Color)
		SetFillColor(c Color)
		SetLineWidth(w float64)
		Rect(x, y, w, h float64, fill bool)
		Line(x1, y1, x2, y2 float64)
		Text(x, y float64, s string)
		StringWidth(s string) float64
		Image(name string, png []byte, x, y, size float64) error
		Output(w io.Writer) error
	}

	// CanvasFactory returns a fresh Canvas sized for `geo`.
	CanvasFactory func(geo layout.Geometry) Canvas

	// SymbolRenderer renders the scannable image (PNG) of a payload.
	SymbolRenderer interface {
		Render(ctx context.Context, payload string, size int) ([]byte, error)
	}

	// DocumentStore persists finished documents and returns where they can be found.
	DocumentStore interface {
		Save(ctx context.Context, name string, r io.Reader) (location string, err error)
	}
)

var (
	black     = Color{0, 0, 0}
	grey      = Color{110, 110, 110}
	lightGrey = Color{200, 200, 200}
)
