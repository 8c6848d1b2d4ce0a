package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/udriss/correction/core/layout"
)

// Op is one drawing call recorded by a Recorder.
type Op struct {
	Page int // 1-based
	Kind string
	X, Y float64
	W, H float64
	Text string
	Font string
	Size float64
	Fill bool
}

// Recorder is an in-memory Canvas that records drawing calls (dry runs & tests).
type Recorder struct {
	Geo   layout.Geometry
	Ops   []Op
	pages int
	page  int
	font  string
	size  float64
	// ImageErr, when set, is returned by every Image call.
	ImageErr error
}

var _ Canvas = (*Recorder)(nil)

func NewRecorder(geo layout.Geometry) Canvas {
	return &Recorder{Geo: geo}
}

func (r *Recorder) rec(op Op) {
	op.Page = r.page
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) AddPage() {
	r.pages++
	r.page = r.pages
	r.rec(Op{Kind: "page"})
}

func (r *Recorder) SetPage(n int) {
	if n >= 1 && n <= r.pages {
		r.page = n
	}
}

func (r *Recorder) PageCount() int { return r.pages }

func (r *Recorder) SetFont(style string, size float64) {
	r.font, r.size = style, size
}

func (r *Recorder) SetTextColor(Color) {}
func (r *Recorder) SetDrawColor(Color) {}
func (r *Recorder) SetFillColor(Color) {}
func (r *Recorder) SetLineWidth(float64) {}

func (r *Recorder) Rect(x, y, w, h float64, fill bool) {
	r.rec(Op{Kind: "rect", X: x, Y: y, W: w, H: h, Fill: fill})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.rec(Op{Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (r *Recorder) Text(x, y float64, s string) {
	r.rec(Op{Kind: "text", X: x, Y: y, Text: s, Font: r.font, Size: r.size})
}

// StringWidth approximates a proportional font: half an em per rune.
func (r *Recorder) StringWidth(s string) float64 {
	const ptToMM = 0.3528
	return float64(utf8.RuneCountInString(s)) * r.size * ptToMM * 0.5
}

func (r *Recorder) Image(name string, png []byte, x, y, size float64) error {
	if r.ImageErr != nil {
		return r.ImageErr
	}
	r.rec(Op{Kind: "image", X: x, Y: y, W: size, H: size, Text: name})
	return nil
}

func (r *Recorder) Output(w io.Writer) error {
	for _, op := range r.Ops {
		if _, err := fmt.Fprintf(w, "%d %s %.2f %.2f %.2f %.2f %q\n", op.Page, op.Kind, op.X, op.Y, op.W, op.H, op.Text); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns the recorded ops of `kind` on `page` (0: every page).
func (r *Recorder) Filter(kind string, page int) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind && (page == 0 || op.Page == page) {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the text drawn on `page` (0: every page), in drawing order.
func (r *Recorder) Texts(page int) []string {
	ops := r.Filter("text", page)
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Text)
	}
	return out
}
