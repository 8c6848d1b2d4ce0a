package report

import (
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"

	"github.com/udriss/correction/core/correction"
	"github.com/udriss/correction/core/layout"
)

// Summary counts corrections per status.
type Summary struct {
	Total    int
	ByStatus map[correction.Status]int
}

func Summarize(list []correction.Correction) Summary {
	s := Summary{Total: len(list), ByStatus: make(map[correction.Status]int)}
	for _, c := range list {
		s.ByStatus[c.Status]++
	}
	return s
}

// Breakdown returns the non-default statuses present, in legend order.
func (s Summary) Breakdown() []correction.Status {
	var out []correction.Status
	for _, st := range correction.Statuses {
		if !st.IsDefault() && s.ByStatus[st] > 0 {
			out = append(out, st)
		}
	}
	return out
}

// Text is the one-line summary, e.g. "12 correction(s) (2 Absent(e), 1 Non rendu)".
func (s Summary) Text(translator ut.Translator) string {
	text := tr(translator, keySummary, strconv.Itoa(s.Total))
	breakdown := s.Breakdown()
	if len(breakdown) == 0 {
		return text
	}
	parts := make([]string, 0, len(breakdown))
	for _, st := range breakdown {
		parts = append(parts, strconv.Itoa(s.ByStatus[st])+" "+StatusText(translator, st))
	}
	return text + " (" + strings.Join(parts, ", ") + ")"
}

type headerRenderer struct {
	geo        layout.Geometry
	translator ut.Translator
}

func subtitle(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}

// first draws the title, subtitle, summary and, only when non-default statuses exist, the legend.
func (h headerRenderer) first(cv Canvas, title, sub string, sum Summary) {
	x, y := h.geo.Margin, h.geo.Margin

	cv.SetTextColor(black)
	cv.SetFont("B", 16)
	cv.Text(x, y+7, title)

	cv.SetTextColor(grey)
	cv.SetFont("", 11)
	cv.Text(x, y+14, sub)

	cv.SetTextColor(black)
	cv.SetFont("", 9)
	cv.Text(x, y+21, sum.Text(h.translator))

	breakdown := sum.Breakdown()
	if len(breakdown) == 0 {
		return
	}
	legendY := y + 28
	legend := tr(h.translator, keyLegend)
	cv.SetFont("B", 8)
	cv.Text(x, legendY, legend)
	x += cv.StringWidth(legend) + 3

	cv.SetFont("", 8)
	for _, st := range breakdown {
		style := StatusStyles[st]
		cv.SetDrawColor(style.Border)
		cv.SetFillColor(style.Border)
		cv.SetLineWidth(style.LineWidth)
		cv.Rect(x, legendY-2.5, 3, 3, true)
		x += 4.5

		label := StatusText(h.translator, st)
		cv.SetTextColor(style.Text)
		cv.Text(x, legendY, label)
		x += cv.StringWidth(label) + 5
	}
	cv.SetTextColor(black)
}

// regular draws the short header repeated on every page after the first.
func (h headerRenderer) regular(cv Canvas, title, sub string) {
	x, y := h.geo.Margin, h.geo.Margin

	cv.SetTextColor(black)
	cv.SetFont("B", 13)
	cv.Text(x, y+6, title)

	cv.SetTextColor(grey)
	cv.SetFont("", 10)
	cv.Text(x, y+12, sub)
	cv.SetTextColor(black)
}

// footers writes "Page X of N" at the bottom of every page.
func (h headerRenderer) footers(cv Canvas) {
	total := cv.PageCount()
	cv.SetFont("", 8)
	cv.SetTextColor(grey)
	for p := 1; p <= total; p++ {
		cv.SetPage(p)
		text := tr(h.translator, keyPage, strconv.Itoa(p), strconv.Itoa(total))
		x := (h.geo.PageWidth - cv.StringWidth(text)) / 2
		cv.Text(x, h.geo.PageHeight-h.geo.Margin/2, text)
	}
}
