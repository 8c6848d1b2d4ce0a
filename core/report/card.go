package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"

	"github.com/udriss/correction/core/correction"
	"github.com/udriss/correction/core/layout"
)

const (
	cardPadding   = 2.0
	cardGap       = 2.0 // between a card's frame and the next row
	lineHeight    = 3.8
	nameFontSize  = 8.0
	textFontSize  = 7.0
	debugFontSize = 5.5
	payloadRunes  = 34
)

type (
	// Style is how cards of one status are drawn.
	Style struct {
		Border    Color
		Text      Color
		LineWidth float64
	}

	// Card is one correction ready to be drawn.
	Card struct {
		Correction correction.Correction
		Code       string
		Payload    string
		Symbol     []byte // PNG; nil draws a placeholder
	}

	CardRenderer struct {
		geo        layout.Geometry
		translator ut.Translator
		dir        *correction.Directory
		detailed   bool
		styles     map[correction.Status]Style
	}
)

// StatusStyles maps every status to its card style.
var StatusStyles = map[correction.Status]Style{
	correction.StatusActive:       {Border: lightGrey, Text: black, LineWidth: 0.2},
	correction.StatusNonGraded:    {Border: Color{230, 145, 30}, Text: Color{180, 95, 0}, LineWidth: 0.6},
	correction.StatusAbsent:       {Border: Color{200, 40, 40}, Text: Color{170, 20, 20}, LineWidth: 0.6},
	correction.StatusNotSubmitted: {Border: Color{150, 60, 170}, Text: Color{120, 40, 140}, LineWidth: 0.6},
	correction.StatusDeactivated:  {Border: grey, Text: grey, LineWidth: 0.4},
	correction.StatusInactive:     {Border: grey, Text: grey, LineWidth: 0.4},
}

func NewCardRenderer(geo layout.Geometry, translator ut.Translator, dir *correction.Directory, detailed bool) *CardRenderer {
	return &CardRenderer{
		geo:        geo,
		translator: translator,
		dir:        dir,
		detailed:   detailed,
		styles:     StatusStyles,
	}
}

func (r *CardRenderer) style(st correction.Status) Style {
	if s, ok := r.styles[st]; ok {
		return s
	}
	return r.styles[correction.StatusActive]
}

// Name returns the detailed student name when it fits the card width, else the compact one.
func (r *CardRenderer) Name(cv Canvas, c correction.Correction) string {
	name := correction.DisplayName(c.StudentID, r.dir, correction.NameDetailed)
	if cv.StringWidth(name) <= r.geo.CardSize-2*cardPadding {
		return name
	}
	return correction.DisplayName(c.StudentID, r.dir, correction.NameCompact)
}

type lineKind int

const (
	lineName lineKind = iota
	lineStatus
	lineText
	lineDebug
)

type cardLine struct {
	kind lineKind
	text string
}

// lines returns the text lines drawn under the symbol, name first.
func (r *CardRenderer) lines(cv Canvas, c correction.Correction, payload string) []cardLine {
	cv.SetFont("B", nameFontSize)
	lines := []cardLine{{lineName, r.Name(cv, c)}}
	if !c.Status.IsDefault() {
		lines = append(lines, cardLine{lineStatus, StatusText(r.translator, c.Status)})
	}
	if r.detailed {
		lines = append(lines, cardLine{lineText, tr(r.translator, keyID, strconv.Itoa(c.ID))})
		if score := FormatScore(c.Grade.Float64, c.MaxGrade.Float64, c.Grade.Valid, c.MaxGrade.Valid); score != "" {
			lines = append(lines, cardLine{lineText, tr(r.translator, keyGrade, score)})
		}
		lines = append(lines, cardLine{lineDebug, truncate(payload, payloadRunes)})
	}
	return lines
}

// Render draws `card` at `cell`.
func (r *CardRenderer) Render(cv Canvas, cell layout.Cell, card Card) {
	c := card.Correction
	st := r.style(c.Status)
	size := r.geo.CardSize
	height := size + r.geo.TextHeight - cardGap

	cv.SetDrawColor(st.Border)
	cv.SetLineWidth(st.LineWidth)
	cv.Rect(cell.X, cell.Y, size, height, false)

	symSize := size - 2*cardPadding
	symX, symY := cell.X+cardPadding, cell.Y+cardPadding
	if card.Symbol == nil {
		r.placeholder(cv, symX, symY, symSize)
	} else if err := cv.Image(card.Code, card.Symbol, symX, symY, symSize); err != nil {
		r.placeholder(cv, symX, symY, symSize)
	}

	y := cell.Y + size + lineHeight - 0.5
	for _, line := range r.lines(cv, c, card.Payload) {
		switch line.kind {
		case lineName:
			cv.SetFont("B", nameFontSize)
			cv.SetTextColor(black)
		case lineStatus:
			cv.SetFont("I", textFontSize)
			cv.SetTextColor(st.Text)
		case lineDebug:
			cv.SetFont("", debugFontSize)
			cv.SetTextColor(grey)
		default:
			cv.SetFont("", textFontSize)
			cv.SetTextColor(black)
		}
		cv.Text(cell.X+cardPadding, y, line.text)
		y += lineHeight
	}
}

// placeholder draws a crossed box where the symbol could not be rendered.
func (r *CardRenderer) placeholder(cv Canvas, x, y, size float64) {
	cv.SetDrawColor(lightGrey)
	cv.SetLineWidth(0.2)
	cv.Rect(x, y, size, size, false)
	cv.Line(x, y, x+size, y+size)
	cv.Line(x+size, y, x, y+size)
}

// FormatScore formats a grade rounded to 2 decimals without trailing zeros,
// with its scale when known. It returns "" when there is no grade.
func FormatScore(grade, scale float64, hasGrade, hasScale bool) string {
	if !hasGrade {
		return ""
	}
	s := formatNumber(grade)
	if hasScale {
		s = fmt.Sprintf("%s/%s", s, formatNumber(scale))
	}
	return s
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
