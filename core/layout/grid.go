package layout

import "github.com/pkg/errors"

var (
	// errors
	ErrInvalidGeometry = errors.New("invalid grid geometry")

	// DefaultGeometry is an A4 portrait page holding 3x4 cards.
	DefaultGeometry = Geometry{
		PageWidth:   210,
		PageHeight:  297,
		Margin:      10,
		CardSize:    35,
		TextHeight:  22,
		Columns:     3,
		Rows:        4,
		FirstHeader: 45,
		Header:      25,
	}
)

type (
	// Geometry is the fixed page configuration, in millimeters.
	Geometry struct {
		PageWidth   float64
		PageHeight  float64
		Margin      float64
		CardSize    float64 // square symbol side
		TextHeight  float64 // annotation block under the symbol
		Columns     int
		Rows        int
		FirstHeader float64 // title, summary & legend
		Header      float64 // repeated title & subtitle
	}

	// Cell is the placement of one card.
	Cell struct {
		Page int // page offset, relative to the first page of the sequence
		Row  int
		Col  int
		X    float64 // card origin (top left)
		Y    float64
	}

	Grid struct {
		geo       Geometry
		rowHeight float64
		colX      []float64 // card origin per column
		topFirst  float64
		top       float64
	}
)

func (g Geometry) RowHeight() float64 { return g.CardSize + g.TextHeight }

func (g Geometry) ItemsPerPage() int { return g.Columns * g.Rows }

// Validate checks that the grid fits the page under both header heights.
func (g Geometry) Validate() error {
	switch {
	case g.Columns <= 0 || g.Rows <= 0:
		return errors.Wrap(ErrInvalidGeometry, "columns and rows must be positive")
	case g.PageWidth <= 0 || g.PageHeight <= 0 || g.CardSize <= 0:
		return errors.Wrap(ErrInvalidGeometry, "page and card sizes must be positive")
	case g.Margin < 0 || g.TextHeight < 0 || g.FirstHeader < 0 || g.Header < 0:
		return errors.Wrap(ErrInvalidGeometry, "margin, text and header heights cannot be negative")
	}

	usable := g.PageWidth - 2*g.Margin
	if spacing := usable / float64(g.Columns+1); g.Columns > 1 && spacing < g.CardSize {
		return errors.Wrapf(ErrInvalidGeometry, "%d columns of %gmm overlap", g.Columns, g.CardSize)
	}
	if g.CardSize > usable {
		return errors.Wrap(ErrInvalidGeometry, "card wider than the page")
	}

	gridH := float64(g.Rows) * g.RowHeight()
	for _, header := range []float64{g.FirstHeader, g.Header} {
		if g.PageHeight-header-g.Margin < gridH {
			return errors.Wrapf(ErrInvalidGeometry, "%d rows do not fit under a %gmm header", g.Rows, header)
		}
	}
	return nil
}

// NewGrid validates `geo` and precomputes column and row origins.
func NewGrid(geo Geometry) (*Grid, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{
		geo:       geo,
		rowHeight: geo.RowHeight(),
		colX:      make([]float64, geo.Columns),
	}
	usable := geo.PageWidth - 2*geo.Margin
	for c := range g.colX {
		center := geo.Margin + usable*float64(c+1)/float64(geo.Columns+1)
		g.colX[c] = center - geo.CardSize/2
	}
	g.topFirst = g.topMargin(geo.FirstHeader)
	g.top = g.topMargin(geo.Header)
	return g, nil
}

// topMargin centers the grid vertically in the space below `header`.
func (g *Grid) topMargin(header float64) float64 {
	gridH := float64(g.geo.Rows) * g.rowHeight
	return header + (g.geo.PageHeight-header-g.geo.Margin-gridH)/2
}

func (g *Grid) Geometry() Geometry { return g.geo }

func (g *Grid) ItemsPerPage() int { return g.geo.ItemsPerPage() }

func (g *Grid) RowHeight() float64 { return g.rowHeight }

// ColumnX returns the card origin of column `c`.
func (g *Grid) ColumnX(c int) float64 { return g.colX[c] }

// Top returns the y origin of the first row, under the first-page header or the regular one.
func (g *Grid) Top(firstPage bool) float64 {
	if firstPage {
		return g.topFirst
	}
	return g.top
}

// Place returns the cell of the i-th item of a sequence.
// firstPage reports whether the sequence starts on the document's first page,
// in which case its page 0 sits under the taller header.
func (g *Grid) Place(i int, firstPage bool) Cell {
	perPage := g.ItemsPerPage()
	page := i / perPage
	pos := i - page*perPage
	row := pos / g.geo.Columns
	col := pos % g.geo.Columns

	return Cell{
		Page: page,
		Row:  row,
		Col:  col,
		X:    g.colX[col],
		Y:    g.Top(firstPage && page == 0) + float64(row)*g.rowHeight,
	}
}
