package layout

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallGeometry() Geometry {
	geo := DefaultGeometry
	geo.Columns = 2
	geo.Rows = 2
	return geo
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Geometry)
		wantErr bool
	}{
		{name: "default", mutate: func(*Geometry) {}},
		{name: "no columns", mutate: func(g *Geometry) { g.Columns = 0 }, wantErr: true},
		{name: "negative rows", mutate: func(g *Geometry) { g.Rows = -1 }, wantErr: true},
		{name: "zero card", mutate: func(g *Geometry) { g.CardSize = 0 }, wantErr: true},
		{name: "overlapping columns", mutate: func(g *Geometry) { g.Columns = 6 }, wantErr: true},
		{name: "too many rows", mutate: func(g *Geometry) { g.Rows = 5 }, wantErr: true},
		{name: "first header too tall", mutate: func(g *Geometry) { g.FirstHeader = 70 }, wantErr: true},
		{name: "single column", mutate: func(g *Geometry) { g.Columns = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := DefaultGeometry
			tt.mutate(&geo)
			_, err := NewGrid(geo)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrInvalidGeometry, errors.Cause(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGrid_Place(t *testing.T) {
	grid, err := NewGrid(smallGeometry())
	require.NoError(t, err)

	tests := []struct {
		idx               int
		wantPage, wantRow int
		wantCol           int
	}{
		{idx: 0, wantPage: 0, wantRow: 0, wantCol: 0},
		{idx: 1, wantPage: 0, wantRow: 0, wantCol: 1},
		{idx: 2, wantPage: 0, wantRow: 1, wantCol: 0},
		{idx: 3, wantPage: 0, wantRow: 1, wantCol: 1},
		{idx: 4, wantPage: 1, wantRow: 0, wantCol: 0},
		{idx: 5, wantPage: 1, wantRow: 0, wantCol: 1},
		{idx: 9, wantPage: 2, wantRow: 0, wantCol: 1},
	}
	for _, tt := range tests {
		cell := grid.Place(tt.idx, true)
		assert.Equal(t, tt.wantPage, cell.Page, "idx %d page", tt.idx)
		assert.Equal(t, tt.wantRow, cell.Row, "idx %d row", tt.idx)
		assert.Equal(t, tt.wantCol, cell.Col, "idx %d col", tt.idx)
	}
}

func TestGrid_origins(t *testing.T) {
	geo := DefaultGeometry
	grid, err := NewGrid(geo)
	require.NoError(t, err)

	// columns centered at 1/4, 2/4, 3/4 of the usable width
	assert.InDelta(t, 40.0, grid.ColumnX(0), 1e-9)
	assert.InDelta(t, 87.5, grid.ColumnX(1), 1e-9)
	assert.InDelta(t, 135.0, grid.ColumnX(2), 1e-9)

	// 297 - 45 - 10 - 4*57 = 14 -> 45 + 7; 297 - 25 - 10 - 228 = 34 -> 25 + 17
	assert.InDelta(t, 52.0, grid.Top(true), 1e-9)
	assert.InDelta(t, 42.0, grid.Top(false), 1e-9)

	assert.InDelta(t, 52.0+57, grid.Place(3, true).Y, 1e-9)
	assert.InDelta(t, 42.0, grid.Place(12, true).Y, 1e-9, "page 1 uses the short header")
	assert.InDelta(t, 42.0, grid.Place(0, false).Y, 1e-9)
}

func TestGrid_occupancy(t *testing.T) {
	grid, err := NewGrid(DefaultGeometry)
	require.NoError(t, err)
	geo := grid.Geometry()

	type slot struct{ page, row, col int }
	seen := make(map[slot]int)
	for i := 0; i < 100; i++ {
		cell := grid.Place(i, true)
		s := slot{cell.Page, cell.Row, cell.Col}
		prev, dup := seen[s]
		require.False(t, dup, "items %d and %d share a slot", prev, i)
		seen[s] = i

		assert.GreaterOrEqual(t, cell.X, geo.Margin)
		assert.LessOrEqual(t, cell.X+geo.CardSize, geo.PageWidth-geo.Margin)
		assert.LessOrEqual(t, cell.Y+grid.RowHeight(), geo.PageHeight-geo.Margin)
	}

	// cards of the same page never overlap
	for i := 0; i < grid.ItemsPerPage(); i++ {
		for j := i + 1; j < grid.ItemsPerPage(); j++ {
			a, b := grid.Place(i, true), grid.Place(j, true)
			apart := a.X+geo.CardSize <= b.X || b.X+geo.CardSize <= a.X ||
				a.Y+grid.RowHeight() <= b.Y || b.Y+grid.RowHeight() <= a.Y
			assert.True(t, apart, "cards %d and %d overlap", i, j)
		}
	}
}

func TestGrid_Paginate(t *testing.T) {
	grid, err := NewGrid(smallGeometry())
	require.NoError(t, err)

	t.Run("five cards without groups", func(t *testing.T) {
		plan := grid.Paginate([]Section{{Count: 5}})
		require.Equal(t, 2, plan.PageCount())
		assert.Len(t, plan.Pages[0].Cells, 4)
		require.Len(t, plan.Pages[1].Cells, 1)
		assert.Equal(t, 5, plan.Cards)
		assert.True(t, plan.Pages[0].First)
		assert.False(t, plan.Pages[1].First)
		assert.Equal(t, 4, plan.Pages[1].Offset)

		// the lone card sits in its column slot, not on the margin
		last := plan.Pages[1].Cells[0]
		assert.Equal(t, 1, last.Page)
		assert.Equal(t, grid.ColumnX(0), last.X)
		assert.Greater(t, last.X, grid.Geometry().Margin)
	})

	t.Run("groups start new pages", func(t *testing.T) {
		plan := grid.Paginate([]Section{
			{Label: "Group 1", Count: 1},
			{Label: "Group 2", Count: 0},
			{Label: "Group 3", Count: 6},
		})
		require.Equal(t, 3, plan.PageCount())
		assert.Equal(t, "Group 1", plan.Pages[0].Label)
		assert.Equal(t, "Group 3", plan.Pages[1].Label)
		assert.Equal(t, "Group 3", plan.Pages[2].Label)
		assert.Equal(t, 2, plan.Pages[1].Section)
		assert.Len(t, plan.Pages[1].Cells, 4)
		assert.Len(t, plan.Pages[2].Cells, 2)

		// second group starts at the top left of page 1, under the short header
		first := plan.Pages[1].Cells[0]
		assert.Equal(t, 1, first.Page)
		assert.Equal(t, 0, first.Row)
		assert.Equal(t, 0, first.Col)
		assert.Equal(t, grid.Top(false), first.Y)
	})

	t.Run("empty input", func(t *testing.T) {
		plan := grid.Paginate(nil)
		assert.Zero(t, plan.PageCount())
	})
}
