package layout

type (
	// Section is a run of cards that must start on a fresh page (a group).
	Section struct {
		Label string
		Count int
	}

	// Page is one page of a Plan.
	Page struct {
		Index   int // global, zero based
		Section int // index into the paginated sections
		Label   string
		First   bool // first page of the document
		Offset  int  // index, within the section, of the page's first card
		Cells   []Cell
	}

	Plan struct {
		Pages []Page
		Cards int
	}
)

// Paginate lays out the sections one after the other. Every non-empty section starts a new page;
// empty sections are skipped. Cell.Page is the global page index.
func (g *Grid) Paginate(sections []Section) Plan {
	var plan Plan
	for s, sec := range sections {
		if sec.Count <= 0 {
			continue
		}
		first := len(plan.Pages) == 0
		start := len(plan.Pages)

		for i := 0; i < sec.Count; i++ {
			cell := g.Place(i, first)
			cell.Page += start
			if cell.Page == len(plan.Pages) {
				plan.Pages = append(plan.Pages, Page{
					Index:   cell.Page,
					Section: s,
					Label:   sec.Label,
					First:   cell.Page == 0,
					Offset:  i,
				})
			}
			page := &plan.Pages[cell.Page]
			page.Cells = append(page.Cells, cell)
		}
		plan.Cards += sec.Count
	}
	return plan
}

// PageCount returns the number of pages.
func (p Plan) PageCount() int { return len(p.Pages) }
