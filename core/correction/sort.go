package correction

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns a locale-aware collator comparing at base strength:
// case and accents are ignored ("Émile" == "emile").
// Collators are not safe for concurrent use; create one per goroutine.
func NewCollator() *collate.Collator {
	return collate.New(language.French, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
}

// SortByName returns a copy of `list` ordered by student display name.
// The sort is stable: corrections with equal names keep their relative order.
func SortByName(list []Correction, dir *Directory, mode NameMode) []Correction {
	return sortByName(NewCollator(), list, dir, mode)
}

func sortByName(col *collate.Collator, list []Correction, dir *Directory, mode NameMode) []Correction {
	type keyed struct {
		name string
		c    Correction
	}
	items := make([]keyed, len(list))
	for i, c := range list {
		items[i] = keyed{name: DisplayName(c.StudentID, dir, mode), c: c}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].name, items[j].name) < 0
	})

	sorted := make([]Correction, len(items))
	for i, it := range items {
		sorted[i] = it.c
	}
	return sorted
}
