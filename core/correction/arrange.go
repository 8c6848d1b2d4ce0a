package correction

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
)

// Arrangement is a grouping criterion selected by the caller.
type Arrangement string

const (
	ByStudent  Arrangement = "student"
	ByClass    Arrangement = "class"
	BySubClass Arrangement = "subclass"
	ByActivity Arrangement = "activity"
	None       Arrangement = "none"
)

const (
	noGroupLabel    = "No group"
	noActivityLabel = "No activity"
)

var labelNumber = regexp.MustCompile(`\d+`)

// Group is a labelled, name-sorted subset of corrections.
type Group struct {
	Label       string
	Corrections []Correction
}

// Arranged is the output of Arrange: either one unlabelled group (flat) or ordered labelled groups.
type Arranged struct {
	Grouped bool
	Groups  []Group
}

// Len returns the number of corrections over all groups.
func (a Arranged) Len() int {
	var n int
	for _, g := range a.Groups {
		n += len(g.Corrections)
	}
	return n
}

// Labels returns the group labels in iteration order.
func (a Arranged) Labels() []string {
	labels := make([]string, 0, len(a.Groups))
	for _, g := range a.Groups {
		labels = append(labels, g.Label)
	}
	return labels
}

// SubClassLabel returns the group label of a sub-class ("Group n", or "No group").
func SubClassLabel(c Correction) string {
	if !c.SubClass.Valid {
		return noGroupLabel
	}
	return fmt.Sprintf("Group %d", c.SubClass.Int)
}

// ActivityLabel returns the Activity name of `c`.
func ActivityLabel(c Correction, dir *Directory) string {
	if !c.ActivityID.Valid {
		return noActivityLabel
	}
	if act, ok := dir.Activity(c.ActivityID.Int); ok && act.Name != "" {
		return act.Name
	}
	return fmt.Sprintf("Unknown activity %d", c.ActivityID.Int)
}

// keyFunc picks the grouping key.
// The primary arrangement only wins for sub-classes and activities; any other
// primary value defers to the secondary one. nil means no grouping.
func keyFunc(primary, secondary Arrangement, dir *Directory) func(Correction) string {
	byActivity := func(c Correction) string { return ActivityLabel(c, dir) }

	switch primary {
	case BySubClass:
		return SubClassLabel
	case ByActivity:
		return byActivity
	}
	switch secondary {
	case BySubClass:
		return SubClassLabel
	case ByActivity:
		return byActivity
	}
	return nil
}

// Arrange partitions `list` into groups following the primary/secondary arrangement,
// each group sorted by student name (detailed).
func Arrange(list []Correction, primary, secondary Arrangement, dir *Directory) Arranged {
	col := NewCollator()

	key := keyFunc(primary, secondary, dir)
	if secondary == None || secondary == "" || key == nil {
		return Arranged{Groups: []Group{{Corrections: sortByName(col, list, dir, NameDetailed)}}}
	}

	// insertion ordered association: label -> members
	index := make(map[string]int)
	var groups []Group
	for _, c := range list {
		label := key(c)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Corrections = append(groups[i].Corrections, c)
	}

	for i := range groups {
		groups[i].Corrections = sortByName(col, groups[i].Corrections, dir, NameDetailed)
	}
	if secondary == BySubClass {
		sortLabelsNumerically(col, groups)
	} else {
		sort.SliceStable(groups, func(i, j int) bool {
			return col.CompareString(groups[i].Label, groups[j].Label) < 0
		})
	}
	return Arranged{Grouped: true, Groups: groups}
}

// sortLabelsNumerically orders labels by their embedded number ("Group 2" < "Group 10").
// Labels without a number come last, in collation order.
func sortLabelsNumerically(col *collate.Collator, groups []Group) {
	nums := make(map[string]int, len(groups))
	for _, g := range groups {
		n := -1
		if m := labelNumber.FindString(g.Label); m != "" {
			if v, err := strconv.Atoi(m); err == nil {
				n = v
			}
		}
		nums[g.Label] = n
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ni, nj := nums[groups[i].Label], nums[groups[j].Label]
		switch {
		case ni >= 0 && nj >= 0 && ni != nj:
			return ni < nj
		case ni >= 0 && nj < 0:
			return true
		case ni < 0 && nj >= 0:
			return false
		}
		return col.CompareString(groups[i].Label, groups[j].Label) < 0
	})
}
