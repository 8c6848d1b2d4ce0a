package correction

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/udriss/correction/core"
)

func newDirectory() *Directory {
	return NewDirectory(
		[]Student{
			{ID: 1, FirstName: "Émile", LastName: "Zola"},
			{ID: 2, FirstName: "emile", LastName: "aubert"},
			{ID: 3, FirstName: "Marie", LastName: "Curie"},
			{ID: 4, FirstName: "Louis", LastName: "Pasteur"},
			{ID: 5, FirstName: "Marie", LastName: "Curie"}, // homonym of 3
		},
		[]Activity{
			{ID: 10, Name: "TP Optique", MaxGrade: null.Float64From(20)},
			{ID: 11, Name: "Devoir Chimie"},
		},
	)
}

func corr(id, student int, opts ...func(*Correction)) Correction {
	c := Correction{ID: id, Status: StatusActive}
	if student > 0 {
		c.StudentID = null.IntFrom(student)
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func subClass(n int) func(*Correction) {
	return func(c *Correction) { c.SubClass = null.IntFrom(n) }
}

func activity(id int) func(*Correction) {
	return func(c *Correction) { c.ActivityID = null.IntFrom(id) }
}

func ids(list []Correction) []int {
	out := make([]int, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestDisplayName(t *testing.T) {
	dir := newDirectory()
	tests := []struct {
		name string
		id   null.Int
		mode NameMode
		want string
	}{
		{name: "null id", id: null.Int{}, want: Unnamed},
		{name: "unknown id", id: null.IntFrom(99), want: Unnamed},
		{name: "detailed", id: null.IntFrom(1), mode: NameDetailed, want: "Émile Zola"},
		{name: "compact", id: null.IntFrom(1), mode: NameCompact, want: "Émile Z."},
		{name: "compact lower initial", id: null.IntFrom(2), mode: NameCompact, want: "emile A."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.id, dir, tt.mode))
		})
	}
}

func TestSortByName(t *testing.T) {
	dir := newDirectory()

	t.Run("locale ordering ignores case and accents", func(t *testing.T) {
		list := []Correction{corr(1, 1), corr(2, 2)}
		sorted := SortByName(list, dir, NameDetailed)
		assert.Equal(t, []int{2, 1}, ids(sorted)) // emile aubert, Émile Zola
	})

	t.Run("stable for equal names", func(t *testing.T) {
		list := []Correction{corr(7, 5), corr(3, 4), corr(5, 3), corr(1, 5)}
		sorted := SortByName(list, dir, NameDetailed)
		// Louis Pasteur, then Marie Curie (7, 5, 1 in input order)
		assert.Equal(t, []int{3, 7, 5, 1}, ids(sorted))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		list := []Correction{corr(1, 1), corr(2, 2), corr(3, 3)}
		_ = SortByName(list, dir, NameDetailed)
		assert.Equal(t, []int{1, 2, 3}, ids(list))
	})

	t.Run("unnamed sorts deterministically", func(t *testing.T) {
		list := []Correction{corr(1, 1), corr(2, 0), corr(3, 99)}
		first := SortByName(list, dir, NameDetailed)
		second := SortByName(list, dir, NameDetailed)
		assert.Equal(t, ids(first), ids(second))
		assert.Len(t, first, 3)
	})
}

func TestArrange(t *testing.T) {
	dir := newDirectory()
	list := []Correction{
		corr(1, 1, subClass(2), activity(10)),
		corr(2, 2, subClass(1), activity(11)),
		corr(3, 3, subClass(2), activity(11)),
		corr(4, 4, activity(12)),
		corr(5, 0, subClass(1)),
	}

	t.Run("secondary none gives a flat sorted list", func(t *testing.T) {
		got := Arrange(list, BySubClass, None, dir)
		assert.False(t, got.Grouped)
		require.Len(t, got.Groups, 1)
		assert.Equal(t, len(list), got.Len())
	})

	t.Run("primary sub-class wins over secondary activity", func(t *testing.T) {
		got := Arrange(list, BySubClass, ByActivity, dir)
		assert.True(t, got.Grouped)
		assert.ElementsMatch(t, []string{"Group 1", "Group 2", "No group"}, got.Labels())
	})

	t.Run("primary activity wins over secondary sub-class", func(t *testing.T) {
		got := Arrange(list, ByActivity, BySubClass, dir)
		assert.True(t, got.Grouped)
		assert.ElementsMatch(t, []string{"TP Optique", "Devoir Chimie", "Unknown activity 12", "No activity"}, got.Labels())
	})

	t.Run("default primary defers to secondary activity", func(t *testing.T) {
		got := Arrange(list, ByStudent, ByActivity, dir)
		assert.True(t, got.Grouped)
		assert.Equal(t, []string{"Devoir Chimie", "No activity", "TP Optique", "Unknown activity 12"}, got.Labels())

		for _, g := range got.Groups {
			if g.Label == "Devoir Chimie" {
				assert.Equal(t, []int{2, 3}, ids(g.Corrections)) // emile aubert, Marie Curie
			}
		}
	})

	t.Run("default primary and unknown secondary falls back to flat", func(t *testing.T) {
		got := Arrange(list, ByStudent, ByClass, dir)
		assert.False(t, got.Grouped)
		assert.Equal(t, len(list), got.Len())
	})

	t.Run("sub-class labels sort numerically", func(t *testing.T) {
		numbered := []Correction{
			corr(1, 1, subClass(10)),
			corr(2, 2, subClass(2)),
			corr(3, 3, subClass(1)),
			corr(4, 4),
		}
		got := Arrange(numbered, ByStudent, BySubClass, dir)
		assert.Equal(t, []string{"Group 1", "Group 2", "Group 10", "No group"}, got.Labels())

		// label order follows the secondary arrangement only
		got = Arrange(numbered, BySubClass, ByActivity, dir)
		assert.Equal(t, []string{"Group 1", "Group 10", "Group 2", "No group"}, got.Labels())
	})
}

func TestArrange_partition(t *testing.T) {
	dir := newDirectory()
	list := []Correction{
		corr(1, 1, subClass(3), activity(10)),
		corr(2, 2, activity(10)),
		corr(3, 3, subClass(1)),
		corr(4, 4, subClass(3), activity(11)),
		corr(5, 5, subClass(12), activity(99)),
		corr(6, 0),
	}
	arrangements := []Arrangement{ByStudent, ByClass, BySubClass, ByActivity, None, "whatever"}

	for _, primary := range arrangements {
		for _, secondary := range arrangements {
			got := Arrange(list, primary, secondary, dir)

			seen := make(map[int]bool)
			var total int
			for _, g := range got.Groups {
				total += len(g.Corrections)
				for _, c := range g.Corrections {
					assert.False(t, seen[c.ID], "%s/%s: correction %d in two groups", primary, secondary, c.ID)
					seen[c.ID] = true
				}
			}
			assert.Equal(t, len(list), total, "%s/%s", primary, secondary)
		}
	}
}

func newValidate(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	validate := validator.New()
	translator := core.NewTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func TestNormalize(t *testing.T) {
	validate, translator := newValidate(t)
	dir := newDirectory()

	tests := []struct {
		name       string
		input      Input
		wantStatus Status
		wantErr    bool
	}{
		{name: "default active", input: Input{ID: 1}, wantStatus: StatusActive},
		{name: "explicit status", input: Input{ID: 1, Status: null.StringFrom("absent")}, wantStatus: StatusAbsent},
		{name: "legacy inactive flag", input: Input{ID: 1, Active: null.IntFrom(0)}, wantStatus: StatusInactive},
		{name: "legacy active flag", input: Input{ID: 1, Active: null.IntFrom(1)}, wantStatus: StatusActive},
		{name: "status wins over legacy flag", input: Input{ID: 1, Status: null.StringFrom("NON_GRADED"), Active: null.IntFrom(0)}, wantStatus: StatusNonGraded},
		{name: "blank status ignored", input: Input{ID: 1, Status: null.StringFrom("  ")}, wantStatus: StatusActive},
		{name: "unknown status", input: Input{ID: 1, Status: null.StringFrom("LOST")}, wantErr: true},
		{name: "missing id", input: Input{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(validate, translator, []Input{tt.input}, dir)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantStatus, got[0].Status)
		})
	}

	t.Run("max grade from activity", func(t *testing.T) {
		got, err := Normalize(validate, translator, []Input{{ID: 1, ActivityID: null.IntFrom(10)}}, dir)
		require.NoError(t, err)
		assert.Equal(t, null.Float64From(20), got[0].MaxGrade)
	})

	t.Run("translated field errors", func(t *testing.T) {
		_, err := Normalize(validate, translator, []Input{{ID: 1}, {ID: 2, Status: null.StringFrom("LOST")}}, dir)
		require.Error(t, err)
		vErr := errors.Cause(err).(*core.ValidationError)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "corrections[1].status", vErr.Fields[0].Field)
		assert.Equal(t, statusText, vErr.Fields[0].Error)

		_, err = Normalize(validate, nil, []Input{{ID: 2, Status: null.StringFrom("LOST")}}, dir)
		require.Error(t, err)
		vErr = errors.Cause(err).(*core.ValidationError)
		assert.Contains(t, vErr.Fields[0].Error, "correction_status", "raw validator text without a translator")
	})
}
