package correction

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/udriss/correction/core"
)

// Status of a Correction. Exactly one applies per record.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusNonGraded    Status = "NON_GRADED"
	StatusAbsent       Status = "ABSENT"
	StatusNotSubmitted Status = "NOT_SUBMITTED"
	StatusDeactivated  Status = "DEACTIVATED"
	StatusInactive     Status = "INACTIVE" // legacy: inferred from `active = 0`
)

// Statuses lists every status, in legend order.
var Statuses = []Status{
	StatusActive,
	StatusNonGraded,
	StatusAbsent,
	StatusNotSubmitted,
	StatusDeactivated,
	StatusInactive,
}

func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsDefault reports whether cards with this status render without a warning line.
func (s Status) IsDefault() bool { return s == StatusActive }

type Student struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Activity struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	MaxGrade null.Float64 `json:"max_grade"`
}

// Correction is one gradeable submission, normalized for reporting.
type Correction struct {
	ID         int
	StudentID  null.Int
	ActivityID null.Int
	ClassID    null.Int
	SubClass   null.Int
	Status     Status
	Grade      null.Float64
	MaxGrade   null.Float64 // from the related Activity
	ShareCode  string       // optional, pre-attached by the caller
}

// Input is a Correction as received from callers (JSON).
type Input struct {
	ID         int          `json:"id" validate:"required,min=1"`
	StudentID  null.Int     `json:"student_id"`
	ActivityID null.Int     `json:"activity_id"`
	ClassID    null.Int     `json:"class_id"`
	SubClass   null.Int     `json:"sub_class" validate:"omitempty,min=1"`
	Status     null.String  `json:"status" validate:"omitempty,correction_status"`
	Active     null.Int     `json:"active"` // legacy flag, superseded by Status
	Grade      null.Float64 `json:"grade"`
	ShareCode  string       `json:"share_code"`
}

func (in *Input) Validate(validate *validator.Validate) error {
	in.ShareCode = core.CleanString(in.ShareCode)
	if in.Status.Valid {
		in.Status.String = strings.ToUpper(core.CleanString(in.Status.String))
		in.Status.Valid = in.Status.String != ""
	}
	return validate.Struct(in)
}

// status resolves the closed Status from the status string or the legacy `active` flag.
func (in Input) status() Status {
	if in.Status.Valid && in.Status.String != "" {
		return Status(in.Status.String)
	}
	if in.Active.Valid && in.Active.Int == 0 {
		return StatusInactive
	}
	return StatusActive
}

// Correction normalizes the Input; the score scale is taken from the Activity directory.
func (in Input) Correction(dir *Directory) Correction {
	c := Correction{
		ID:         in.ID,
		StudentID:  in.StudentID,
		ActivityID: in.ActivityID,
		ClassID:    in.ClassID,
		SubClass:   in.SubClass,
		Status:     in.status(),
		Grade:      in.Grade,
		ShareCode:  in.ShareCode,
	}
	if dir != nil && in.ActivityID.Valid {
		if act, ok := dir.Activity(in.ActivityID.Int); ok {
			c.MaxGrade = act.MaxGrade
		}
	}
	return c
}

// Normalize validates and normalizes every Input. Validation errors are reported per index.
func Normalize(validate *validator.Validate, translator ut.Translator, inputs []Input, dir *Directory) ([]Correction, error) {
	corrections := make([]Correction, 0, len(inputs))
	for i := range inputs {
		if err := inputs[i].Validate(validate); err != nil {
			return nil, wrapIndexed(err, i, translator)
		}
		corrections = append(corrections, inputs[i].Correction(dir))
	}
	return corrections, nil
}

// Directory is the lookup table of Students and Activities used for display names.
type Directory struct {
	students   map[int]Student
	activities map[int]Activity
}

func NewDirectory(students []Student, activities []Activity) *Directory {
	dir := &Directory{
		students:   make(map[int]Student, len(students)),
		activities: make(map[int]Activity, len(activities)),
	}
	for _, s := range students {
		dir.students[s.ID] = s
	}
	for _, a := range activities {
		dir.activities[a.ID] = a
	}
	return dir
}

func (dir *Directory) Student(id int) (Student, bool) {
	if dir == nil {
		return Student{}, false
	}
	s, ok := dir.students[id]
	return s, ok
}

func (dir *Directory) Activity(id int) (Activity, bool) {
	if dir == nil {
		return Activity{}, false
	}
	a, ok := dir.activities[id]
	return a, ok
}
