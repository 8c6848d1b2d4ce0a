package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/correction"
	"github.com/udriss/correction/storage/database"
)

// PrepareDB opens, migrates and empties the test database.
// The test is skipped when no database is reachable.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := core.NewConfig()
	db, err := database.Open(conf)
	if err != nil {
		t.Skipf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		t.Skipf("PrepareDB(): database unavailable: %v", err)
	}

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	ResetDB(t, db)
	return db
}

// ResetDB empties every table.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if _, err := db.Exec(`TRUNCATE share_code, audit_event`); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}

// Students returns a class whose names exercise accents, casing and missing parts.
func Students() []correction.Student {
	return []correction.Student{
		{ID: 1, FirstName: "Marie", LastName: "Curie"},
		{ID: 2, FirstName: "Émile", LastName: "Zola"},
		{ID: 3, FirstName: "Louis", LastName: "Pasteur"},
		{ID: 4, FirstName: "emile", LastName: "aubert"},
		{ID: 5, FirstName: "Théodore", LastName: "Delacroix-Beaumont"},
	}
}

// Activities returns the activities graded in Corrections.
func Activities() []correction.Activity {
	return []correction.Activity{
		{ID: 1, Name: "TP Optique", MaxGrade: null.Float64From(20)},
		{ID: 2, Name: "Devoir Chimie", MaxGrade: null.Float64From(10)},
	}
}

// Corrections returns one correction per student, spread over two sub-classes.
func Corrections() []correction.Correction {
	return []correction.Correction{
		{ID: 11, StudentID: null.IntFrom(1), ActivityID: null.IntFrom(1), SubClass: null.IntFrom(1), Status: correction.StatusActive, Grade: null.Float64From(15.5), MaxGrade: null.Float64From(20)},
		{ID: 12, StudentID: null.IntFrom(2), ActivityID: null.IntFrom(1), SubClass: null.IntFrom(2), Status: correction.StatusAbsent, MaxGrade: null.Float64From(20)},
		{ID: 13, StudentID: null.IntFrom(3), ActivityID: null.IntFrom(1), SubClass: null.IntFrom(1), Status: correction.StatusNotSubmitted, MaxGrade: null.Float64From(20)},
		{ID: 14, StudentID: null.IntFrom(4), ActivityID: null.IntFrom(1), SubClass: null.IntFrom(2), Status: correction.StatusActive, Grade: null.Float64From(8), MaxGrade: null.Float64From(20)},
		{ID: 15, StudentID: null.IntFrom(5), ActivityID: null.IntFrom(1), Status: correction.StatusActive, Grade: null.Float64From(12.25), MaxGrade: null.Float64From(20)},
	}
}

// RequestJSON is a report request body matching Students, Activities and Corrections.
const RequestJSON = `{
	"corrections": [
		{"id": 11, "student_id": 1, "activity_id": 1, "sub_class": 1, "grade": 15.5},
		{"id": 12, "student_id": 2, "activity_id": 1, "sub_class": 2, "status": "ABSENT"},
		{"id": 13, "student_id": 3, "activity_id": 1, "sub_class": 1, "status": "NOT_SUBMITTED"},
		{"id": 14, "student_id": 4, "activity_id": 1, "sub_class": 2, "grade": 8},
		{"id": 15, "student_id": 5, "activity_id": 1, "grade": 12.25}
	],
	"students": [
		{"id": 1, "first_name": "Marie", "last_name": "Curie"},
		{"id": 2, "first_name": "Émile", "last_name": "Zola"},
		{"id": 3, "first_name": "Louis", "last_name": "Pasteur"},
		{"id": 4, "first_name": "emile", "last_name": "aubert"},
		{"id": 5, "first_name": "Théodore", "last_name": "Delacroix-Beaumont"}
	],
	"activities": [
		{"id": 1, "name": "TP Optique", "max_grade": 20},
		{"id": 2, "name": "Devoir Chimie", "max_grade": 10}
	],
	"activity_name": "TP Optique",
	"class_name": "2nde A",
	"arrangement": "student",
	"sub_arrangement": "subclass",
	"actor": "prof"
}`
