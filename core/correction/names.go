package correction

import (
	"strings"
	"unicode/utf8"

	"github.com/volatiletech/null/v8"
)

// Unnamed is the display name of corrections without a (known) student.
// The parentheses keep it apart from any real name while still collating deterministically.
const Unnamed = "(unnamed)"

// NameMode selects how a Student name is displayed.
type NameMode int

const (
	NameDetailed NameMode = iota // "First Last"
	NameCompact                  // "First L."
)

// DisplayName returns the name of student `id` looked up in `dir`.
func DisplayName(id null.Int, dir *Directory, mode NameMode) string {
	if !id.Valid {
		return Unnamed
	}
	s, ok := dir.Student(id.Int)
	if !ok {
		return Unnamed
	}
	first := strings.TrimSpace(s.FirstName)
	last := strings.TrimSpace(s.LastName)
	if mode == NameCompact && last != "" {
		r, _ := utf8.DecodeRuneInString(last)
		last = strings.ToUpper(string(r)) + "."
	}
	return strings.TrimSpace(first + " " + last)
}
