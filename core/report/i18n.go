package report

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core/correction"
)

const (
	keyPage       = "report.page"
	keySummary    = "report.summary"
	keyLegend     = "report.legend"
	keyID         = "report.id"
	keyGrade      = "report.grade"
	keyUntitled   = "report.untitled"
	keyStatusBase = "report.status."
)

var texts = map[string]map[string]string{
	"fr": {
		keyPage:     "Page {0} sur {1}",
		keySummary:  "{0} correction(s)",
		keyLegend:   "Légende :",
		keyID:       "ID : {0}",
		keyGrade:    "Note : {0}",
		keyUntitled: "Corrections",

		keyStatusBase + string(correction.StatusActive):       "Actif",
		keyStatusBase + string(correction.StatusNonGraded):    "Non noté",
		keyStatusBase + string(correction.StatusAbsent):       "Absent(e)",
		keyStatusBase + string(correction.StatusNotSubmitted): "Non rendu",
		keyStatusBase + string(correction.StatusDeactivated):  "Désactivé",
		keyStatusBase + string(correction.StatusInactive):     "Inactif",
	},
	"en": {
		keyPage:     "Page {0} of {1}",
		keySummary:  "{0} correction(s)",
		keyLegend:   "Legend:",
		keyID:       "ID: {0}",
		keyGrade:    "Grade: {0}",
		keyUntitled: "Corrections",

		keyStatusBase + string(correction.StatusActive):       "Active",
		keyStatusBase + string(correction.StatusNonGraded):    "Not graded",
		keyStatusBase + string(correction.StatusAbsent):       "Absent",
		keyStatusBase + string(correction.StatusNotSubmitted): "Not submitted",
		keyStatusBase + string(correction.StatusDeactivated):  "Deactivated",
		keyStatusBase + string(correction.StatusInactive):     "Inactive",
	},
}

// RegisterTranslations adds the report texts to `translator` (fr | en; anything else gets fr).
func RegisterTranslations(translator ut.Translator) error {
	locTexts, ok := texts[translator.Locale()]
	if !ok {
		locTexts = texts["fr"]
	}
	for key, text := range locTexts {
		if err := translator.Add(key, text, true); err != nil {
			return errors.Wrapf(err, "registering translation %q", key)
		}
	}
	return nil
}

// tr translates `key`, falling back to the key itself.
func tr(translator ut.Translator, key string, params ...string) string {
	s, err := translator.T(key, params...)
	if err != nil || s == "" {
		return key
	}
	return s
}

// StatusText returns the translated, human readable status.
func StatusText(translator ut.Translator, st correction.Status) string {
	return tr(translator, keyStatusBase+string(st))
}
