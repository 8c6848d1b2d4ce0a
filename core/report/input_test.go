package report

import (
	"encoding/json"
	"net/mail"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/correction"
)

func newValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator("fr")
	core.InitValidators(validate, translator)
	correction.InitValidators(validate, translator)
	return validate, translator
}

func TestRequestInput_Request(t *testing.T) {
	validate, translator := newValidate()

	decode := func(t *testing.T, body string) *RequestInput {
		var in RequestInput
		require.NoError(t, json.Unmarshal([]byte(body), &in))
		return &in
	}

	t.Run("ok", func(t *testing.T) {
		in := decode(t, `{
			"corrections": [
				{"id": 1, "student_id": 10, "activity_id": 3, "grade": 14.5},
				{"id": 2, "student_id": 11, "activity_id": 3, "status": " absent "},
				{"id": 3, "student_id": 12, "active": 0}
			],
			"students": [{"id": 10, "first_name": "Marie", "last_name": "Curie"}],
			"activities": [{"id": 3, "name": "TP Optique", "max_grade": 20}],
			"activity_name": "  TP Optique ",
			"class_name": "2nde A",
			"arrangement": "SubClass",
			"detailed": true,
			"actor": "prof",
			"recipients": [" prof@example.org "]
		}`)

		req, err := in.Request(validate, translator)
		require.NoError(t, err)
		assert.Equal(t, "TP Optique", req.ActivityName)
		assert.Equal(t, correction.BySubClass, req.Arrangement)
		assert.Equal(t, correction.Arrangement(""), req.SubArrangement)
		assert.True(t, req.Detailed)
		assert.Equal(t, []mail.Address{{Address: "prof@example.org"}}, req.Recipients)

		require.Len(t, req.Corrections, 3)
		assert.Equal(t, correction.StatusActive, req.Corrections[0].Status)
		assert.Equal(t, 20.0, req.Corrections[0].MaxGrade.Float64)
		assert.Equal(t, correction.StatusAbsent, req.Corrections[1].Status)
		assert.Equal(t, correction.StatusInactive, req.Corrections[2].Status)
	})

	t.Run("unknown arrangement", func(t *testing.T) {
		in := decode(t, `{"corrections": [{"id": 1}], "arrangement": "teacher"}`)
		_, err := in.Request(validate, translator)
		require.Error(t, err)
		var vErrs validator.ValidationErrors
		require.True(t, errors.As(err, &vErrs))
		assert.Equal(t, "arrangement", vErrs[0].Field())
	})

	t.Run("invalid recipient", func(t *testing.T) {
		in := decode(t, `{"corrections": [{"id": 1}], "recipients": ["not an email"]}`)
		_, err := in.Request(validate, translator)
		assert.Error(t, err)
	})

	t.Run("invalid correction", func(t *testing.T) {
		in := decode(t, `{"corrections": [{"id": 1}, {"id": 2, "status": "LATE"}]}`)
		_, err := in.Request(validate, translator)
		require.Error(t, err)
		require.True(t, core.IsValidation(err))
		vErr := errors.Cause(err).(*core.ValidationError)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "corrections[1].status", vErr.Fields[0].Field)
		assert.NotContains(t, vErr.Fields[0].Error, "Field validation for", "translated message")
	})

	t.Run("empty", func(t *testing.T) {
		req, err := (&RequestInput{}).Request(validate, translator)
		require.NoError(t, err)
		assert.Empty(t, req.Corrections)
	})
}
