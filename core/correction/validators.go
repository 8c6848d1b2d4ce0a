package correction

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core"
)

var (
	statusTag  = "correction_status"
	statusText = "unknown status; expected one of " + joinStatuses()
)

func joinStatuses() string {
	names := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// InitValidators registers the correction validators on `validate`.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

// statusValidation checks that a status string is part of the Status enumeration
func statusValidation(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return Status(s).IsValid()
	}
	return false
}

// wrapIndexed prefixes validation errors with the position of the faulty Input.
// Messages are translated when `translator` is set.
func wrapIndexed(err error, idx int, translator ut.Translator) error {
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		flds := make([]core.FieldError, 0, len(vErrs))
		for _, fe := range vErrs {
			msg := fe.Error()
			if translator != nil {
				msg = fe.Translate(translator)
			}
			flds = append(flds, core.FieldError{
				Field: fmt.Sprintf("corrections[%d].%s", idx, fe.Field()),
				Error: msg,
			})
		}
		return core.NewValidationError(errors.Errorf("invalid correction at index %d", idx), flds...)
	}
	return errors.Wrapf(err, "validating correction at index %d", idx)
}
