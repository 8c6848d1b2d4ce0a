package report

import (
	"net/mail"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/correction"
)

// RequestInput is a report Request as received from callers (JSON).
type RequestInput struct {
	Corrections    []correction.Input    `json:"corrections" validate:"-"`
	Students       []correction.Student  `json:"students"`
	Activities     []correction.Activity `json:"activities"`
	ActivityName   string                `json:"activity_name"`
	ClassName      string                `json:"class_name"`
	Arrangement    string                `json:"arrangement" validate:"omitempty,oneof=student class subclass activity none"`
	SubArrangement string                `json:"sub_arrangement" validate:"omitempty,oneof=student class subclass activity none"`
	Detailed       bool                  `json:"detailed"`
	Actor          string                `json:"actor" validate:"max=100"`
	Recipients     []string              `json:"recipients" validate:"omitempty,max=20,dive,email"`
}

func (in *RequestInput) Validate(validate *validator.Validate) error {
	in.ActivityName = core.CleanString(in.ActivityName)
	in.ClassName = core.CleanString(in.ClassName)
	in.Arrangement = core.CleanString(in.Arrangement, true)
	in.SubArrangement = core.CleanString(in.SubArrangement, true)
	in.Actor = core.CleanString(in.Actor)
	for i := range in.Recipients {
		in.Recipients[i] = core.CleanString(in.Recipients[i])
	}
	return validate.Struct(in)
}

// Request validates the input and normalizes it into a Request.
func (in *RequestInput) Request(validate *validator.Validate, translator ut.Translator) (Request, error) {
	if err := in.Validate(validate); err != nil {
		return Request{}, err
	}

	dir := correction.NewDirectory(in.Students, in.Activities)
	list, err := correction.Normalize(validate, translator, in.Corrections, dir)
	if err != nil {
		return Request{}, err
	}

	recipients := make([]mail.Address, 0, len(in.Recipients))
	for _, r := range in.Recipients {
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return Request{}, errors.Wrapf(err, "parsing recipient %q", r)
		}
		recipients = append(recipients, *addr)
	}

	return Request{
		Corrections:    list,
		Students:       in.Students,
		Activities:     in.Activities,
		ActivityName:   in.ActivityName,
		ClassName:      in.ClassName,
		Arrangement:    correction.Arrangement(in.Arrangement),
		SubArrangement: correction.Arrangement(in.SubArrangement),
		Detailed:       in.Detailed,
		Actor:          in.Actor,
		Recipients:     recipients,
	}, nil
}
