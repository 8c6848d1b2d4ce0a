package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core/report"
)

type (
	reportApi struct {
		assembler  *report.Assembler
		validate   *validator.Validate
		translator ut.Translator
	}

	ReportResponse struct {
		Filename  string         `json:"filename"`
		Location  string         `json:"location"`
		Pages     int            `json:"pages"`
		Cards     int            `json:"cards"`
		Groups    []string       `json:"groups,omitempty"`
		Codes     map[int]string `json:"codes"`
		Outcome   string         `json:"codes_outcome"`
		Fallbacks []int          `json:"fallbacks,omitempty"`
	}
)

func registerReportAPI(g *echo.Group, assembler *report.Assembler, validate *validator.Validate, translator ut.Translator) {
	api := reportApi{
		assembler:  assembler,
		validate:   validate,
		translator: translator,
	}

	rg := g.Group("/reports")
	rg.POST("", api.generate)
}

// Handlers

// generate builds a report. The PDF itself is returned when the client accepts `application/pdf`.
func (api *reportApi) generate(ctx echo.Context) error {
	var data report.RequestInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RequestInput")
	}
	req, err := data.Request(api.validate, api.translator)
	if err != nil {
		return err
	}
	if req.Actor == "" {
		req.Actor = ctx.RealIP()
	}

	doc, err := api.assembler.Generate(ctx.Request().Context(), req)
	if err != nil {
		return errors.Wrap(err, "generating report")
	}

	if acceptsPDF(ctx.Request()) {
		ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		return ctx.Blob(http.StatusCreated, "application/pdf", doc.Content)
	}
	return ctx.JSON(http.StatusCreated, ReportResponse{
		Filename:  doc.Filename,
		Location:  doc.Location,
		Pages:     doc.Pages,
		Cards:     doc.Cards,
		Groups:    doc.Groups,
		Codes:     doc.Codes.Codes,
		Outcome:   doc.Codes.Outcome.String(),
		Fallbacks: doc.Codes.Fallbacks,
	})
}

func acceptsPDF(r *http.Request) bool {
	for _, accept := range strings.Split(r.Header.Get(echo.HeaderAccept), ",") {
		if strings.HasPrefix(strings.TrimSpace(accept), "application/pdf") {
			return true
		}
	}
	return false
}
