package report

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/audit"
	"github.com/udriss/correction/core/correction"
	"github.com/udriss/correction/core/layout"
	"github.com/udriss/correction/core/sharecode"
)

const (
	defaultWorkers    = 4
	defaultSymbolSize = 256
	pdfContentType    = "application/pdf"
	emailTemplate     = "report_ready"
)

var (
	// errors
	ErrNoCorrections = errors.New("no corrections to report")

	NowFunc      = time.Now        // mockable
	AuditTimeout = 2 * time.Second // mockable
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		Grid       *layout.Grid
		Resolver   *sharecode.Resolver
		Symbols    SymbolRenderer
		NewCanvas  CanvasFactory
		Store      DocumentStore
		Auditor    audit.Appender    // optional
		Mailer     core.EmailService // optional
	}

	// Request is one report run.
	Request struct {
		Corrections    []correction.Correction
		Students       []correction.Student
		Activities     []correction.Activity
		ActivityName   string
		ClassName      string
		Arrangement    correction.Arrangement
		SubArrangement correction.Arrangement
		Detailed       bool
		Actor          string
		Recipients     []mail.Address
	}

	// Document is a generated and saved report.
	Document struct {
		Filename string
		Location string
		Content  []byte
		Pages    int
		Cards    int
		Groups   []string
		Codes    sharecode.Result
	}

	Assembler struct {
		deps       Deps
		baseURL    string
		workers    int
		symbolSize int
	}

	reportReadyData struct {
		Title    string
		Cards    int
		Pages    int
		Filename string
	}
)

func NewAssembler(deps Deps) *Assembler {
	a := &Assembler{
		deps:       deps,
		workers:    defaultWorkers,
		symbolSize: defaultSymbolSize,
	}
	if conf := deps.Conf; conf != nil {
		a.baseURL = conf.Report.BaseURL
		if conf.Report.Workers > 0 {
			a.workers = conf.Report.Workers
		}
		if conf.Report.SymbolSize > 0 {
			a.symbolSize = conf.Report.SymbolSize
		}
	}
	return a
}

// Filename returns "{activity}_{class}_{YYYY-MM-DD}.pdf", whitespace runs replaced by underscores.
func Filename(activity, class string, date time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf", core.Underscore(activity), core.Underscore(class), date.Format("2006-01-02"))
}

// Payload is the URL encoded in the symbol of a share code.
func Payload(baseURL, code string) string {
	return baseURL + "/feedback/" + code
}

// Generate builds, saves and announces the report of `req`.
// Only an empty request and a failed save are returned as errors; every other
// collaborator failure is logged and the document degrades (fallback codes, placeholders).
func (a *Assembler) Generate(ctx context.Context, req Request) (*Document, error) {
	if len(req.Corrections) == 0 {
		return nil, core.NewValidationError(ErrNoCorrections, core.FieldError{
			Field: "corrections",
			Error: ErrNoCorrections.Error(),
		})
	}
	dir := correction.NewDirectory(req.Students, req.Activities)

	refs := make([]sharecode.Ref, 0, len(req.Corrections))
	for _, c := range req.Corrections {
		refs = append(refs, sharecode.Ref{ID: c.ID, Code: c.ShareCode})
	}
	codes := a.deps.Resolver.Resolve(ctx, refs)

	arranged := correction.Arrange(req.Corrections, req.Arrangement, req.SubArrangement, dir)
	sections := make([]layout.Section, 0, len(arranged.Groups))
	for _, g := range arranged.Groups {
		sections = append(sections, layout.Section{Label: g.Label, Count: len(g.Corrections)})
	}
	plan := a.deps.Grid.Paginate(sections)

	cards := make([][]Card, len(plan.Pages))
	var ordered []*Card
	for p, page := range plan.Pages {
		members := arranged.Groups[page.Section].Corrections
		cards[p] = make([]Card, len(page.Cells))
		for k := range page.Cells {
			c := members[page.Offset+k]
			code := codes.Code(c.ID)
			cards[p][k] = Card{Correction: c, Code: code, Payload: Payload(a.baseURL, code)}
			ordered = append(ordered, &cards[p][k])
		}
	}

	a.renderSymbols(ctx, ordered)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "generating report")
	}

	title := req.ActivityName
	if core.CleanString(title) == "" {
		title = tr(a.deps.Translator, keyUntitled)
	}
	headers := headerRenderer{geo: a.deps.Grid.Geometry(), translator: a.deps.Translator}
	renderer := NewCardRenderer(a.deps.Grid.Geometry(), a.deps.Translator, dir, req.Detailed)
	summary := Summarize(req.Corrections)

	cv := a.deps.NewCanvas(a.deps.Grid.Geometry())
	for p, page := range plan.Pages {
		cv.AddPage()
		sub := subtitle(req.ClassName, page.Label)
		if page.First {
			headers.first(cv, title, sub, summary)
		} else {
			headers.regular(cv, title, sub)
		}
		for k, cell := range page.Cells {
			renderer.Render(cv, cell, cards[p][k])
		}
	}
	headers.footers(cv)

	var buf bytes.Buffer
	if err := cv.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing report")
	}

	doc := &Document{
		Filename: Filename(req.ActivityName, req.ClassName, NowFunc()),
		Content:  buf.Bytes(),
		Pages:    plan.PageCount(),
		Cards:    plan.Cards,
		Codes:    codes,
	}
	if arranged.Grouped {
		doc.Groups = arranged.Labels()
	}

	location, err := a.deps.Store.Save(ctx, doc.Filename, bytes.NewReader(doc.Content))
	if err != nil {
		err = errors.Wrapf(err, "saving report %s", doc.Filename)
		a.deps.Logger.Error(fmt.Sprintf("report.Generate: %v", err), err)
		a.audit(ctx, audit.NewEvent(audit.ActionReportFailed, req.Actor, map[string]interface{}{
			"filename": doc.Filename,
			"error":    err.Error(),
		}))
		return nil, err
	}
	doc.Location = location

	a.audit(ctx, audit.NewEvent(audit.ActionReportGenerated, req.Actor, map[string]interface{}{
		"filename":  doc.Filename,
		"location":  doc.Location,
		"cards":     doc.Cards,
		"pages":     doc.Pages,
		"codes":     codes.Outcome.String(),
		"fallbacks": len(codes.Fallbacks),
	}))
	a.deliver(req, title, doc)
	return doc, nil
}

// renderSymbols renders the symbol of every card with a bounded worker pool.
// Results are stored by index; failures leave a nil symbol.
func (a *Assembler) renderSymbols(ctx context.Context, cards []*Card) {
	var g errgroup.Group
	g.SetLimit(a.workers)
	for _, card := range cards {
		card := card
		g.Go(func() error {
			img, err := a.deps.Symbols.Render(ctx, card.Payload, a.symbolSize)
			if err != nil {
				err = errors.Wrapf(err, "rendering symbol of correction %d", card.Correction.ID)
				a.deps.Logger.Error(fmt.Sprintf("report.renderSymbols: %v", err), err)
				return nil
			}
			card.Symbol = img
			return nil
		})
	}
	_ = g.Wait()
}

// audit appends `event` within AuditTimeout; failures are logged and swallowed.
func (a *Assembler) audit(ctx context.Context, event audit.Event) {
	if a.deps.Auditor == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a.deps.Logger.Error(fmt.Sprintf("report.audit: panic: %v", r))
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, AuditTimeout)
	defer cancel()
	if err := a.deps.Auditor.Append(ctx, event); err != nil {
		a.deps.Logger.Warn(fmt.Sprintf("report.audit(%s): %v", event.Action, err), err)
	}
}

// deliver emails the document to the request recipients, if any.
func (a *Assembler) deliver(req Request, title string, doc *Document) {
	if a.deps.Mailer == nil || len(req.Recipients) == 0 {
		return
	}
	msg := &core.EmailMessage{
		To:           req.Recipients,
		Subject:      title,
		TemplateName: emailTemplate,
		TemplateData: reportReadyData{
			Title:    title,
			Cards:    doc.Cards,
			Pages:    doc.Pages,
			Filename: doc.Filename,
		},
	}
	msg.Attach(doc.Content, doc.Filename, pdfContentType)
	a.deps.Mailer.SendMessages(msg)
}
