// Package bootstrap wires the report engine to the configured backends.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/audit"
	"github.com/udriss/correction/core/correction"
	"github.com/udriss/correction/core/layout"
	"github.com/udriss/correction/core/report"
	"github.com/udriss/correction/core/sharecode"
	auditsvc "github.com/udriss/correction/services/audit"
	canvassvc "github.com/udriss/correction/services/canvas"
	emailsvc "github.com/udriss/correction/services/email"
	symbolsvc "github.com/udriss/correction/services/symbol"
	"github.com/udriss/correction/storage/database"
	boltdb "github.com/udriss/correction/storage/database/bolt"
	dummydb "github.com/udriss/correction/storage/database/dummy"
	sqlxrepos "github.com/udriss/correction/storage/database/sqlx"
	"github.com/udriss/correction/storage/files"
)

// ErrUnknownDriver is returned for an unsupported `codes.driver`.
var ErrUnknownDriver = errors.New("unknown codes driver")

type (
	App struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Assembler  *report.Assembler
		Events     audit.Repository

		closers []io.Closer
	}

	// Overrides replaces configured backends; used by tests and the CLI.
	Overrides struct {
		Issuer sharecode.Issuer
		Events audit.Repository
		Store  report.DocumentStore
		Mailer core.EmailService
		Canvas report.CanvasFactory
	}
)

// New builds the App described by `conf`.
func New(ctx context.Context, conf *core.Config, logger core.Logger, ovr Overrides) (*App, error) {
	app := &App{Conf: conf, Logger: logger}

	app.Validate = validator.New()
	app.Translator = core.NewTranslator(conf.Report.Locale)
	core.InitValidators(app.Validate, app.Translator)
	correction.InitValidators(app.Validate, app.Translator)
	if err := report.RegisterTranslations(app.Translator); err != nil {
		return nil, errors.Wrap(err, "registering report translations")
	}
	core.ParseEmailTemplates(logger)

	grid, err := layout.NewGrid(layout.DefaultGeometry)
	if err != nil {
		return nil, errors.Wrap(err, "setting up grid")
	}

	issuer, events := ovr.Issuer, ovr.Events
	if issuer == nil || events == nil {
		iss, evs, err := app.openCodes(ctx)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		if issuer == nil {
			issuer = iss
		}
		if events == nil {
			events = evs
		}
	}
	app.Events = events

	store := ovr.Store
	if store == nil {
		if store, err = files.New(ctx, conf); err != nil {
			_ = app.Close()
			return nil, errors.Wrap(err, "setting up document storage")
		}
	}

	mailer := ovr.Mailer
	if mailer == nil {
		if conf.Debug {
			mailer = emailsvc.NewConsoleService(conf)
		} else {
			mailer = emailsvc.NewSendgridService(conf, logger)
		}
	}

	newCanvas := ovr.Canvas
	if newCanvas == nil {
		newCanvas = canvassvc.NewPDF
	}

	app.Assembler = report.NewAssembler(report.Deps{
		Conf:       conf,
		Logger:     logger,
		Translator: app.Translator,
		Grid:       grid,
		Resolver:   sharecode.NewResolver(issuer, logger, conf.Codes.Timeout),
		Symbols:    symbolsvc.NewQRCode(),
		NewCanvas:  newCanvas,
		Store:      store,
		Auditor:    auditsvc.Multi{auditsvc.NewLogAppender(logger), events},
		Mailer:     mailer,
	})
	return app, nil
}

// openCodes opens the share code & audit backend selected by `codes.driver` (memory | bolt | postgres).
func (app *App) openCodes(ctx context.Context) (sharecode.Issuer, audit.Repository, error) {
	conf := app.Conf
	switch conf.Codes.Driver {
	case "memory":
		db, _ := dummydb.Open()
		return dummydb.NewShareCodeRepository(db), dummydb.NewAuditRepository(db), nil

	case "bolt", "":
		db, err := boltdb.Open(conf.Codes.BoltPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening bolt database")
		}
		app.closers = append(app.closers, db)
		return boltdb.NewShareCodeRepository(db), boltdb.NewAuditRepository(db), nil

	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening database")
		}
		app.closers = append(app.closers, db)
		if err = db.PingContext(ctx); err != nil {
			return nil, nil, errors.Wrap(err, "pinging database")
		}
		if err = database.Migrate(db); err != nil {
			return nil, nil, err
		}
		return sqlxrepos.NewShareCodeRepository(db), sqlxrepos.NewAuditRepository(db), nil
	}
	return nil, nil, errors.Wrap(ErrUnknownDriver, conf.Codes.Driver)
}

// Close releases the opened backends.
func (app *App) Close() error {
	var err error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if cErr := app.closers[i].Close(); cErr != nil && err == nil {
			err = cErr
		}
	}
	app.closers = nil
	if err != nil {
		app.Logger.Error(fmt.Sprintf("bootstrap.Close: %v", err), err)
	}
	return err
}
