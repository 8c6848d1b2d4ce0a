package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/udriss/correction/apps/bootstrap"
	"github.com/udriss/correction/core"
	logsvc "github.com/udriss/correction/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.New("ADMIN", conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	app, err := bootstrap.New(context.Background(), conf, logger, bootstrap.Overrides{})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up dependencies: %v", err), err)
	}

	// start CLI
	code := 0
	if err = newCommandLine(conf, app).run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		code = 1
	}
	_ = app.Close()
	os.Exit(code)
}
