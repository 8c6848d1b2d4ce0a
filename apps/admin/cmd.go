package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/udriss/correction/apps/bootstrap"
	"github.com/udriss/correction/core"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp     = errors.New("help provided")
	errTerminal = errors.New("refusing to write a PDF to a terminal; use -out FILE")
)

type commandLine struct {
	conf     *core.Config
	app      *bootstrap.App
	stdin    io.Reader
	stdout   io.Writer
	stdoutFd int
}

func newCommandLine(conf *core.Config, app *bootstrap.App) *commandLine {
	return &commandLine{
		conf:     conf,
		app:      app,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stdoutFd: int(os.Stdout.Fd()),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  generate -input FILE|- [-out FILE|-] [-detailed] - generate a correction sheet from a JSON request")
	fmt.Println("  events [-limit N] - list the latest audit events")
	fmt.Println("  migrate up|status - apply or list the database migrations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	generateInput := generateCmd.String("input", "", "The JSON report request; `-` reads stdin.")
	generateOut := generateCmd.String("out", "", "Where to write the PDF; stdout when empty or `-`.")
	generateDetailed := generateCmd.Bool("detailed", false, "Show ids, grades and payloads on the cards.")

	eventsCmd := flag.NewFlagSet("events", flag.ContinueOnError)
	eventsLimit := eventsCmd.Int("limit", 20, "The number of events to list; 0 lists all of them.")

	switch args[1] {
	case "generate":
		if err := generateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *generateInput == "" {
			generateCmd.Usage()
			return errHelp
		}
		return cli.generate(*generateInput, *generateOut, *generateDetailed)
	case "events":
		if err := eventsCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.events(*eventsLimit)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2])
	default:
		cli.printUsage()
		return errHelp
	}
}
