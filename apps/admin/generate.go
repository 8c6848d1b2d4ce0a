package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/udriss/correction/core/report"
)

const defaultActor = "admin"

// generate builds the report described by the JSON file `input` and writes the PDF to `out`.
func (cli *commandLine) generate(input, out string, detailed bool) error {
	toStdout := out == "" || out == "-"
	if toStdout && isTerminalFunc(cli.stdoutFd) {
		return errTerminal
	}

	var r io.Reader = cli.stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var data report.RequestInput
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return errors.Wrap(err, "decoding report request")
	}
	if detailed {
		data.Detailed = true
	}
	if data.Actor == "" {
		data.Actor = defaultActor
	}
	req, err := data.Request(cli.app.Validate, cli.app.Translator)
	if err != nil {
		return err
	}

	doc, err := cli.app.Assembler.Generate(context.Background(), req)
	if err != nil {
		return err
	}

	if toStdout {
		_, err = cli.stdout.Write(doc.Content)
		return err
	}
	if err = os.WriteFile(out, doc.Content, 0644); err != nil {
		return err
	}
	cli.app.Logger.Info(fmt.Sprintf(
		"%s: %d cards on %d pages, codes %s (saved to %s)",
		out, doc.Cards, doc.Pages, doc.Codes.Outcome, doc.Location,
	))
	return nil
}
