package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

func (cli *commandLine) events(limit int) error {
	events, err := cli.app.Events.ListEvents(context.Background(), limit)
	if err != nil {
		return err
	}
	for _, e := range events {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		details := make([]string, 0, len(keys))
		for _, k := range keys {
			details = append(details, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		fmt.Fprintf(cli.stdout, "%s\t%s\t%s\t%s\n",
			e.OccurredAt.UTC().Format(time.RFC3339), e.Action, e.Actor, strings.Join(details, " "))
	}
	return nil
}
