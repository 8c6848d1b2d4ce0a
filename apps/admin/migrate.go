package main

import (
	"fmt"

	"github.com/udriss/correction/storage/database"
)

var (
	openDBFunc  = database.Open    // mockable
	migrateFunc = database.Migrate // mockable
	statusFunc  = database.Status  // mockable
)

func (cli *commandLine) migrate(command string) error {
	var run = migrateFunc
	switch command {
	case "up":
	case "status":
		run = statusFunc
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	db, err := openDBFunc(cli.conf)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	return run(db)
}
