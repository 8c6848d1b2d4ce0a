package dummydb

import (
	"sync"

	"github.com/udriss/correction/core/audit"
)

type (
	DB struct {
		shareCode *shareCodeTable
		audit     *auditTable
	}

	shareCodeTable struct {
		sync.RWMutex
		table map[int]string // correction id -> code
	}

	auditTable struct {
		sync.RWMutex
		table []audit.Event
	}
)

func Open() (*DB, error) {
	db := &DB{
		shareCode: &shareCodeTable{table: make(map[int]string)},
		audit:     &auditTable{},
	}
	return db, nil
}
