package dummydb

import (
	"context"
	"sort"

	"github.com/udriss/correction/core/audit"
)

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) Append(_ context.Context, event audit.Event) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append(repo.db.table, event)
	return nil
}

func (repo *auditRepository) ListEvents(_ context.Context, limit int) ([]audit.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]audit.Event, len(repo.db.table))
	copy(events, repo.db.table)
	sort.SliceStable(events, func(i, j int) bool { return events[i].OccurredAt.After(events[j].OccurredAt) })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
