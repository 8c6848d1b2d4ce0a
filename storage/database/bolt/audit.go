package boltdb

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/udriss/correction/core/audit"
)

type auditRepository struct {
	db *bbolt.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.db}
}

// auditKey sorts events chronologically: RFC 3339 nano timestamp then id.
func auditKey(e audit.Event) []byte {
	return []byte(e.OccurredAt.UTC().Format("2006-01-02T15:04:05.000000000Z") + "/" + e.ID.String())
}

func (repo *auditRepository) Append(ctx context.Context, event audit.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encoding audit event")
	}
	err = repo.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(auditBucket).Put(auditKey(event), data)
	})
	return errors.Wrap(err, "appending audit event")
}

func (repo *auditRepository) ListEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var events []audit.Event
	err := repo.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(auditBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(events) >= limit {
				break
			}
			var e audit.Event
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "decoding audit event %s", k)
			}
			events = append(events, e)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing audit events")
	}
	return events, nil
}
