package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core/audit"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) audit.Repository {
	return &auditRepository{db: db}
}

type auditRow struct {
	ID         uuid.UUID `db:"id"`
	Action     string    `db:"action"`
	Actor      string    `db:"actor"`
	Details    string    `db:"details"`
	OccurredAt time.Time `db:"occurred_at"`
}

func (repo *auditRepository) Append(ctx context.Context, event audit.Event) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return errors.Wrap(err, "encoding audit details")
	}
	row := auditRow{
		ID:         event.ID,
		Action:     event.Action,
		Actor:      event.Actor,
		Details:    string(details),
		OccurredAt: event.OccurredAt,
	}
	const q = `
		INSERT INTO audit_event (id, action, actor, details, occurred_at)
		VALUES (:id, :action, :actor, :details, :occurred_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "inserting audit event")
	}
	return nil
}

func (repo *auditRepository) ListEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	q := `SELECT id, action, actor, details, occurred_at FROM audit_event ORDER BY occurred_at DESC`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []auditRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting audit events")
	}
	events := make([]audit.Event, 0, len(rows))
	for _, r := range rows {
		e := audit.Event{ID: r.ID, Action: r.Action, Actor: r.Actor, OccurredAt: r.OccurredAt}
		if err := json.Unmarshal([]byte(r.Details), &e.Details); err != nil {
			return nil, errors.Wrapf(err, "decoding audit event %s", r.ID)
		}
		events = append(events, e)
	}
	return events, nil
}
