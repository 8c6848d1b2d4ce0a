package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ActionReportGenerated = "report.generated"
	ActionReportFailed    = "report.failed"
)

var NowFunc = time.Now // mockable

type (
	Event struct {
		ID         uuid.UUID              `json:"id"`
		Action     string                 `json:"action"`
		Actor      string                 `json:"actor"`
		Details    map[string]interface{} `json:"details"`
		OccurredAt time.Time              `json:"occurred_at"`
	}

	// Appender records audit events. Callers treat it as fire-and-forget.
	Appender interface {
		Append(ctx context.Context, event Event) error
	}

	Repository interface {
		Appender
		// ListEvents returns the most recent events first, at most `limit` (0: all).
		ListEvents(ctx context.Context, limit int) ([]Event, error)
	}
)

func NewEvent(action, actor string, details map[string]interface{}) Event {
	if details == nil {
		details = make(map[string]interface{})
	}
	return Event{
		ID:         uuid.New(),
		Action:     action,
		Actor:      actor,
		Details:    details,
		OccurredAt: NowFunc().UTC(),
	}
}
