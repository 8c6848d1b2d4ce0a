package auditsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/audit"
)

// LogAppender writes audit events to the application logger.
type LogAppender struct {
	logger core.Logger
}

var _ audit.Appender = (*LogAppender)(nil)

func NewLogAppender(logger core.Logger) *LogAppender {
	return &LogAppender{logger: logger}
}

func (a *LogAppender) Append(_ context.Context, event audit.Event) error {
	a.logger.Info(
		fmt.Sprintf("audit: %s by %q", event.Action, event.Actor),
		map[string]interface{}{"audit_id": event.ID.String(), "details": event.Details},
	)
	return nil
}

// Multi fans events out to every appender; it appends to all of them even when some fail.
type Multi []audit.Appender

var _ audit.Appender = (Multi)(nil)

func (m Multi) Append(ctx context.Context, event audit.Event) error {
	var msgs []string
	for _, a := range m {
		if a == nil {
			continue
		}
		if err := a.Append(ctx, event); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		return errors.Errorf("appending audit event %s: %s", event.ID, strings.Join(msgs, "; "))
	}
	return nil
}
