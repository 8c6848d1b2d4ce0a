package auditsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udriss/correction/core/audit"
	logsvc "github.com/udriss/correction/services/logger"
)

type appenderFunc func(context.Context, audit.Event) error

func (f appenderFunc) Append(ctx context.Context, e audit.Event) error { return f(ctx, e) }

func TestMulti_Append(t *testing.T) {
	var calls int
	ok := appenderFunc(func(context.Context, audit.Event) error { calls++; return nil })
	failing := appenderFunc(func(context.Context, audit.Event) error { calls++; return errors.New("disk full") })

	event := audit.NewEvent(audit.ActionReportGenerated, "cli", nil)

	assert.NoError(t, Multi{NewLogAppender(logsvc.NewNopLogger()), ok, nil}.Append(context.Background(), event))
	assert.Equal(t, 1, calls)

	err := Multi{failing, ok}.Append(context.Background(), event)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 3, calls, "every appender is called")
}
