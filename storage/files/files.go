// Package files stores generated documents.
package files

import (
	"context"

	"github.com/pkg/errors"

	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/report"
)

// ErrUnknownDriver is returned for an unsupported `storage.driver`.
var ErrUnknownDriver = errors.New("unknown storage driver")

// New returns the DocumentStore selected by conf.Storage.Driver (local | b2).
func New(ctx context.Context, conf *core.Config) (report.DocumentStore, error) {
	switch conf.Storage.Driver {
	case "", "local":
		return NewLocal(conf.Storage.Dir, conf.Storage.PublicBase)
	case "b2":
		return NewB2(ctx, conf.Storage.B2Account, conf.Storage.B2Key, conf.Storage.B2Bucket, conf.Storage.B2Prefix)
	default:
		return nil, errors.Wrap(ErrUnknownDriver, conf.Storage.Driver)
	}
}
