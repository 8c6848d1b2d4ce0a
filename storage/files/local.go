package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/udriss/correction/core/report"
)

// Local stores documents in a directory.
type Local struct {
	dir        string
	publicBase string
}

var _ report.DocumentStore = (*Local)(nil)

// NewLocal returns a store writing under `dir`; locations are prefixed with `publicBase` when set.
func NewLocal(dir, publicBase string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	return &Local{dir: dir, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Save writes through a temporary file renamed into place.
func (s *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", errors.Wrap(err, "creating temporary file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", errors.Wrapf(err, "writing %s", name)
	}
	if err = tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return "", errors.Wrapf(err, "writing %s", name)
	}
	if err = tmp.Close(); err != nil {
		return "", errors.Wrapf(err, "writing %s", name)
	}
	dest := filepath.Join(s.dir, name)
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return "", errors.Wrapf(err, "moving %s", name)
	}

	if s.publicBase != "" {
		return s.publicBase + "/" + name, nil
	}
	return dest, nil
}
