package files

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udriss/correction/core"
)

func TestLocal_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	store, err := NewLocal(dir, "")
	require.NoError(t, err)
	loc, err := store.Save(context.Background(), "TP_Optique_2nde_A_2024-03-05.pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "TP_Optique_2nde_A_2024-03-05.pdf"), loc)

	b, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(b))

	info, err := os.Stat(loc)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm(), "readable by other users")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file left behind")

	// names cannot escape the directory
	loc, err = store.Save(context.Background(), "../../evil.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evil.pdf"), loc)

	public, err := NewLocal(dir, "https://files.example.org/reports/")
	require.NoError(t, err)
	loc, err = public.Save(context.Background(), "a.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.org/reports/a.pdf", loc)
}

func TestNew(t *testing.T) {
	conf := &core.Config{}
	conf.Storage.Dir = t.TempDir()

	store, err := New(context.Background(), conf)
	require.NoError(t, err)
	assert.IsType(t, &Local{}, store)

	conf.Storage.Driver = "ftp"
	_, err = New(context.Background(), conf)
	assert.Equal(t, ErrUnknownDriver, errors.Cause(err))
}
