package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_workers.sql", "001_categories.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	names, err := PendingMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_categories.sql", "002_workers.sql"}, names)
}

func TestPendingMigrations_MissingDir(t *testing.T) {
	_, err := PendingMigrations(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRepositoryMigrations_Present(t *testing.T) {
	names, err := PendingMigrations(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_categories.sql", "002_create_workers.sql"}, names)
}

type failingStarter struct {
	err   error
	calls int
}

func (f *failingStarter) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	f.calls++
	return nil, f.err
}

func TestApplyMigration_BeginFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "001_init.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o600))
	refused := errors.New("connection refused")
	starter := &failingStarter{err: refused}

	err := applyMigration(context.Background(), starter, path, "001_init.sql")

	assert.ErrorIs(t, err, refused)
	assert.Equal(t, 1, starter.calls)
}

func TestApplyMigration_UnreadableFileSkipsTransaction(t *testing.T) {
	starter := &failingStarter{}

	err := applyMigration(context.Background(), starter, filepath.Join(t.TempDir(), "missing.sql"), "missing.sql")

	assert.Error(t, err)
	assert.Zero(t, starter.calls)
}
