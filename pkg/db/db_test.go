package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fonts.db")

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, path, d.Path())
	assert.FileExists(t, path)

	for _, table := range []string{"theme_fonts", "submissions", "submission_events"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Migrations are idempotent.
	require.NoError(t, d.Migrate())

	var n int
	require.NoError(t, d.SqlConn().QueryRowCtx(context.Background(), &n, "select count(*) from theme_fonts"))
	assert.Zero(t, n)
}

func TestSqliteAcceptable(t *testing.T) {
	assert.True(t, sqliteAcceptable(nil))
	assert.True(t, sqliteAcceptable(errors.New("database is locked (5)")))
	assert.False(t, sqliteAcceptable(errors.New("no such table")))
}
