package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSqlite(t *testing.T) {
	db, err := OpenSqlite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenSqliteBadPath(t *testing.T) {
	_, err := OpenSqlite(filepath.Join(t.TempDir(), "missing", "dir", "app.db"))
	assert.Error(t, err)
}
