package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"db-compare/internal/dialect"
	"db-compare/internal/platform"
)

// OpenSQLite creates a file-backed sqlite database under the test's temp dir and runs
// the given statements against it.
func OpenSQLite(t *testing.T, name string, stmts ...string) *platform.Database {
	t.Helper()
	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), name+".db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return platform.NewDatabase(db, dialect.GetDialect("sqlite"), "", "")
}
