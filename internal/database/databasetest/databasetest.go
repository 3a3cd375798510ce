// Package databasetest opens throwaway SQLite ledgers for tests.
package databasetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/database"
)

// NewSQLite returns a migrated database in t's temp dir, seeded for each owner.
func NewSQLite(t testing.TB, owners ...int64) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "ledger.db") + "?_pragma=foreign_keys(1)"

	db, err := database.New("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.EnsureSQLiteSchema(ctx, db))

	for _, owner := range owners {
		require.NoError(t, database.SeedCategories(ctx, db, "sqlite", owner))
	}

	return db
}
