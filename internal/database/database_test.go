package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/database"
	"github.com/MrJamesThe3rd/finnychat/internal/database/databasetest"
)

func TestSeedCategories_Idempotent(t *testing.T) {
	db := databasetest.NewSQLite(t, 1)
	ctx := context.Background()

	require.NoError(t, database.SeedCategories(ctx, db, "sqlite", 1))
	require.NoError(t, database.SeedCategories(ctx, db, "sqlite", 2))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE owner_id = ?", 1).Scan(&n))
	assert.Equal(t, len(database.DefaultCategories), n)

	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n))
	assert.Equal(t, 2*len(database.DefaultCategories), n)
}

func TestSchema_RejectsBadKind(t *testing.T) {
	db := databasetest.NewSQLite(t)

	_, err := db.ExecContext(context.Background(),
		"INSERT INTO categories (name, transaction_kind, owner_id) VALUES ('x', 'TRANSFER', 1)")
	assert.Error(t, err)
}

func TestSchema_ReferencedCategoryCannotBeDeleted(t *testing.T) {
	db := databasetest.NewSQLite(t, 1)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO transactions (amount, date, description, transaction_kind, category_id, owner_id)
		VALUES ('12.00', '2024-03-15', 'lunch', 'EXPENSE', (SELECT id FROM categories WHERE name = 'Misc' AND owner_id = 1), 1)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "DELETE FROM categories WHERE name = 'Misc' AND owner_id = 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE owner_id = 1").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := database.New("nope", "")
	assert.Error(t, err)
}
