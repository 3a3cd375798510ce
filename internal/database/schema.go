package database

import (
	"context"
	"database/sql"
	"fmt"
)

// sqliteSchema mirrors the Postgres tables owned by the ledger's migrations so
// local runs and tests work against a real engine. Amounts are stored as text
// so decimals survive the round trip exactly.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS categories (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT    NOT NULL,
	transaction_kind TEXT    NOT NULL CHECK (transaction_kind IN ('INCOME', 'EXPENSE')),
	owner_id         INTEGER NOT NULL,
	UNIQUE (name, owner_id)
);

CREATE TABLE IF NOT EXISTS transactions (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	amount            TEXT    NOT NULL,
	date              TEXT    NOT NULL,
	description       TEXT    NOT NULL CHECK (length(description) BETWEEN 1 AND 500),
	is_recurring      INTEGER NOT NULL DEFAULT 0,
	recurrence_period TEXT    NOT NULL DEFAULT 'NONE'
		CHECK (recurrence_period IN ('NONE', 'DAILY', 'WEEKLY', 'MONTHLY', 'YEARLY')),
	transaction_kind  TEXT    NOT NULL CHECK (transaction_kind IN ('INCOME', 'EXPENSE')),
	category_id       INTEGER NOT NULL REFERENCES categories (id),
	owner_id          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS transactions_owner_date_idx ON transactions (owner_id, date DESC);
`

// EnsureSQLiteSchema creates the ledger tables when they do not exist yet.
// Postgres schemas are managed outside this service.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating sqlite schema: %w", err)
	}

	return nil
}

// DefaultCategories is the starter category set for a new ledger owner.
var DefaultCategories = []struct {
	Name string
	Kind string
}{
	{Name: "Transportation", Kind: "EXPENSE"},
	{Name: "Food & Groceries", Kind: "EXPENSE"},
	{Name: "Utilities", Kind: "EXPENSE"},
	{Name: "Healthcare", Kind: "EXPENSE"},
	{Name: "Entertainment", Kind: "EXPENSE"},
	{Name: "Shopping", Kind: "EXPENSE"},
	{Name: "Personal Care", Kind: "EXPENSE"},
	{Name: "Education", Kind: "EXPENSE"},
	{Name: "Misc", Kind: "EXPENSE"},
	{Name: "Income", Kind: "INCOME"},
}

// SeedCategories inserts DefaultCategories for the owner, skipping names it already has.
func SeedCategories(ctx context.Context, db *sql.DB, driver string, ownerID int64) error {
	query := `INSERT INTO categories (name, transaction_kind, owner_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	if driver == "sqlite" {
		query = `INSERT INTO categories (name, transaction_kind, owner_id) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`
	}

	for _, c := range DefaultCategories {
		if _, err := db.ExecContext(ctx, query, c.Name, c.Kind, ownerID); err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}

	return nil
}
