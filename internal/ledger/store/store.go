package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

type Store struct {
	db      *sql.DB
	dialect statement.Dialect
}

func New(db *sql.DB, dialect statement.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, transaction_kind, owner_id
func scanCategory(s scanner) (ledger.Category, error) {
	var (
		c    ledger.Category
		kind string
	)

	if err := s.Scan(&c.ID, &c.Name, &kind, &c.OwnerID); err != nil {
		return ledger.Category{}, err
	}

	c.Kind = ledger.Kind(kind)

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, ownerID int64) ([]ledger.Category, error) {
	query, args, err := statement.Compile(ctx, s.dialect, `
		SELECT id, name, transaction_kind, owner_id
		FROM categories
		WHERE owner_id = @user_id
		ORDER BY name
	`, map[string]any{statement.UserIDParam: ownerID})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []ledger.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}
