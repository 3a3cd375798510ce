package statement_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		plan    statement.Plan
		wantErr string
	}

	tests := []testCase{
		{
			name: "SelectOwned",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE owner_id = @user_id",
			},
		},
		{
			name: "InsertWithParams",
			plan: statement.Plan{
				Operation: statement.OpInsert,
				Text:      "INSERT INTO categories (name, transaction_kind, owner_id) VALUES (@name, @kind, @user_id)",
				Params:    map[string]any{"name": "Side Hustle", "kind": "INCOME"},
			},
		},
		{
			name: "TrailingSemicolon",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT 1 FROM categories WHERE owner_id = @user_id;",
			},
		},
		{
			name: "UpdateWithoutWhere",
			plan: statement.Plan{
				Operation: statement.OpUpdate,
				Text:      "UPDATE categories SET name = @name",
				Params:    map[string]any{"name": "x"},
			},
			wantErr: "WHERE clause",
		},
		{
			name: "DeleteWithoutWhere",
			plan: statement.Plan{
				Operation: statement.OpDelete,
				Text:      "DELETE FROM transactions",
			},
			wantErr: "WHERE clause",
		},
		{
			name: "WhereOnlyInsideLiteral",
			plan: statement.Plan{
				Operation: statement.OpDelete,
				Text:      "DELETE FROM categories -- where owner_id = @user_id",
			},
			wantErr: "WHERE clause",
		},
		{
			name: "DropTableInSelect",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT 1; DROP TABLE categories",
			},
			wantErr: "DROP TABLE",
		},
		{
			name: "AlterTableAnyCase",
			plan: statement.Plan{
				Operation: statement.OpUpdate,
				Text:      "alter  TABLE transactions add column x int",
			},
			wantErr: "DROP TABLE",
		},
		{
			name: "StackedStatements",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT 1 WHERE owner_id = @user_id; DELETE FROM categories WHERE 1=1",
			},
			wantErr: "one statement",
		},
		{
			name: "SemicolonInsideLiteral",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT ';' AS sep FROM categories WHERE owner_id = @user_id",
			},
		},
		{
			name: "KeywordMismatch",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "DELETE FROM categories WHERE owner_id = @user_id",
			},
			wantErr: "expected a SELECT",
		},
		{
			name: "MissingOwnerFilter",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories",
			},
			wantErr: "@user_id",
		},
		{
			name: "MissingParam",
			plan: statement.Plan{
				Operation: statement.OpInsert,
				Text:      "INSERT INTO categories (name, owner_id) VALUES (@name, @user_id)",
			},
			wantErr: "@name has no value",
		},
		{
			name: "OwnerSupplied",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE owner_id = @user_id",
				Params:    map[string]any{"user_id": 7},
			},
			wantErr: "bound by the server",
		},
		{
			name: "JoinedListWithAliasedOwner",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text: `SELECT t.id, c.name AS category FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id AND c.owner_id = t.owner_id
WHERE t.owner_id = @user_id AND t.date >= @since
ORDER BY t.date DESC LIMIT 50`,
				Params: map[string]any{"since": "2024-03-01"},
			},
		},
		{
			name: "OrNestedUnderOwnerFilter",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE owner_id = @user_id AND (name = @a OR name = @b)",
				Params:    map[string]any{"a": "Misc", "b": "Income"},
			},
		},
		{
			name: "InsertWithScopedSubquery",
			plan: statement.Plan{
				Operation: statement.OpInsert,
				Text: `INSERT INTO transactions (amount, category_id, owner_id)
VALUES (@amount, (SELECT id FROM categories WHERE name = @category AND owner_id = @user_id), @user_id)`,
				Params: map[string]any{"amount": "4.50", "category": "Misc"},
			},
		},
		{
			name: "DeleteTautologyOr",
			plan: statement.Plan{
				Operation: statement.OpDelete,
				Text:      "DELETE FROM transactions WHERE 1=1 OR owner_id = @user_id",
			},
			wantErr: "combined with OR",
		},
		{
			name: "SelectOwnerOrTrue",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT * FROM transactions WHERE owner_id = @user_id OR TRUE",
			},
			wantErr: "combined with OR",
		},
		{
			name: "UpdateThroughOtherOwnersCategories",
			plan: statement.Plan{
				Operation: statement.OpUpdate,
				Text:      "UPDATE transactions SET amount='1.00' WHERE category_id IN (SELECT id FROM categories WHERE owner_id <> @user_id)",
			},
			wantErr: "only be compared with =",
		},
		{
			name: "NotEqualBang",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE owner_id != @user_id",
			},
			wantErr: "only be compared with =",
		},
		{
			name: "OwnerOnlyInsideSubquery",
			plan: statement.Plan{
				Operation: statement.OpDelete,
				Text:      "DELETE FROM transactions WHERE category_id IN (SELECT id FROM categories WHERE owner_id = @user_id)",
			},
			wantErr: "owner_id = @user_id",
		},
		{
			name: "UnscopedSubquery",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT (SELECT MAX(amount) FROM transactions) AS top FROM categories WHERE owner_id = @user_id",
			},
			wantErr: "owner_id = @user_id",
		},
		{
			name: "OwnerComparedToOtherValue",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE id = @user_id",
			},
			wantErr: "owner_id = @user_id",
		},
		{
			name: "OwnerFilterInsideLiteral",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE name = 'owner_id = @user_id'",
			},
			wantErr: "owner_id = @user_id",
		},
		{
			name: "Union",
			plan: statement.Plan{
				Operation: statement.OpSelect,
				Text:      "SELECT name FROM categories WHERE owner_id = @user_id UNION SELECT name FROM categories",
			},
			wantErr: "UNION",
		},
		{
			name: "InsertSelectUnscoped",
			plan: statement.Plan{
				Operation: statement.OpInsert,
				Text:      "INSERT INTO categories (name, transaction_kind, owner_id) SELECT name, transaction_kind, @user_id FROM categories",
			},
			wantErr: "owner_id = @user_id",
		},
		{
			name:    "Sentinel",
			plan:    statement.Plan{Operation: statement.OpSelect, Text: statement.Sentinel},
			wantErr: "no statement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statement.Validate(tt.plan)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)

			var safety *statement.SafetyError
			require.True(t, errors.As(err, &safety))
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "Safety Error")
		})
	}
}

func TestValidate_RejectsEveryUnfilteredMutation(t *testing.T) {
	texts := []string{
		"UPDATE categories SET name = 'a'",
		"UPDATE transactions SET amount = 0",
		"DELETE FROM categories",
		"DELETE FROM transactions",
		"delete from transactions as t",
	}

	for _, text := range texts {
		for _, op := range []statement.Operation{statement.OpUpdate, statement.OpDelete} {
			err := statement.Validate(statement.Plan{Operation: op, Text: text})
			assert.Error(t, err, text)
		}
	}
}
