package statement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Dialect selects how named placeholders are bound for a driver.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

func DialectFor(driver string) Dialect {
	if driver == "sqlite" {
		return DialectSQLite
	}

	return DialectPostgres
}

// Compile binds @name placeholders for the dialect. Postgres gets positional
// $n arguments; SQLite keeps the names and binds sql.NamedArg values.
func Compile(ctx context.Context, d Dialect, text string, params map[string]any) (string, []any, error) {
	names := Placeholders(text)

	for _, name := range names {
		if _, ok := params[name]; !ok {
			return "", nil, fmt.Errorf("no value for placeholder @%s", name)
		}
	}

	if d == DialectSQLite {
		args := make([]any, 0, len(names))
		for _, name := range names {
			args = append(args, sql.Named(name, params[name]))
		}

		return text, args, nil
	}

	query, args, err := pgx.NamedArgs(params).RewriteQuery(ctx, nil, text, nil)
	if err != nil {
		return "", nil, fmt.Errorf("rewriting named arguments: %w", err)
	}

	return query, args, nil
}
