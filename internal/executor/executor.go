// Package executor runs validated statement plans against the ledger database.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

// Result is the outcome of one statement.
type Result struct {
	Operation statement.Operation
	Columns   []string
	Rows      []map[string]any
	Affected  int64
}

// Error wraps any store failure with the statement that caused it.
type Error struct {
	Operation statement.Operation
	Statement string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Executor struct {
	db      *sql.DB
	dialect statement.Dialect
	logger  *slog.Logger
}

func New(db *sql.DB, dialect statement.Dialect, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{db: db, dialect: dialect, logger: logger}
}

// Execute binds the owner id, runs the plan on a dedicated connection and, for
// mutations, commits on success or rolls back on any error.
func (e *Executor) Execute(ctx context.Context, plan statement.Plan, userID int64) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{Operation: plan.Operation}, &Error{Operation: plan.Operation, Statement: plan.Text, Err: err}
	}

	params := make(map[string]any, len(plan.Params)+1)
	maps.Copy(params, plan.Params)
	params[statement.UserIDParam] = userID

	query, args, err := statement.Compile(ctx, e.dialect, plan.Text, params)
	if err != nil {
		return fail(err)
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return fail(fmt.Errorf("acquiring connection: %w", err))
	}
	defer conn.Close()

	e.logger.Debug("executing statement", "operation", plan.Operation, "provenance", plan.Provenance, "statement", plan.Text)

	if plan.Operation == statement.OpSelect {
		res, err := selectRows(ctx, conn, query, args)
		if err != nil {
			return fail(err)
		}

		return res, nil
	}

	affected, err := execMutation(ctx, conn, query, args)
	if err != nil {
		return fail(err)
	}

	return Result{Operation: plan.Operation, Affected: affected}, nil
}

func selectRows(ctx context.Context, conn *sql.Conn, q string, args []any) (Result, error) {
	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("reading columns: %w", err)
	}

	res := Result{Operation: statement.OpSelect, Columns: cols, Rows: []map[string]any{}}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range vals {
			ptrs[i] = &vals[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(cols))

		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}

			row[c] = vals[i]
		}

		res.Rows = append(res.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterating rows: %w", err)
	}

	return res, nil
}

func execMutation(ctx context.Context, conn *sql.Conn, q string, args []any) (int64, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Join(err, rollback(tx))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Join(fmt.Errorf("reading affected rows: %w", err), rollback(tx))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}

	return affected, nil
}

func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back: %w", err)
	}

	return nil
}
