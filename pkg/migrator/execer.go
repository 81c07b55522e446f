package migrator

import (
	"context"
	"database/sql"
)

// Querier is the read-only subset of Execer used by probes and status checks.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer is the minimal interface needed for schema migration operations.
// Implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Execer interface {
	Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// txBeginner is implemented by *sql.DB and *sql.Conn.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// recorder wraps an Execer and remembers which statements completed.
// The non-transactional path uses it to report exactly what a failed step
// left behind.
//
// A completed statement persists when it ran in autocommit mode or belongs
// to a non-transactional op. Inside a caller-owned transaction everything
// else is discarded once the failure aborts that transaction.
type recorder struct {
	Execer
	autocommit bool
	nonTx      bool // the op currently running cannot be rolled back
	last       string
	done       []string
	persisted  []string
}

func (r *recorder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.last = query
	res, err := r.Execer.ExecContext(ctx, query, args...)
	if err == nil {
		r.done = append(r.done, query)
		if r.autocommit || r.nonTx {
			r.persisted = append(r.persisted, query)
		}
	}
	return res, err
}

func (r *recorder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	r.last = query
	return r.Execer.QueryContext(ctx, query, args...)
}

func (r *recorder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	r.last = query
	return r.Execer.QueryRowContext(ctx, query, args...)
}
