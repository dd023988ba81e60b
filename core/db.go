package core

import (
	"context"
	"database/sql"
)

type (
	// DBExecutor is the query surface repositories run against. Both *sql.DB
	// and *sql.Tx satisfy it, so a service can hand a repository either its
	// pooled connection or an open transaction.
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	// DB adds transaction openers on top of DBExecutor; services hold one and
	// pass the resulting executor down through a repository's trailing
	// variadic parameter.
	DB interface {
		DBExecutor

		Begin() (*sql.Tx, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}
)

// DBOrdering is one ORDER BY term, parsed from a request's "ordering" query
// parameter by the API layer and rendered by the repositories.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
