// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sqlite provides the embedded catalog database used in development,
by the librisctl admin CLI and by repository tests.

Architecture:

  - Driver: modernc.org/sqlite (pure Go, no cgo).
  - Access: jmoiron/sqlx for struct scanning via the same `db` tags the
    PostgreSQL repositories use.
  - Queries: doug-martin/goqu with the sqlite3 dialect, see [Dialect].
  - Schema: embedded golang-migrate migrations applied on [Open].

SQLite allows one writer at a time. The pool is capped at a single connection
so a transaction never waits on another connection of the same process, and
every statement issued inside a transaction goes through that transaction.
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/doug-martin/goqu/v9"
	// sqlite3 dialect for the goqu query builder.
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	// registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/taibuivan/libris/internal/platform/migration"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Dialect is the goqu builder every SQLite repository uses. Repositories call
// Prepared(true) so values travel as "?" arguments instead of inlined literals.
var Dialect = goqu.Dialect("sqlite3")

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Open creates (if needed) and migrates the database file at path.
// Use ":memory:" only for single-connection throwaway databases.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=%s&_pragma=%s&_pragma=%s",
		path,
		url.QueryEscape("foreign_keys(1)"),
		url.QueryEscape("busy_timeout(5000)"),
		url.QueryEscape("journal_mode(WAL)"),
	)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	if err := migration.RunUpSQLite(db.DB, migrations, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite_database_opened", slog.String("path", path))
	return db, nil
}

// Ping verifies that the database handle is usable.
func Ping(ctx context.Context, db *sqlx.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on nil and rolling back otherwise.
func WithTx(ctx context.Context, db *sqlx.DB, options *sql.TxOptions, fn func(*sqlx.Tx) error) error {
	transaction, err := db.BeginTxx(ctx, options)
	if err != nil {
		return fmt.Errorf("sqlite: begin failed: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit failed: %w", err)
	}

	return nil
}

// Build renders a goqu dataset into SQL and arguments.
func Build(dataset interface {
	ToSQL() (string, []any, error)
}) (string, []any, error) {
	query, args, err := dataset.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("sqlite: build query failed: %w", err)
	}
	return query, args, nil
}

// InTx runs fn in a transaction on q. When q is already a transaction fn joins
// it, so composite writes (an author with its books) stay all-or-nothing.
func InTx(ctx context.Context, q Querier, fn func(Querier) error) error {
	switch handle := q.(type) {
	case *sqlx.Tx:
		return fn(handle)
	case *sqlx.DB:
		return WithTx(ctx, handle, nil, func(transaction *sqlx.Tx) error {
			return fn(transaction)
		})
	default:
		return fmt.Errorf("sqlite: unsupported querier %T", q)
	}
}
