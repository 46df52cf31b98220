// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/postgres"
)

// PostgresCatalog serves each view from one REPEATABLE READ, READ ONLY
// transaction.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

func (catalog *PostgresCatalog) View(context context.Context, fn func(Reader) error) error {
	err := postgres.WithTx(context, catalog.pool, postgres.SnapshotTxOptions, func(transaction pgx.Tx) error {
		return fn(catalogReader{
			authorScanner: author.NewPostgresRepository(transaction),
			bookScanner:   book.NewPostgresRepository(transaction),
		})
	})
	return dberr.Wrap(err, "search_view")
}
