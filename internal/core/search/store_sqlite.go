// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

// SQLiteCatalog serves each view from one transaction. The single pooled
// connection keeps writers out until the view ends.
type SQLiteCatalog struct {
	db *sqlx.DB
}

func NewSQLiteCatalog(db *sqlx.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db: db}
}

func (catalog *SQLiteCatalog) View(context context.Context, fn func(Reader) error) error {
	err := sqlite.WithTx(context, catalog.db, nil, func(transaction *sqlx.Tx) error {
		return fn(catalogReader{
			authorScanner: author.NewSQLiteRepository(transaction),
			bookScanner:   book.NewSQLiteRepository(transaction),
		})
	})
	return dberr.Wrap(err, "search_view")
}
