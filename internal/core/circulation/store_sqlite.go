// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/user"
	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

// SQLiteStore runs circulation transactions on the single SQLite connection,
// so transactions never interleave within the process. The compare-and-set
// updates still guard against other processes sharing the file.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (store *SQLiteStore) Atomically(context context.Context, fn func(Tx) error) error {
	return sqlite.WithTx(context, store.db, nil, func(transaction *sqlx.Tx) error {
		return fn(&sqliteTx{tx: transaction})
	})
}

type sqliteTx struct {
	tx *sqlx.Tx
}

func (transaction *sqliteTx) FindUser(context context.Context, id int64) (*user.User, error) {
	return user.NewSQLiteRepository(transaction.tx).GetUser(context, id)
}

func (transaction *sqliteTx) LockBooks(context context.Context, ids []int64) ([]*book.Book, error) {
	query, args, err := sqlite.Build(sqlite.Dialect.From(schema.LibraryBook.Name).Prepared(true).
		Select(schema.LibraryBook.ID, schema.LibraryBook.Title, schema.LibraryBook.Genre,
			schema.LibraryBook.PublishedYear, schema.LibraryBook.AuthorID, schema.LibraryBook.HolderID).
		Where(goqu.C(schema.LibraryBook.ID).In(ids)).
		Order(goqu.C(schema.LibraryBook.ID).Asc()))
	if err != nil {
		return nil, dberr.Wrap(err, "lock_books")
	}

	books := []*book.Book{}
	if err := transaction.tx.SelectContext(context, &books, query, args...); err != nil {
		return nil, dberr.Wrap(err, "lock_books")
	}
	return books, nil
}

func (transaction *sqliteTx) SwapHolders(context context.Context, changes []Change) error {
	for _, change := range changes {
		expected := goqu.C(schema.LibraryBook.HolderID).IsNull()
		if change.From != nil {
			expected = goqu.C(schema.LibraryBook.HolderID).Eq(*change.From)
		}

		query, args, err := sqlite.Build(sqlite.Dialect.Update(schema.LibraryBook.Name).Prepared(true).
			Set(goqu.Record{schema.LibraryBook.HolderID: change.To}).
			Where(goqu.C(schema.LibraryBook.ID).Eq(change.BookID), expected))
		if err != nil {
			return dberr.Wrap(err, "swap_holders")
		}

		result, err := transaction.tx.ExecContext(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "swap_holders")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return dberr.Wrap(err, "swap_holders")
		}
		if affected == 0 {
			return ErrConcurrentUpdate
		}
	}
	return nil
}
