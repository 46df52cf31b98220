// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/user"
	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/postgres"
)

// PostgresStore runs circulation transactions at READ COMMITTED. Requested
// rows are locked with SELECT ... FOR UPDATE in ID order.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (store *PostgresStore) Atomically(context context.Context, fn func(Tx) error) error {
	return postgres.WithTx(context, store.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(transaction pgx.Tx) error {
		return fn(&postgresTx{tx: transaction})
	})
}

type postgresTx struct {
	tx pgx.Tx
}

var lockBooksQuery = fmt.Sprintf(`
	SELECT %s FROM %s
	WHERE %s = ANY($1)
	ORDER BY %s ASC
	FOR UPDATE
`,
	strings.Join(schema.LibraryBook.Columns(), ", "), schema.LibraryBook.Table,
	schema.LibraryBook.ID, schema.LibraryBook.ID,
)

var swapHolderQuery = fmt.Sprintf(`
	UPDATE %s SET %s = $2
	WHERE %s = $1 AND %s IS NOT DISTINCT FROM $3
`,
	schema.LibraryBook.Table, schema.LibraryBook.HolderID,
	schema.LibraryBook.ID, schema.LibraryBook.HolderID,
)

func (transaction *postgresTx) FindUser(context context.Context, id int64) (*user.User, error) {
	return user.NewPostgresRepository(transaction.tx).GetUser(context, id)
}

func (transaction *postgresTx) LockBooks(context context.Context, ids []int64) ([]*book.Book, error) {
	rows, err := transaction.tx.Query(context, lockBooksQuery, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "lock_books")
	}

	books, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[book.Book])
	if err != nil {
		return nil, dberr.Wrap(err, "lock_books")
	}
	return books, nil
}

// SwapHolders sends every compare-and-set update in one batch.
func (transaction *postgresTx) SwapHolders(context context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, change := range changes {
		batch.Queue(swapHolderQuery, change.BookID, change.To, change.From)
	}

	results := transaction.tx.SendBatch(context, batch)
	defer func() { _ = results.Close() }()

	for range changes {
		cmd, err := results.Exec()
		if err != nil {
			return dberr.Wrap(err, "swap_holders")
		}
		if cmd.RowsAffected() == 0 {
			return ErrConcurrentUpdate
		}
	}
	return nil
}
