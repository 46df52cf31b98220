// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository binds the repository to a pool or to an open transaction.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectBooks = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.LibraryBook.Columns(), ", "), schema.LibraryBook.Table,
)

func (repository *PostgresRepository) ListBooks(context context.Context, limit, offset int) ([]*Book, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.LibraryBook.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	query := selectBooks + fmt.Sprintf(` ORDER BY %s ASC LIMIT $1 OFFSET $2`, schema.LibraryBook.ID)
	books, err := repository.collect(context, "list_books", query, limit, offset)
	return books, total, err
}

func (repository *PostgresRepository) ListAllBooks(context context.Context) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(` ORDER BY %s ASC`, schema.LibraryBook.ID)
	return repository.collect(context, "list_all_books", query)
}

func (repository *PostgresRepository) GetBook(context context.Context, id int64) (*Book, error) {
	query := selectBooks + fmt.Sprintf(` WHERE %s = $1`, schema.LibraryBook.ID)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}

	book, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Book])
	return book, dberr.Wrap(err, "get_book")
}

func (repository *PostgresRepository) ListBooksByAuthor(context context.Context, authorID int64) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(` WHERE %s = $1 ORDER BY %s ASC`, schema.LibraryBook.AuthorID, schema.LibraryBook.ID)
	return repository.collect(context, "list_books_by_author", query, authorID)
}

func (repository *PostgresRepository) ListBooksByPublishedYear(context context.Context, year int) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(` WHERE %s = $1 ORDER BY %s ASC`, schema.LibraryBook.PublishedYear, schema.LibraryBook.ID)
	return repository.collect(context, "list_books_by_year", query, year)
}

func (repository *PostgresRepository) ListAvailableBooks(context context.Context) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(` WHERE %s IS NULL ORDER BY %s ASC`, schema.LibraryBook.HolderID, schema.LibraryBook.ID)
	return repository.collect(context, "list_available_books", query)
}

var insertBook = fmt.Sprintf(`
	INSERT INTO %s (%s, %s, %s, %s)
	VALUES ($1, $2, $3, $4)
	RETURNING %s
`,
	schema.LibraryBook.Table, schema.LibraryBook.Title, schema.LibraryBook.Genre,
	schema.LibraryBook.PublishedYear, schema.LibraryBook.AuthorID,
	schema.LibraryBook.ID,
)

func (repository *PostgresRepository) CreateBook(context context.Context, b *Book) error {
	err := repository.db.QueryRow(context, insertBook, b.Title, b.Genre, b.PublishedYear, b.AuthorID).Scan(&b.ID)
	return dberr.Wrap(err, "create_book")
}

// CreateBooks sends the whole batch in one round trip inside a transaction
// (a savepoint when the repository is already bound to one).
func (repository *PostgresRepository) CreateBooks(context context.Context, books []*Book) error {
	if len(books) == 0 {
		return nil
	}

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_books_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(insertBook, b.Title, b.Genre, b.PublishedYear, b.AuthorID)
	}

	results := transaction.SendBatch(context, batch)
	for _, b := range books {
		if err := results.QueryRow().Scan(&b.ID); err != nil {
			_ = results.Close()
			return dberr.Wrap(err, "create_books")
		}
	}
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "create_books")
	}

	return dberr.Wrap(transaction.Commit(context), "create_books_commit")
}

func (repository *PostgresRepository) UpdateBook(context context.Context, b *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		schema.LibraryBook.Table, schema.LibraryBook.Title, schema.LibraryBook.Genre,
		schema.LibraryBook.PublishedYear, schema.LibraryBook.AuthorID, schema.LibraryBook.ID,
	)

	cmd, err := repository.db.Exec(context, query, b.ID, b.Title, b.Genre, b.PublishedYear, b.AuthorID)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteBook(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.LibraryBook.Table, schema.LibraryBook.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) collect(context context.Context, action, query string, args ...any) ([]*Book, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Book])
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return books, nil
}
