// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

type SQLiteRepository struct {
	db sqlite.Querier
}

// NewSQLiteRepository binds the repository to a database or to an open transaction.
func NewSQLiteRepository(db sqlite.Querier) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func selectBooksSQLite() *goqu.SelectDataset {
	columns := make([]any, 0, len(schema.LibraryBook.Columns()))
	for _, column := range schema.LibraryBook.Columns() {
		columns = append(columns, column)
	}

	return sqlite.Dialect.From(schema.LibraryBook.Name).
		Prepared(true).
		Select(columns...).
		Order(goqu.C(schema.LibraryBook.ID).Asc())
}

func (repository *SQLiteRepository) ListBooks(context context.Context, limit, offset int) ([]*Book, int, error) {
	countQuery, countArgs, err := sqlite.Build(sqlite.Dialect.From(schema.LibraryBook.Name).Prepared(true).Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	var total int
	if err := repository.db.GetContext(context, &total, countQuery, countArgs...); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	books, err := repository.selectWhere(context, "list_books", selectBooksSQLite().Limit(uint(limit)).Offset(uint(offset)))
	return books, total, err
}

func (repository *SQLiteRepository) ListAllBooks(context context.Context) ([]*Book, error) {
	return repository.selectWhere(context, "list_all_books", selectBooksSQLite())
}

func (repository *SQLiteRepository) GetBook(context context.Context, id int64) (*Book, error) {
	query, args, err := sqlite.Build(selectBooksSQLite().Where(goqu.C(schema.LibraryBook.ID).Eq(id)))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}

	book := &Book{}
	if err := repository.db.GetContext(context, book, query, args...); err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return book, nil
}

func (repository *SQLiteRepository) ListBooksByAuthor(context context.Context, authorID int64) ([]*Book, error) {
	return repository.selectWhere(context, "list_books_by_author",
		selectBooksSQLite().Where(goqu.C(schema.LibraryBook.AuthorID).Eq(authorID)))
}

func (repository *SQLiteRepository) ListBooksByPublishedYear(context context.Context, year int) ([]*Book, error) {
	return repository.selectWhere(context, "list_books_by_year",
		selectBooksSQLite().Where(goqu.C(schema.LibraryBook.PublishedYear).Eq(year)))
}

func (repository *SQLiteRepository) ListAvailableBooks(context context.Context) ([]*Book, error) {
	return repository.selectWhere(context, "list_available_books",
		selectBooksSQLite().Where(goqu.C(schema.LibraryBook.HolderID).IsNull()))
}

func (repository *SQLiteRepository) CreateBook(context context.Context, b *Book) error {
	return dberr.Wrap(insertBookSQLite(context, repository.db, b), "create_book")
}

func (repository *SQLiteRepository) CreateBooks(context context.Context, books []*Book) error {
	if len(books) == 0 {
		return nil
	}

	err := sqlite.InTx(context, repository.db, func(transaction sqlite.Querier) error {
		for _, b := range books {
			if err := insertBookSQLite(context, transaction, b); err != nil {
				return err
			}
		}
		return nil
	})
	return dberr.Wrap(err, "create_books")
}

func (repository *SQLiteRepository) UpdateBook(context context.Context, b *Book) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Update(schema.LibraryBook.Name).Prepared(true).
		Set(goqu.Record{
			schema.LibraryBook.Title:         b.Title,
			schema.LibraryBook.Genre:         b.Genre,
			schema.LibraryBook.PublishedYear: b.PublishedYear,
			schema.LibraryBook.AuthorID:      b.AuthorID,
		}).
		Where(goqu.C(schema.LibraryBook.ID).Eq(b.ID)))
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}

	return execAffectingOne(context, repository.db, "update_book", query, args)
}

func (repository *SQLiteRepository) DeleteBook(context context.Context, id int64) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Delete(schema.LibraryBook.Name).Prepared(true).
		Where(goqu.C(schema.LibraryBook.ID).Eq(id)))
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}

	return execAffectingOne(context, repository.db, "delete_book", query, args)
}

func (repository *SQLiteRepository) selectWhere(context context.Context, action string, dataset *goqu.SelectDataset) ([]*Book, error) {
	query, args, err := sqlite.Build(dataset)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	books := []*Book{}
	if err := repository.db.SelectContext(context, &books, query, args...); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return books, nil
}

func insertBookSQLite(context context.Context, db sqlite.Querier, b *Book) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Insert(schema.LibraryBook.Name).Prepared(true).
		Rows(goqu.Record{
			schema.LibraryBook.Title:         b.Title,
			schema.LibraryBook.Genre:         b.Genre,
			schema.LibraryBook.PublishedYear: b.PublishedYear,
			schema.LibraryBook.AuthorID:      b.AuthorID,
		}))
	if err != nil {
		return err
	}

	result, err := db.ExecContext(context, query, args...)
	if err != nil {
		return err
	}

	b.ID, err = result.LastInsertId()
	return err
}

func execAffectingOne(context context.Context, db sqlite.Querier, action, query string, args []any) error {
	result, err := db.ExecContext(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if affected == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
