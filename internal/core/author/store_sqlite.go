// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/taibuivan/libris/internal/core/book"
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

func selectAuthorsSQLite() *goqu.SelectDataset {
	return sqlite.Dialect.From(schema.LibraryAuthor.Name).
		Prepared(true).
		Select(schema.LibraryAuthor.ID, schema.LibraryAuthor.AuthorName, schema.LibraryAuthor.Biography).
		Order(goqu.C(schema.LibraryAuthor.ID).Asc())
}

func (repository *SQLiteRepository) ListAuthors(context context.Context, limit, offset int) ([]*Author, int, error) {
	countQuery, countArgs, err := sqlite.Build(sqlite.Dialect.From(schema.LibraryAuthor.Name).Prepared(true).Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_authors")
	}

	var total int
	if err := repository.db.GetContext(context, &total, countQuery, countArgs...); err != nil {
		return nil, 0, dberr.Wrap(err, "count_authors")
	}

	authors, err := repository.selectWhere(context, "list_authors", selectAuthorsSQLite().Limit(uint(limit)).Offset(uint(offset)))
	return authors, total, err
}

func (repository *SQLiteRepository) ListAllAuthors(context context.Context) ([]*Author, error) {
	return repository.selectWhere(context, "list_all_authors", selectAuthorsSQLite())
}

func (repository *SQLiteRepository) GetAuthor(context context.Context, id int64) (*Author, error) {
	query, args, err := sqlite.Build(selectAuthorsSQLite().Where(goqu.C(schema.LibraryAuthor.ID).Eq(id)))
	if err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}

	a := &Author{}
	if err := repository.db.GetContext(context, a, query, args...); err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

func (repository *SQLiteRepository) CreateAuthor(context context.Context, a *Author, books []*book.Book) error {
	err := sqlite.InTx(context, repository.db, func(transaction sqlite.Querier) error {
		query, args, err := sqlite.Build(sqlite.Dialect.Insert(schema.LibraryAuthor.Name).Prepared(true).
			Rows(goqu.Record{
				schema.LibraryAuthor.AuthorName: a.Name,
				schema.LibraryAuthor.Biography:  a.Biography,
			}))
		if err != nil {
			return err
		}

		result, err := transaction.ExecContext(context, query, args...)
		if err != nil {
			return err
		}
		if a.ID, err = result.LastInsertId(); err != nil {
			return err
		}

		for _, b := range books {
			b.AuthorID = a.ID
		}
		return book.NewSQLiteRepository(transaction).CreateBooks(context, books)
	})
	return dberr.Wrap(err, "create_author")
}

func (repository *SQLiteRepository) UpdateAuthor(context context.Context, a *Author) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Update(schema.LibraryAuthor.Name).Prepared(true).
		Set(goqu.Record{
			schema.LibraryAuthor.AuthorName: a.Name,
			schema.LibraryAuthor.Biography:  a.Biography,
		}).
		Where(goqu.C(schema.LibraryAuthor.ID).Eq(a.ID)))
	if err != nil {
		return dberr.Wrap(err, "update_author")
	}

	return repository.execAffectingOne(context, "update_author", query, args)
}

// DeleteAuthor removes the author row; book rows follow via ON DELETE CASCADE
// (foreign keys are enabled per connection in sqlite.Open).
func (repository *SQLiteRepository) DeleteAuthor(context context.Context, id int64) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Delete(schema.LibraryAuthor.Name).Prepared(true).
		Where(goqu.C(schema.LibraryAuthor.ID).Eq(id)))
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	return repository.execAffectingOne(context, "delete_author", query, args)
}

func (repository *SQLiteRepository) selectWhere(context context.Context, action string, dataset *goqu.SelectDataset) ([]*Author, error) {
	query, args, err := sqlite.Build(dataset)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	authors := []*Author{}
	if err := repository.db.SelectContext(context, &authors, query, args...); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return authors, nil
}

func (repository *SQLiteRepository) execAffectingOne(context context.Context, action, query string, args []any) error {
	result, err := repository.db.ExecContext(context, query, args...)
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
