// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/libris/internal/core/book"
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

var selectAuthors = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.LibraryAuthor.Columns(), ", "), schema.LibraryAuthor.Table,
)

func (repository *PostgresRepository) ListAuthors(context context.Context, limit, offset int) ([]*Author, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.LibraryAuthor.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_authors")
	}

	query := selectAuthors + fmt.Sprintf(` ORDER BY %s ASC LIMIT $1 OFFSET $2`, schema.LibraryAuthor.ID)
	authors, err := repository.collect(context, "list_authors", query, limit, offset)
	return authors, total, err
}

func (repository *PostgresRepository) ListAllAuthors(context context.Context) ([]*Author, error) {
	query := selectAuthors + fmt.Sprintf(` ORDER BY %s ASC`, schema.LibraryAuthor.ID)
	return repository.collect(context, "list_all_authors", query)
}

func (repository *PostgresRepository) GetAuthor(context context.Context, id int64) (*Author, error) {
	query := selectAuthors + fmt.Sprintf(` WHERE %s = $1`, schema.LibraryAuthor.ID)

	a := &Author{}
	err := repository.db.QueryRow(context, query, id).Scan(&a.ID, &a.Name, &a.Biography)
	if err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

func (repository *PostgresRepository) CreateAuthor(context context.Context, a *Author, books []*book.Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s
	`,
		schema.LibraryAuthor.Table, schema.LibraryAuthor.AuthorName, schema.LibraryAuthor.Biography,
		schema.LibraryAuthor.ID,
	)

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_author_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	if err := transaction.QueryRow(context, query, a.Name, a.Biography).Scan(&a.ID); err != nil {
		return dberr.Wrap(err, "create_author")
	}

	for _, b := range books {
		b.AuthorID = a.ID
	}
	if err := book.NewPostgresRepository(transaction).CreateBooks(context, books); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "create_author_commit")
}

func (repository *PostgresRepository) UpdateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.LibraryAuthor.Table, schema.LibraryAuthor.AuthorName, schema.LibraryAuthor.Biography,
		schema.LibraryAuthor.ID,
	)

	cmd, err := repository.db.Exec(context, query, a.ID, a.Name, a.Biography)
	if err != nil {
		return dberr.Wrap(err, "update_author")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// DeleteAuthor removes the author row; library.book rows follow via ON DELETE CASCADE.
func (repository *PostgresRepository) DeleteAuthor(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.LibraryAuthor.Table, schema.LibraryAuthor.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) collect(context context.Context, action, query string, args ...any) ([]*Author, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	authors, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Author])
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return authors, nil
}
