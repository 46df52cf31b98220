// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

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

func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectUsers = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.LibraryPatron.Columns(), ", "), schema.LibraryPatron.Table,
)

func (repository *PostgresRepository) ListUsers(context context.Context, limit, offset int) ([]*User, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.LibraryPatron.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := selectUsers + fmt.Sprintf(` ORDER BY %s ASC LIMIT $1 OFFSET $2`, schema.LibraryPatron.ID)
	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	users, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[User])
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	return users, total, nil
}

func (repository *PostgresRepository) GetUser(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, "get_user", schema.LibraryPatron.ID, id)
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "find_user_by_email", schema.LibraryPatron.Email, email)
}

func (repository *PostgresRepository) CreateUser(context context.Context, u *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.LibraryPatron.Table, schema.LibraryPatron.PatronName, schema.LibraryPatron.Email,
		schema.LibraryPatron.ID,
	)

	err := repository.db.QueryRow(context, query, u.Name, u.Email).Scan(&u.ID)
	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresRepository) UpdateUser(context context.Context, u *User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.LibraryPatron.Table, schema.LibraryPatron.PatronName, schema.LibraryPatron.Email,
		schema.LibraryPatron.ID,
	)

	cmd, err := repository.db.Exec(context, query, u.ID, u.Name, u.Email)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteUser(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.LibraryPatron.Table, schema.LibraryPatron.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) findOne(context context.Context, action, column string, value any) (*User, error) {
	query := selectUsers + fmt.Sprintf(` WHERE %s = $1`, column)

	rows, err := repository.db.Query(context, query, value)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[User])
	return user, dberr.Wrap(err, action)
}
