// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

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

func NewSQLiteRepository(db sqlite.Querier) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func selectUsersSQLite() *goqu.SelectDataset {
	return sqlite.Dialect.From(schema.LibraryPatron.Name).
		Prepared(true).
		Select(schema.LibraryPatron.ID, schema.LibraryPatron.PatronName, schema.LibraryPatron.Email).
		Order(goqu.C(schema.LibraryPatron.ID).Asc())
}

func (repository *SQLiteRepository) ListUsers(context context.Context, limit, offset int) ([]*User, int, error) {
	countQuery, countArgs, err := sqlite.Build(sqlite.Dialect.From(schema.LibraryPatron.Name).Prepared(true).Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	var total int
	if err := repository.db.GetContext(context, &total, countQuery, countArgs...); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query, args, err := sqlite.Build(selectUsersSQLite().Limit(uint(limit)).Offset(uint(offset)))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	users := []*User{}
	if err := repository.db.SelectContext(context, &users, query, args...); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	return users, total, nil
}

func (repository *SQLiteRepository) GetUser(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, "get_user", goqu.C(schema.LibraryPatron.ID).Eq(id))
}

func (repository *SQLiteRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "find_user_by_email", goqu.C(schema.LibraryPatron.Email).Eq(email))
}

func (repository *SQLiteRepository) CreateUser(context context.Context, u *User) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Insert(schema.LibraryPatron.Name).Prepared(true).
		Rows(goqu.Record{
			schema.LibraryPatron.PatronName: u.Name,
			schema.LibraryPatron.Email:      u.Email,
		}))
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}

	result, err := repository.db.ExecContext(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}

	u.ID, err = result.LastInsertId()
	return dberr.Wrap(err, "create_user")
}

func (repository *SQLiteRepository) UpdateUser(context context.Context, u *User) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Update(schema.LibraryPatron.Name).Prepared(true).
		Set(goqu.Record{
			schema.LibraryPatron.PatronName: u.Name,
			schema.LibraryPatron.Email:      u.Email,
		}).
		Where(goqu.C(schema.LibraryPatron.ID).Eq(u.ID)))
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}

	return repository.execAffectingOne(context, "update_user", query, args)
}

func (repository *SQLiteRepository) DeleteUser(context context.Context, id int64) error {
	query, args, err := sqlite.Build(sqlite.Dialect.Delete(schema.LibraryPatron.Name).Prepared(true).
		Where(goqu.C(schema.LibraryPatron.ID).Eq(id)))
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}

	return repository.execAffectingOne(context, "delete_user", query, args)
}

func (repository *SQLiteRepository) findOne(context context.Context, action string, condition goqu.Expression) (*User, error) {
	query, args, err := sqlite.Build(selectUsersSQLite().Where(condition))
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	user := &User{}
	if err := repository.db.GetContext(context, user, query, args...); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
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
