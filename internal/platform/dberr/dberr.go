// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both storage backends (pgx for PostgreSQL and database/sql for SQLite) funnel
// their failures through [Wrap] so services only ever see [apperr.AppError].
package dberr

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/libris/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes classified by [Wrap].
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrReferenced is returned for foreign key violations: an insert that points
	// at a missing row, or a delete of a row that is still referenced.
	ErrReferenced = apperr.NotFound("Referenced resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action is attached to internal errors as context for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Errors already classified upstream pass through untouched
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations (PostgreSQL)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return apperr.Conflict("Resource already exists")
		case sqlStateForeignKeyViolation:
			return ErrReferenced
		}
	}

	// 3. Constraint violations (SQLite reports them as message text)
	message := err.Error()
	switch {
	case strings.Contains(message, "UNIQUE constraint failed"):
		return apperr.Conflict("Resource already exists")
	case strings.Contains(message, "FOREIGN KEY constraint failed"):
		return ErrReferenced
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(&actionError{action: action, cause: err})
}

// actionError labels a raw database error with the repository action that produced it.
type actionError struct {
	action string
	cause  error
}

func (e *actionError) Error() string { return e.action + ": " + e.cause.Error() }
func (e *actionError) Unwrap() error { return e.cause }
