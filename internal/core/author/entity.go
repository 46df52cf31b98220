// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package author manages catalog authors and their bibliography.

Architecture:

  - An Author owns books by reference (book.Book.AuthorID); deleting an author
    cascades to their books at the storage level.
  - Creation may carry nested books, persisted in the same transaction.
  - Biographies are stripped of markup before they are stored.
*/
package author

import "github.com/taibuivan/libris/internal/core/book"

// Author is the writer credited on one or more books.
type Author struct {
	ID        int64   `json:"id"        db:"id"`
	Name      string  `json:"name"      db:"name"`
	Biography *string `json:"biography" db:"biography"`
}

// WithBooks is an author together with their books, returned on creation.
type WithBooks struct {
	*Author
	Books []*book.Book `json:"books"`
}

// CreateInput is the payload for registering an author, optionally with books.
type CreateInput struct {
	Name      string             `json:"name"`
	Biography *string            `json:"biography"`
	Books     []book.CreateInput `json:"books"`
}

// UpdateInput is a partial update; present fields must not be blank.
type UpdateInput struct {
	Name      *string `json:"name"`
	Biography *string `json:"biography"`
}

// Global field names for validation
const (
	FieldName      = "name"
	FieldBiography = "biography"
	FieldBooks     = "books"
)

// Field limits
const (
	MaxNameLength      = 200
	MaxBiographyLength = 5000
)
