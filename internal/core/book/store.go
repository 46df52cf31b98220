// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// Repository is the book store contract. Both the PostgreSQL and the SQLite
// implementation can be bound to a transaction, see NewPostgresRepository and
// NewSQLiteRepository.
type Repository interface {
	ListBooks(context context.Context, limit, offset int) ([]*Book, int, error)
	ListAllBooks(context context.Context) ([]*Book, error)
	GetBook(context context.Context, id int64) (*Book, error)
	ListBooksByAuthor(context context.Context, authorID int64) ([]*Book, error)
	ListBooksByPublishedYear(context context.Context, year int) ([]*Book, error)
	ListAvailableBooks(context context.Context) ([]*Book, error)

	// CreateBook assigns b.ID.
	CreateBook(context context.Context, b *Book) error
	// CreateBooks inserts the batch all-or-nothing and assigns every ID.
	CreateBooks(context context.Context, books []*Book) error
	// UpdateBook writes title, genre, year and author. HolderID is not written.
	UpdateBook(context context.Context, b *Book) error
	DeleteBook(context context.Context, id int64) error
}

// AuthorChecker resolves whether a referenced author exists.
type AuthorChecker interface {
	AuthorExists(context context.Context, id int64) (bool, error)
}

// Invalidator drops cached search results after a catalog write.
type Invalidator interface {
	Invalidate(context context.Context) error
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) error { return nil }
