// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"

	"github.com/taibuivan/libris/internal/core/book"
)

type Repository interface {
	ListAuthors(context context.Context, limit, offset int) ([]*Author, int, error)
	ListAllAuthors(context context.Context) ([]*Author, error)
	GetAuthor(context context.Context, id int64) (*Author, error)

	// CreateAuthor inserts a and its books in one transaction, assigning every
	// ID and each book's AuthorID.
	CreateAuthor(context context.Context, a *Author, books []*book.Book) error
	UpdateAuthor(context context.Context, a *Author) error
	DeleteAuthor(context context.Context, id int64) error
}

// BookLister reads an author's books.
type BookLister interface {
	ListBooksByAuthor(context context.Context, authorID int64) ([]*book.Book, error)
}
