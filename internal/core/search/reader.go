// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
)

type authorScanner interface {
	ListAllAuthors(context context.Context) ([]*author.Author, error)
}

type bookScanner interface {
	ListAllBooks(context context.Context) ([]*book.Book, error)
	ListBooksByAuthor(context context.Context, authorID int64) ([]*book.Book, error)
	ListBooksByPublishedYear(context context.Context, year int) ([]*book.Book, error)
	ListAvailableBooks(context context.Context) ([]*book.Book, error)
}

// catalogReader joins the author and book repositories bound to one transaction.
type catalogReader struct {
	authorScanner
	bookScanner
}
