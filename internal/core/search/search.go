// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search answers fuzzy catalog queries by linear scan.

Matchers:

  - Author and title fragments match when the similarity score is strictly
    greater than the configured tolerance.
  - Genre fragments return only the book(s) tied at the best score.
  - Published year and availability are exact and fail with NotFound when
    nothing matches.

[Engine.Filter] intersects every populated criterion. Each public call reads
the catalog through a single [Catalog.View], so the sets being intersected
come from one consistent snapshot.
*/
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
)

// DefaultTolerance is the minimum combined score for an author or title hit.
const DefaultTolerance = 0.12

// Config tunes the engine.
type Config struct {
	// Tolerance must lie in [0,1].
	Tolerance float64
}

// Query is a multi-criteria filter. Blank strings and a false AvailableOnly
// place no constraint on their dimension.
type Query struct {
	Author        string `json:"author,omitempty"`
	Title         string `json:"title,omitempty"`
	Genre         string `json:"genre,omitempty"`
	Year          *int   `json:"year,omitempty"`
	AvailableOnly bool   `json:"available,omitempty"`
}

// Populated returns the query with blank fragments cleared. Other fragments
// are kept verbatim since the edit distance is computed on the raw text.
func (q Query) Populated() Query {
	q.Author = populated(q.Author)
	q.Title = populated(q.Title)
	q.Genre = populated(q.Genre)
	return q
}

func populated(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	return fragment
}

// IsEmpty reports whether no criterion is populated.
func (q Query) IsEmpty() bool {
	q = q.Populated()
	return q.Author == "" && q.Title == "" && q.Genre == "" && q.Year == nil && !q.AvailableOnly
}

// Key is a stable cache key for the populated query. Fragments are quoted so
// a separator inside one cannot collide with another field.
func (q Query) Key() string {
	q = q.Populated()

	year := "-"
	if q.Year != nil {
		year = strconv.Itoa(*q.Year)
	}
	return fmt.Sprintf("a=%q|t=%q|g=%q|y=%s|av=%t", q.Author, q.Title, q.Genre, year, q.AvailableOnly)
}

// Reader is the read side of the catalog the matchers scan.
type Reader interface {
	ListAllAuthors(context context.Context) ([]*author.Author, error)
	ListAllBooks(context context.Context) ([]*book.Book, error)
	ListBooksByAuthor(context context.Context, authorID int64) ([]*book.Book, error)
	ListBooksByPublishedYear(context context.Context, year int) ([]*book.Book, error)
	ListAvailableBooks(context context.Context) ([]*book.Book, error)
}

// Catalog runs fn against a consistent read-only view of the catalog.
type Catalog interface {
	View(context context.Context, fn func(Reader) error) error
}

// Cache stores filter results. Implementations scope entries to a catalog
// generation that Invalidate advances.
//
// Get reports the generation it read. Set must be given that generation, so
// a result computed across an Invalidate lands under the retired generation.
type Cache interface {
	Get(context context.Context, key string) (books []*book.Book, generation int64, hit bool, err error)
	Set(context context.Context, generation int64, key string, books []*book.Book) error
	Invalidate(context context.Context) error
}
