// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book manages catalog books: their persistence in PostgreSQL or SQLite,
the staff-facing CRUD service and its HTTP routes.

Architecture:

  - Book carries identifiers only (AuthorID, HolderID); there are no object graphs.
  - HolderID is owned by the circulation engine. Updates issued through this
    package never touch it.
  - Every catalog write invalidates cached search results.
*/
package book

// Book is one physical copy in the catalog.
type Book struct {
	ID            int64   `json:"id"             db:"id"`
	Title         string  `json:"title"          db:"title"`
	Genre         *string `json:"genre"          db:"genre"`
	PublishedYear int     `json:"published_year" db:"publishedyear"`
	AuthorID      int64   `json:"author_id"      db:"authorid"`
	HolderID      *int64  `json:"holder_id"      db:"holderid"`
}

// IsAvailable reports whether nobody currently holds the book.
func (b *Book) IsAvailable() bool {
	return b.HolderID == nil
}

// IsHeldBy reports whether userID currently holds the book.
func (b *Book) IsHeldBy(userID int64) bool {
	return b.HolderID != nil && *b.HolderID == userID
}

// CreateInput is the payload for registering a new book.
type CreateInput struct {
	Title         string  `json:"title"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"published_year"`
	AuthorID      int64   `json:"author_id"`
}

// Patch is a partial update; nil fields are left unchanged.
// An explicitly blank genre clears it.
type Patch struct {
	Title         *string `json:"title"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"published_year"`
	AuthorID      *int64  `json:"author_id"`
}

// Global field names for validation
const (
	FieldTitle         = "title"
	FieldGenre         = "genre"
	FieldPublishedYear = "published_year"
	FieldAuthorID      = "author_id"
)

// Field limits
const (
	MaxTitleLength = 500
	MaxGenreLength = 100
)
