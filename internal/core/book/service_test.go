// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/pkg/pointer"
)

// # Fixtures

type memRepository struct {
	book.Repository
	books  map[int64]*book.Book
	nextID int64
}

func newMemRepository() *memRepository {
	return &memRepository{books: map[int64]*book.Book{}}
}

func (repository *memRepository) GetBook(_ context.Context, id int64) (*book.Book, error) {
	b, ok := repository.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (repository *memRepository) CreateBook(_ context.Context, b *book.Book) error {
	repository.nextID++
	b.ID = repository.nextID
	clone := *b
	repository.books[b.ID] = &clone
	return nil
}

func (repository *memRepository) UpdateBook(_ context.Context, b *book.Book) error {
	stored, ok := repository.books[b.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	holder := stored.HolderID
	clone := *b
	clone.HolderID = holder
	repository.books[b.ID] = &clone
	return nil
}

func (repository *memRepository) DeleteBook(_ context.Context, id int64) error {
	if _, ok := repository.books[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(repository.books, id)
	return nil
}

type knownAuthors map[int64]bool

func (authors knownAuthors) AuthorExists(_ context.Context, id int64) (bool, error) {
	return authors[id], nil
}

type countingCache struct{ calls int }

func (cache *countingCache) Invalidate(context.Context) error {
	cache.calls++
	return nil
}

func newService() (*book.Service, *memRepository, *countingCache) {
	repository := newMemRepository()
	cache := &countingCache{}
	service := book.NewService(repository, knownAuthors{1: true, 2: true}, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repository, cache
}

// # Create

/*
TestService_CreateBook tests normalization and validation of new books.
*/
func TestService_CreateBook(t *testing.T) {
	t.Run("normalizes", func(t *testing.T) {
		service, _, cache := newService()

		created, err := service.CreateBook(context.Background(), book.CreateInput{
			Title:    "  The Hobbit  ",
			Genre:    pointer.To("   "),
			AuthorID: 1,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "The Hobbit", created.Title)
		assert.Nil(t, created.Genre)
		assert.Zero(t, created.PublishedYear)
		assert.True(t, created.IsAvailable())
		assert.Equal(t, 1, cache.calls)
	})

	tests := []struct {
		name  string
		input book.CreateInput
		code  string
	}{
		{"blank_title", book.CreateInput{Title: "  ", AuthorID: 1}, apperr.CodeValidation},
		{"negative_year", book.CreateInput{Title: "T", PublishedYear: pointer.To(-1), AuthorID: 1}, apperr.CodeValidation},
		{"missing_author_id", book.CreateInput{Title: "T"}, apperr.CodeValidation},
		{"unknown_author", book.CreateInput{Title: "T", AuthorID: 42}, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repository, _ := newService()

			_, err := service.CreateBook(context.Background(), tt.input)
			assert.True(t, apperr.IsCode(err, tt.code), "got %v", err)
			assert.Empty(t, repository.books)
		})
	}
}

// # Update

/*
TestService_UpdateBook tests partial updates.
*/
func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("partial_fields", func(t *testing.T) {
		service, _, _ := newService()
		created, err := service.CreateBook(ctx, book.CreateInput{Title: "Old", Genre: pointer.To("Fantasy"), AuthorID: 1})
		require.NoError(t, err)

		updated, err := service.UpdateBook(ctx, created.ID, book.Patch{
			Title:         pointer.To(" New "),
			PublishedYear: pointer.To(1937),
		})
		require.NoError(t, err)

		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "Fantasy", *updated.Genre)
		assert.Equal(t, 1937, updated.PublishedYear)
	})

	t.Run("blank_genre_clears", func(t *testing.T) {
		service, _, _ := newService()
		created, err := service.CreateBook(ctx, book.CreateInput{Title: "T", Genre: pointer.To("Fantasy"), AuthorID: 1})
		require.NoError(t, err)

		updated, err := service.UpdateBook(ctx, created.ID, book.Patch{Genre: pointer.To("")})
		require.NoError(t, err)
		assert.Nil(t, updated.Genre)
	})

	t.Run("keeps_holder", func(t *testing.T) {
		service, repository, _ := newService()
		created, err := service.CreateBook(ctx, book.CreateInput{Title: "T", AuthorID: 1})
		require.NoError(t, err)
		repository.books[created.ID].HolderID = pointer.To(int64(5))

		_, err = service.UpdateBook(ctx, created.ID, book.Patch{AuthorID: pointer.To(int64(2))})
		require.NoError(t, err)

		stored := repository.books[created.ID]
		assert.Equal(t, int64(2), stored.AuthorID)
		assert.Equal(t, int64(5), *stored.HolderID)
	})

	t.Run("errors", func(t *testing.T) {
		service, _, _ := newService()
		created, err := service.CreateBook(ctx, book.CreateInput{Title: "T", AuthorID: 1})
		require.NoError(t, err)

		_, err = service.UpdateBook(ctx, created.ID, book.Patch{Title: pointer.To(" ")})
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

		_, err = service.UpdateBook(ctx, created.ID, book.Patch{AuthorID: pointer.To(int64(42))})
		assert.True(t, apperr.IsNotFound(err))

		_, err = service.UpdateBook(ctx, 999, book.Patch{Title: pointer.To("X")})
		assert.True(t, apperr.IsNotFound(err))
	})
}

// # Delete

/*
TestService_DeleteBook tests that borrowed books cannot be deleted.
*/
func TestService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	service, repository, cache := newService()

	free, err := service.CreateBook(ctx, book.CreateInput{Title: "Free", AuthorID: 1})
	require.NoError(t, err)
	lent, err := service.CreateBook(ctx, book.CreateInput{Title: "Lent", AuthorID: 1})
	require.NoError(t, err)
	repository.books[lent.ID].HolderID = pointer.To(int64(3))

	require.NoError(t, service.DeleteBook(ctx, free.ID))
	assert.NotContains(t, repository.books, free.ID)
	assert.Equal(t, 3, cache.calls)

	err = service.DeleteBook(ctx, lent.ID)
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, repository.books, lent.ID)

	assert.True(t, apperr.IsNotFound(service.DeleteBook(ctx, 999)))
}

/*
TestPrepare tests the normalization shared with nested author books.
*/
func TestPrepare(t *testing.T) {
	prepared, err := book.Prepare(book.CreateInput{Title: " Dune ", Genre: pointer.To(" Sci-Fi "), PublishedYear: pointer.To(1965)})
	require.NoError(t, err)

	assert.Equal(t, "Dune", prepared.Title)
	assert.Equal(t, "Sci-Fi", *prepared.Genre)
	assert.Equal(t, 1965, prepared.PublishedYear)
	assert.Zero(t, prepared.AuthorID)
}
