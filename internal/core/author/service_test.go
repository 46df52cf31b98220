// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/pkg/pointer"
)

// # Fixtures

type memRepository struct {
	author.Repository
	authors map[int64]*author.Author
	books   []*book.Book
	nextID  int64
}

func (repository *memRepository) GetAuthor(_ context.Context, id int64) (*author.Author, error) {
	a, ok := repository.authors[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (repository *memRepository) CreateAuthor(_ context.Context, a *author.Author, books []*book.Book) error {
	repository.nextID++
	a.ID = repository.nextID
	clone := *a
	repository.authors[a.ID] = &clone

	for i, b := range books {
		b.ID = int64(len(repository.books) + i + 1)
		b.AuthorID = a.ID
	}
	repository.books = append(repository.books, books...)
	return nil
}

func (repository *memRepository) UpdateAuthor(_ context.Context, a *author.Author) error {
	clone := *a
	repository.authors[a.ID] = &clone
	return nil
}

func (repository *memRepository) DeleteAuthor(_ context.Context, id int64) error {
	delete(repository.authors, id)
	return nil
}

func (repository *memRepository) ListBooksByAuthor(_ context.Context, authorID int64) ([]*book.Book, error) {
	var books []*book.Book
	for _, b := range repository.books {
		if b.AuthorID == authorID {
			books = append(books, b)
		}
	}
	return books, nil
}

type countingCache struct{ calls int }

func (cache *countingCache) Invalidate(context.Context) error {
	cache.calls++
	return nil
}

func newService() (*author.Service, *memRepository, *countingCache) {
	repository := &memRepository{authors: map[int64]*author.Author{}}
	cache := &countingCache{}
	service := author.NewService(repository, repository, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repository, cache
}

// # Create

/*
TestService_CreateAuthor_WithBooks tests creation with nested books.
*/
func TestService_CreateAuthor_WithBooks(t *testing.T) {
	service, repository, cache := newService()

	created, err := service.CreateAuthor(context.Background(), author.CreateInput{
		Name:      "  Ursula K. Le Guin ",
		Biography: pointer.To("<script>alert(1)</script>Wrote <b>Earthsea</b>."),
		Books: []book.CreateInput{
			{Title: "A Wizard of Earthsea", Genre: pointer.To("Fantasy"), PublishedYear: pointer.To(1968)},
			{Title: "The Dispossessed", Genre: pointer.To(" ")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ursula K. Le Guin", created.Name)
	assert.Equal(t, "Wrote Earthsea.", *created.Biography)
	require.Len(t, created.Books, 2)
	assert.Equal(t, created.ID, created.Books[0].AuthorID)
	assert.Nil(t, created.Books[1].Genre)
	assert.Zero(t, created.Books[1].PublishedYear)
	assert.Len(t, repository.books, 2)
	assert.Equal(t, 1, cache.calls)
}

/*
TestService_CreateAuthor_Validation tests rejected payloads.
*/
func TestService_CreateAuthor_Validation(t *testing.T) {
	t.Run("blank_name", func(t *testing.T) {
		service, repository, _ := newService()

		_, err := service.CreateAuthor(context.Background(), author.CreateInput{Name: "   "})
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		assert.Empty(t, repository.authors)
	})

	t.Run("nested_book_field_is_labelled", func(t *testing.T) {
		service, repository, _ := newService()

		_, err := service.CreateAuthor(context.Background(), author.CreateInput{
			Name:  "Anonymous",
			Books: []book.CreateInput{{Title: "Fine"}, {Title: ""}},
		})
		require.True(t, apperr.IsCode(err, apperr.CodeValidation))
		assert.Equal(t, "books[1].title", apperr.As(err).Details[0].Field)
		assert.Empty(t, repository.authors)
	})
}

// # Update

/*
TestService_UpdateAuthor tests partial updates and blank rejection.
*/
func TestService_UpdateAuthor(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()
	created, err := service.CreateAuthor(ctx, author.CreateInput{Name: "George Orwell", Biography: pointer.To("Essayist")})
	require.NoError(t, err)

	updated, err := service.UpdateAuthor(ctx, created.ID, author.UpdateInput{Biography: pointer.To("Novelist")})
	require.NoError(t, err)
	assert.Equal(t, "George Orwell", updated.Name)
	assert.Equal(t, "Novelist", *updated.Biography)

	_, err = service.UpdateAuthor(ctx, created.ID, author.UpdateInput{Name: pointer.To("  ")})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = service.UpdateAuthor(ctx, created.ID, author.UpdateInput{Biography: pointer.To("")})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = service.UpdateAuthor(ctx, 999, author.UpdateInput{Name: pointer.To("Nobody")})
	assert.True(t, apperr.IsNotFound(err))
}

// # Delete

/*
TestService_DeleteAuthor tests that authors with borrowed books are kept.
*/
func TestService_DeleteAuthor(t *testing.T) {
	ctx := context.Background()
	service, repository, _ := newService()

	created, err := service.CreateAuthor(ctx, author.CreateInput{
		Name:  "J.R.R. Tolkien",
		Books: []book.CreateInput{{Title: "The Hobbit"}},
	})
	require.NoError(t, err)

	repository.books[0].HolderID = pointer.To(int64(3))
	assert.True(t, apperr.IsConflict(service.DeleteAuthor(ctx, created.ID)))

	repository.books[0].HolderID = nil
	require.NoError(t, service.DeleteAuthor(ctx, created.ID))
	assert.True(t, apperr.IsNotFound(service.DeleteAuthor(ctx, created.ID)))
}

/*
TestService_AuthorExists tests the lookup used by the book service.
*/
func TestService_AuthorExists(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()
	created, err := service.CreateAuthor(ctx, author.CreateInput{Name: "Known"})
	require.NoError(t, err)

	exists, err := service.AuthorExists(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.AuthorExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}
