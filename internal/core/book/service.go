// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/pkg/pointer"
)

type Service struct {
	repo    Repository
	authors AuthorChecker
	cache   Invalidator
	logger  *slog.Logger
}

// NewService wires the book service. cache may be nil when search caching is off.
func NewService(repo Repository, authors AuthorChecker, cache Invalidator, logger *slog.Logger) *Service {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &Service{
		repo:    repo,
		authors: authors,
		cache:   cache,
		logger:  logger,
	}
}

func (service *Service) ListBooks(context context.Context, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListBooks(context, limit, offset)
}

func (service *Service) GetBook(context context.Context, id int64) (*Book, error) {
	book, err := service.repo.GetBook(context, id)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("Book")
	}
	return book, err
}

// CreateBook registers a book under an existing author.
// The title is trimmed, a blank genre is stored as NULL and a missing year as 0.
func (service *Service) CreateBook(context context.Context, input CreateInput) (*Book, error) {
	book, err := Prepare(input)
	if err != nil {
		return nil, err
	}

	if err := service.requireAuthor(context, book.AuthorID); err != nil {
		return nil, err
	}

	if err := service.repo.CreateBook(context, book); err != nil {
		return nil, err
	}

	service.invalidate(context)
	service.logger.Info("book_created",
		slog.Int64("book_id", book.ID),
		slog.Int64("author_id", book.AuthorID),
		slog.String("actor", ctxutil.Actor(context)),
	)
	return book, nil
}

// UpdateBook applies a partial update. Circulation state is never changed here.
func (service *Service) UpdateBook(context context.Context, id int64, patch Patch) (*Book, error) {
	validator := &validate.Validator{}
	validator.NotBlank(FieldTitle, patch.Title)
	if patch.Title != nil {
		validator.MaxLen(FieldTitle, strings.TrimSpace(*patch.Title), MaxTitleLength)
	}
	if patch.Genre != nil {
		validator.MaxLen(FieldGenre, strings.TrimSpace(*patch.Genre), MaxGenreLength)
	}
	if patch.PublishedYear != nil {
		validator.Custom(FieldPublishedYear, *patch.PublishedYear < 0, "Must not be negative")
	}
	if patch.AuthorID != nil {
		validator.Positive(FieldAuthorID, *patch.AuthorID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	book, err := service.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		book.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Genre != nil {
		book.Genre = pointer.NilIfBlank(patch.Genre)
	}
	if patch.PublishedYear != nil {
		book.PublishedYear = *patch.PublishedYear
	}
	if patch.AuthorID != nil && *patch.AuthorID != book.AuthorID {
		if err := service.requireAuthor(context, *patch.AuthorID); err != nil {
			return nil, err
		}
		book.AuthorID = *patch.AuthorID
	}

	if err := service.repo.UpdateBook(context, book); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Book")
		}
		return nil, err
	}

	service.invalidate(context)
	service.logger.Info("book_updated", slog.Int64("book_id", id), slog.String("actor", ctxutil.Actor(context)))
	return book, nil
}

// DeleteBook removes a book that is not currently borrowed.
func (service *Service) DeleteBook(context context.Context, id int64) error {
	book, err := service.GetBook(context, id)
	if err != nil {
		return err
	}

	if !book.IsAvailable() {
		return apperr.Conflict("Book is currently borrowed and cannot be deleted.")
	}

	if err := service.repo.DeleteBook(context, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Book")
		}
		return err
	}

	service.invalidate(context)
	service.logger.Warn("book_deleted", slog.Int64("book_id", id), slog.String("actor", ctxutil.Actor(context)))
	return nil
}

// Prepare validates input and returns the normalized book it describes.
// Author creation reuses it for nested books, whose AuthorID is not yet known.
func Prepare(input CreateInput) (*Book, error) {
	title := strings.TrimSpace(input.Title)
	year := pointer.Val(input.PublishedYear)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
	if input.Genre != nil {
		validator.MaxLen(FieldGenre, strings.TrimSpace(*input.Genre), MaxGenreLength)
	}
	validator.Custom(FieldPublishedYear, year < 0, "Must not be negative")
	validator.Custom(FieldAuthorID, input.AuthorID < 0, "Must be a positive identifier")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Book{
		Title:         title,
		Genre:         pointer.NilIfBlank(input.Genre),
		PublishedYear: year,
		AuthorID:      input.AuthorID,
	}, nil
}

func (service *Service) requireAuthor(context context.Context, authorID int64) error {
	if authorID <= 0 {
		return validate.RequiredError(FieldAuthorID, "Must be a positive identifier")
	}

	exists, err := service.authors.AuthorExists(context, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Author")
	}
	return nil
}

// invalidate drops cached search results. Failures are logged and swallowed.
func (service *Service) invalidate(context context.Context) {
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.Warn("search_cache_invalidate_failed", slog.Any("error", err))
	}
}
