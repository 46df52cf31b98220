// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/pkg/pointer"
)

type Service struct {
	repo      Repository
	books     BookLister
	cache     book.Invalidator
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// NewService wires the author service. cache may be nil when search caching is off.
func NewService(repo Repository, books BookLister, cache book.Invalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		books:     books,
		cache:     cache,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

func (service *Service) ListAuthors(context context.Context, limit, offset int) ([]*Author, int, error) {
	return service.repo.ListAuthors(context, limit, offset)
}

func (service *Service) GetAuthor(context context.Context, id int64) (*Author, error) {
	author, err := service.repo.GetAuthor(context, id)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("Author")
	}
	return author, err
}

// AuthorExists implements book.AuthorChecker.
func (service *Service) AuthorExists(context context.Context, id int64) (bool, error) {
	_, err := service.GetAuthor(context, id)
	switch {
	case err == nil:
		return true, nil
	case apperr.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// ListBooks returns the author's books, or NotFound for an unknown author.
func (service *Service) ListBooks(context context.Context, id int64) ([]*book.Book, error) {
	if _, err := service.GetAuthor(context, id); err != nil {
		return nil, err
	}
	return service.books.ListBooksByAuthor(context, id)
}

// CreateAuthor registers an author and any nested books atomically.
func (service *Service) CreateAuthor(context context.Context, input CreateInput) (*WithBooks, error) {
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	if input.Biography != nil {
		validator.MaxLen(FieldBiography, *input.Biography, MaxBiographyLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	books := make([]*book.Book, 0, len(input.Books))
	for i, nested := range input.Books {
		nested.AuthorID = 0
		prepared, err := book.Prepare(nested)
		if err != nil {
			return nil, nestedBookError(i, err)
		}
		books = append(books, prepared)
	}

	author := &Author{
		Name:      name,
		Biography: service.sanitize(input.Biography),
	}

	if err := service.repo.CreateAuthor(context, author, books); err != nil {
		return nil, err
	}

	service.invalidate(context, len(books) > 0)
	service.logger.Info("author_created",
		slog.Int64("author_id", author.ID),
		slog.Int("books", len(books)),
		slog.String("actor", ctxutil.Actor(context)),
	)
	return &WithBooks{Author: author, Books: books}, nil
}

// UpdateAuthor applies a partial update. A provided name or biography must not be blank.
func (service *Service) UpdateAuthor(context context.Context, id int64, input UpdateInput) (*Author, error) {
	validator := &validate.Validator{}
	validator.NotBlank(FieldName, input.Name).NotBlank(FieldBiography, input.Biography)
	if input.Name != nil {
		validator.MaxLen(FieldName, strings.TrimSpace(*input.Name), MaxNameLength)
	}
	if input.Biography != nil {
		validator.MaxLen(FieldBiography, *input.Biography, MaxBiographyLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	author, err := service.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		author.Name = strings.TrimSpace(*input.Name)
	}
	if input.Biography != nil {
		author.Biography = service.sanitize(input.Biography)
	}

	if err := service.repo.UpdateAuthor(context, author); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Author")
		}
		return nil, err
	}

	service.invalidate(context, input.Name != nil)
	service.logger.Info("author_updated", slog.Int64("author_id", id), slog.String("actor", ctxutil.Actor(context)))
	return author, nil
}

// DeleteAuthor removes the author and, by cascade, their books.
// It is refused while any of those books is borrowed.
func (service *Service) DeleteAuthor(context context.Context, id int64) error {
	books, err := service.ListBooks(context, id)
	if err != nil {
		return err
	}

	for _, b := range books {
		if !b.IsAvailable() {
			return apperr.Conflict("Author has borrowed books and cannot be deleted.")
		}
	}

	if err := service.repo.DeleteAuthor(context, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Author")
		}
		return err
	}

	service.invalidate(context, true)
	service.logger.Warn("author_deleted",
		slog.Int64("author_id", id),
		slog.Int("books", len(books)),
		slog.String("actor", ctxutil.Actor(context)),
	)
	return nil
}

// sanitize strips markup from a biography; blank results collapse to nil.
func (service *Service) sanitize(biography *string) *string {
	if biography == nil {
		return nil
	}
	clean := service.sanitizer.Sanitize(*biography)
	return pointer.NilIfBlank(&clean)
}

// invalidate drops cached search results when the change affects them.
func (service *Service) invalidate(context context.Context, affectsSearch bool) {
	if !affectsSearch || service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.Warn("search_cache_invalidate_failed", slog.Any("error", err))
	}
}

// nestedBookError re-labels a nested book's validation details as books[i].field.
func nestedBookError(index int, err error) error {
	appError := apperr.As(err)
	if appError == nil {
		return err
	}

	details := make([]apperr.FieldError, 0, len(appError.Details))
	for _, detail := range appError.Details {
		details = append(details, apperr.FieldError{
			Field:   fmt.Sprintf("%s[%d].%s", FieldBooks, index, detail.Field),
			Message: detail.Message,
		})
	}
	return apperr.ValidationError(appError.Message, details...)
}
