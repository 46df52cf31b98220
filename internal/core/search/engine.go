// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/metrics"
	"github.com/taibuivan/libris/pkg/similarity"
	"github.com/taibuivan/libris/pkg/slice"
)

// Matcher labels used for metrics and logs.
const (
	matcherAuthor    = "author"
	matcherTitle     = "title"
	matcherGenre     = "genre"
	matcherYear      = "year"
	matcherAvailable = "available"
	matcherFilter    = "filter"
)

// Cache outcome labels.
const (
	cacheHit      = "hit"
	cacheMiss     = "miss"
	cacheDisabled = "disabled"
)

type Engine struct {
	catalog   Catalog
	cache     Cache
	tolerance float64
	logger    *slog.Logger
}

// NewEngine builds a search engine. cache may be nil.
func NewEngine(catalog Catalog, cache Cache, config Config, logger *slog.Logger) (*Engine, error) {
	if config.Tolerance < 0 || config.Tolerance > 1 {
		return nil, fmt.Errorf("search: tolerance must lie in [0,1], got %v", config.Tolerance)
	}

	return &Engine{
		catalog:   catalog,
		cache:     cache,
		tolerance: config.Tolerance,
		logger:    logger,
	}, nil
}

// Tolerance returns the configured author/title threshold.
func (engine *Engine) Tolerance() float64 {
	return engine.tolerance
}

// # Single-criterion matchers

// MatchByAuthor returns the books of every author whose name scores above the tolerance.
func (engine *Engine) MatchByAuthor(context context.Context, fragment string) ([]*book.Book, error) {
	return engine.view(context, matcherAuthor, func(reader Reader) ([]*book.Book, error) {
		return engine.matchByAuthor(context, reader, fragment)
	})
}

// MatchByTitle returns the books whose title scores above the tolerance.
func (engine *Engine) MatchByTitle(context context.Context, fragment string) ([]*book.Book, error) {
	return engine.view(context, matcherTitle, func(reader Reader) ([]*book.Book, error) {
		return engine.matchByTitle(context, reader, fragment)
	})
}

// MatchByGenre returns the books tied at the best genre score.
func (engine *Engine) MatchByGenre(context context.Context, fragment string) ([]*book.Book, error) {
	return engine.view(context, matcherGenre, func(reader Reader) ([]*book.Book, error) {
		return engine.matchByGenre(context, reader, fragment)
	})
}

// MatchByPublishedYear returns the books published in year, or NotFound.
func (engine *Engine) MatchByPublishedYear(context context.Context, year int) ([]*book.Book, error) {
	return engine.view(context, matcherYear, func(reader Reader) ([]*book.Book, error) {
		return engine.matchByPublishedYear(context, reader, year)
	})
}

// MatchAvailable returns the books nobody holds, or NotFound.
func (engine *Engine) MatchAvailable(context context.Context) ([]*book.Book, error) {
	return engine.view(context, matcherAvailable, func(reader Reader) ([]*book.Book, error) {
		return engine.matchAvailable(context, reader)
	})
}

// # Combinator

// Filter returns the books satisfying every populated criterion of query,
// ordered by ID. A query with no populated criterion yields an empty list.
// NotFound from a single criterion contributes an empty set instead of failing.
func (engine *Engine) Filter(context context.Context, query Query) ([]*book.Book, error) {
	query = query.Populated()
	if query.IsEmpty() {
		return []*book.Book{}, nil
	}

	key := query.Key()
	books, slot, hit := engine.cached(context, key)
	if hit {
		metrics.SearchQueriesTotal.WithLabelValues(matcherFilter, cacheHit).Inc()
		return books, nil
	}

	start := time.Now()
	var result []*book.Book
	err := engine.catalog.View(context, func(reader Reader) error {
		var err error
		result, err = engine.filter(context, reader, query)
		return err
	})
	if err != nil {
		return nil, err
	}

	engine.store(context, slot, key, result)
	metrics.SearchQueriesTotal.WithLabelValues(matcherFilter, engine.cacheLabel()).Inc()
	engine.logger.Debug("search_filter_completed",
		slog.String("query", key),
		slog.Any("book_ids", slice.Map(result, func(b *book.Book) int64 { return b.ID })),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (engine *Engine) filter(context context.Context, reader Reader, query Query) ([]*book.Book, error) {
	var criteria []func() ([]*book.Book, error)

	if query.Author != "" {
		criteria = append(criteria, func() ([]*book.Book, error) { return engine.matchByAuthor(context, reader, query.Author) })
	}
	if query.Title != "" {
		criteria = append(criteria, func() ([]*book.Book, error) { return engine.matchByTitle(context, reader, query.Title) })
	}
	if query.Genre != "" {
		criteria = append(criteria, func() ([]*book.Book, error) { return engine.matchByGenre(context, reader, query.Genre) })
	}
	if query.Year != nil {
		criteria = append(criteria, func() ([]*book.Book, error) { return engine.matchByPublishedYear(context, reader, *query.Year) })
	}
	if query.AvailableOnly {
		criteria = append(criteria, func() ([]*book.Book, error) { return engine.matchAvailable(context, reader) })
	}

	var result map[int64]*book.Book
	for _, criterion := range criteria {
		books, err := criterion()
		if apperr.IsNotFound(err) {
			return []*book.Book{}, nil
		}
		if err != nil {
			return nil, err
		}

		result = intersect(result, books)
		if len(result) == 0 {
			return []*book.Book{}, nil
		}
	}

	books := make([]*book.Book, 0, len(result))
	for _, b := range result {
		books = append(books, b)
	}
	slices.SortFunc(books, func(a, b *book.Book) int { return cmp.Compare(a.ID, b.ID) })
	return books, nil
}

// intersect narrows current to the IDs present in next. A nil current is the
// first criterion and takes next as is.
func intersect(current map[int64]*book.Book, next []*book.Book) map[int64]*book.Book {
	incoming := slice.Index(next, func(b *book.Book) int64 { return b.ID })
	if current == nil {
		return incoming
	}

	for id := range current {
		if _, ok := incoming[id]; !ok {
			delete(current, id)
		}
	}
	return current
}

// # Matcher implementations

func (engine *Engine) matchByAuthor(context context.Context, reader Reader, fragment string) ([]*book.Book, error) {
	if err := requireFragment(fragment, "Author name cannot be empty"); err != nil {
		return nil, err
	}

	authors, err := reader.ListAllAuthors(context)
	if err != nil {
		return nil, err
	}

	matches := []*book.Book{}
	for _, a := range authors {
		if similarity.Score(fragment, a.Name) <= engine.tolerance {
			continue
		}

		books, err := reader.ListBooksByAuthor(context, a.ID)
		if err != nil {
			return nil, err
		}
		matches = append(matches, books...)
	}
	return matches, nil
}

func (engine *Engine) matchByTitle(context context.Context, reader Reader, fragment string) ([]*book.Book, error) {
	if err := requireFragment(fragment, "Book title cannot be empty"); err != nil {
		return nil, err
	}

	books, err := reader.ListAllBooks(context)
	if err != nil {
		return nil, err
	}

	return slice.Filter(books, func(b *book.Book) bool {
		return similarity.Score(fragment, b.Title) > engine.tolerance
	}), nil
}

// matchByGenre keeps the running best starting from 0.0, so populated genres
// that all score 0.0 tie at the maximum and are returned.
func (engine *Engine) matchByGenre(context context.Context, reader Reader, fragment string) ([]*book.Book, error) {
	if err := requireFragment(fragment, "Genre cannot be empty"); err != nil {
		return nil, err
	}

	books, err := reader.ListAllBooks(context)
	if err != nil {
		return nil, err
	}

	best := 0.0
	matches := []*book.Book{}
	for _, b := range books {
		if b.Genre == nil || strings.TrimSpace(*b.Genre) == "" {
			continue
		}

		score := similarity.Score(fragment, *b.Genre)
		switch {
		case score > best:
			best = score
			matches = append(matches[:0], b)
		case score == best:
			matches = append(matches, b)
		}
	}
	return matches, nil
}

func (engine *Engine) matchByPublishedYear(context context.Context, reader Reader, year int) ([]*book.Book, error) {
	books, err := reader.ListBooksByPublishedYear(context, year)
	if err != nil {
		return nil, err
	}

	if len(books) == 0 {
		return nil, apperr.NotFound("Books for the given published year")
	}
	return books, nil
}

func (engine *Engine) matchAvailable(context context.Context, reader Reader) ([]*book.Book, error) {
	books, err := reader.ListAvailableBooks(context)
	if err != nil {
		return nil, err
	}

	if len(books) == 0 {
		return nil, apperr.NotFound("Available books")
	}
	return books, nil
}

// # Helpers

func (engine *Engine) view(context context.Context, matcher string, match func(Reader) ([]*book.Book, error)) ([]*book.Book, error) {
	var result []*book.Book
	err := engine.catalog.View(context, func(reader Reader) error {
		var err error
		result, err = match(reader)
		return err
	})

	metrics.SearchQueriesTotal.WithLabelValues(matcher, cacheDisabled).Inc()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cacheSlot is where a computed result may be stored. A zero slot is not
// writable: the cache is disabled or its generation could not be read.
type cacheSlot struct {
	generation int64
	writable   bool
}

func (engine *Engine) cached(context context.Context, key string) ([]*book.Book, cacheSlot, bool) {
	if engine.cache == nil {
		return nil, cacheSlot{}, false
	}

	books, generation, hit, err := engine.cache.Get(context, key)
	if err != nil {
		engine.logger.Warn("search_cache_get_failed", slog.Any("error", err))
		return nil, cacheSlot{}, false
	}
	return books, cacheSlot{generation: generation, writable: true}, hit
}

func (engine *Engine) store(context context.Context, slot cacheSlot, key string, books []*book.Book) {
	if engine.cache == nil || !slot.writable {
		return
	}

	if err := engine.cache.Set(context, slot.generation, key, books); err != nil {
		engine.logger.Warn("search_cache_set_failed", slog.Any("error", err))
	}
}

func (engine *Engine) cacheLabel() string {
	if engine.cache == nil {
		return cacheDisabled
	}
	return cacheMiss
}

// requireFragment rejects blank fragments. The fragment itself is scored
// untrimmed.
func requireFragment(fragment, message string) error {
	if strings.TrimSpace(fragment) == "" {
		return apperr.InvalidInput(message)
	}
	return nil
}

