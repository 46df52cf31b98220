// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/metrics"
	"github.com/taibuivan/libris/pkg/slice"
)

// Config tunes conflict retries.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      float64
}

// DefaultConfig returns the production retry settings.
func DefaultConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts: maxAttempts,
		BaseDelay:   constants.CirculationBaseDelay,
		Jitter:      constants.CirculationJitter,
	}
}

type Engine struct {
	store  Store
	cache  book.Invalidator
	config Config
	logger *slog.Logger
}

// NewEngine builds the circulation engine. cache may be nil.
func NewEngine(store Store, cache book.Invalidator, config Config, logger *slog.Logger) *Engine {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaultMaxAttempts
	}
	return &Engine{store: store, cache: cache, config: config, logger: logger}
}

// Borrow lends every book in bookIDs to userID, or none of them.
// Duplicate IDs are collapsed.
func (engine *Engine) Borrow(context context.Context, userID int64, bookIDs []int64) (Outcome, error) {
	requested := slice.Unique(bookIDs)

	var outcome Outcome
	err := engine.retry(context, OperationBorrow, func(tx Tx) error {
		found, err := engine.userExists(context, tx, userID)
		if err != nil || !found {
			outcome = failed(CodeUserNotFound, MessageUserNotFound)
			return err
		}

		books, err := lockBooks(context, tx, requested)
		if err != nil {
			return err
		}

		var changes []Change
		outcome, changes = decideBorrow(userID, requested, books)
		if !outcome.Success {
			return nil
		}
		return tx.SwapHolders(context, changes)
	})
	if err != nil {
		return Outcome{}, err
	}

	engine.record(context, OperationBorrow, outcome, userID, requested)
	return outcome, nil
}

// Return gives back every book in bookIDs that userID holds and reports the
// rest as invalid.
func (engine *Engine) Return(context context.Context, userID int64, bookIDs []int64) (ReturnOutcome, error) {
	requested := slice.Unique(bookIDs)

	var outcome ReturnOutcome
	err := engine.retry(context, OperationReturn, func(tx Tx) error {
		found, err := engine.userExists(context, tx, userID)
		if err != nil || !found {
			outcome = ReturnOutcome{Outcome: failed(CodeUserNotFound, MessageUserNotFound), Returned: []int64{}, Invalid: []int64{}}
			return err
		}

		books, err := lockBooks(context, tx, requested)
		if err != nil {
			return err
		}

		var changes []Change
		outcome, changes = decideReturn(userID, requested, books)
		if !outcome.Success {
			return nil
		}
		return tx.SwapHolders(context, changes)
	})
	if err != nil {
		return ReturnOutcome{}, err
	}

	engine.record(context, OperationReturn, outcome.Outcome, userID, requested)
	return outcome, nil
}

// retry runs fn in a transaction, retrying compare-and-set misses. Exhausted
// retries surface as a Conflict error.
func (engine *Engine) retry(ctx context.Context, operation string, fn func(Tx) error) error {
	err := RetryWithExponentialBackoff(ctx,
		func(attemptCtx context.Context) error {
			return engine.store.Atomically(attemptCtx, fn)
		},
		WithMaxAttempts(engine.config.MaxAttempts),
		WithBaseDelay(engine.config.BaseDelay),
		WithJitterFactor(engine.config.Jitter),
		WithOnRetry(func(attempt int, err error) {
			metrics.CirculationRetriesTotal.WithLabelValues(operation).Inc()
			engine.logger.Debug("circulation_retry", slog.String("operation", operation), slog.Int("attempt", attempt))
		}),
	)

	if errors.Is(err, ErrConcurrentUpdate) {
		engine.logger.Warn("circulation_retries_exhausted", slog.String("operation", operation))
		return apperr.Conflict("The requested books changed concurrently. Please retry.")
	}
	return err
}

func (engine *Engine) userExists(context context.Context, tx Tx, userID int64) (bool, error) {
	_, err := tx.FindUser(context, userID)
	switch {
	case err == nil:
		return true, nil
	case apperr.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func lockBooks(context context.Context, tx Tx, ids []int64) ([]*book.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return tx.LockBooks(context, ids)
}

// record counts the outcome and, after a committed transition, drops cached
// search results since availability changed.
func (engine *Engine) record(context context.Context, operation string, outcome Outcome, userID int64, requested []int64) {
	metrics.CirculationOutcomesTotal.WithLabelValues(operation, outcome.Code).Inc()

	if !outcome.Success {
		engine.logger.Info("circulation_"+operation+"_rejected",
			slog.Int64("user_id", userID),
			slog.String("code", outcome.Code),
			slog.Int("books", len(requested)),
		)
		return
	}

	if engine.cache != nil {
		if err := engine.cache.Invalidate(context); err != nil {
			engine.logger.Warn("search_cache_invalidate_failed", slog.Any("error", err))
		}
	}

	engine.logger.Info("circulation_"+operation+"_committed",
		slog.Int64("user_id", userID),
		slog.Any("book_ids", requested),
		slog.String("actor", ctxutil.Actor(context)),
	)
}
