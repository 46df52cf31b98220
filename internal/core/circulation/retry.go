// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/taibuivan/libris/internal/platform/constants"
)

const defaultMaxAttempts = 6

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is outside [0,1].
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one attempt of a retried operation.
type RetryableFunc func(ctx context.Context) error

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	onRetry      func(attempt int, err error)
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with an error
// other than ErrConcurrentUpdate, or runs out of attempts.
//
// Delays before each retry: baseDelay, baseDelay*2, baseDelay*4, ... each
// extended by a random share of up to jitterFactor.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) error {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    constants.CirculationBaseDelay,
		jitterFactor: constants.CirculationJitter,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // jitter only

			select {
			case <-time.After(delay + time.Duration(jitter)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !errors.Is(lastErr, ErrConcurrentUpdate) {
			return lastErr
		}

		if config.onRetry != nil && attempt < config.maxAttempts-1 {
			config.onRetry(attempt+1, lastErr)
		}
	}

	return lastErr
}

// RetryOption configures RetryWithExponentialBackoff.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the total number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		config.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		config.baseDelay = delay
		return nil
	}
}

// WithJitterFactor sets the random share added to each delay, from 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		config.jitterFactor = factor
		return nil
	}
}

// WithOnRetry registers a hook called before each retry.
func WithOnRetry(hook func(attempt int, err error)) RetryOption {
	return func(config *retryConfig) error {
		config.onRetry = hook
		return nil
	}
}
