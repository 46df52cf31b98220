// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Falls back to the process default
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies that staff claims can be stored in context.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{Username: "desk-1", Role: string(sec.RoleLibrarian)})

	retrieved := ctxutil.GetAuthUser(ctx)
	if assert.NotNil(t, retrieved) {
		assert.Equal(t, "desk-1", retrieved.Username)
		assert.Equal(t, "librarian", retrieved.Role)
	}
}

/*
TestContext_Actor verifies the audit actor fallback.
*/
func TestContext_Actor(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "anonymous", ctxutil.Actor(ctx))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{Username: "desk-1"})
	assert.Equal(t, "desk-1", ctxutil.Actor(ctx))
}
