// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/api"
	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

type harness struct {
	t      *testing.T
	server http.Handler
	token  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newGuardedHarness(t, nil)
}

func newGuardedHarness(t *testing.T, verifier middleware.TokenVerifier) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "libris.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	services, err := api.NewServices(api.SQLiteStores(db), nil, api.Tuning{SearchTolerance: 0.12, CirculationMaxAttempts: 3}, logger)
	require.NoError(t, err)

	handlers := services.Handlers()
	handlers.Liveness, handlers.Readiness = api.NewHealthHandlers([]api.HealthCheck{
		{Name: "sqlite", Check: func(ctx context.Context) error { return sqlite.Ping(ctx, db) }},
	}, logger)

	server := api.NewServer(ctx, api.Options{Port: "0", CORS: &config.Config{Environment: "test"}, Verifier: verifier}, logger, handlers)
	return &harness{t: t, server: server.Handler()}
}

func (h *harness) do(method, path string, body any) (int, envelope) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		request.Header.Set("Authorization", "Bearer "+h.token)
	}
	recorder := httptest.NewRecorder()
	h.server.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 && recorder.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(recorder.Body.Bytes(), &decoded)
	}
	return recorder.Code, decoded
}

type bookView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	HolderID *int64 `json:"holder_id"`
}

func decodeBooks(t *testing.T, raw json.RawMessage) []bookView {
	t.Helper()
	var books []bookView
	require.NoError(t, json.Unmarshal(raw, &books))
	return books
}

/*
TestServer_CatalogWorkflow drives a full catalog session over HTTP on SQLite.
*/
func TestServer_CatalogWorkflow(t *testing.T) {
	h := newHarness(t)

	// 1. Register an author with two books
	status, body := h.do(http.MethodPost, "/api/v1/authors", map[string]any{
		"name": "Ursula K. Le Guin",
		"books": []map[string]any{
			{"title": "A Wizard of Earthsea", "genre": "Fantasy", "published_year": 1968},
			{"title": "The Dispossessed", "genre": "Science Fiction", "published_year": 1974},
		},
	})
	require.Equal(t, http.StatusCreated, status, body.Error)

	var created struct {
		ID    int64      `json:"id"`
		Books []bookView `json:"books"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	require.Len(t, created.Books, 2)
	first, second := created.Books[0].ID, created.Books[1].ID

	// 2. Register a patron
	status, body = h.do(http.MethodPost, "/api/v1/users", map[string]any{"name": "Ada", "email": "ADA@Example.com"})
	require.Equal(t, http.StatusCreated, status, body.Error)

	var patron struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &patron))
	assert.Equal(t, "ada@example.com", patron.Email)

	// 3. Search
	status, body = h.do(http.MethodGet, "/api/v1/books/search?author=le%20guin", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeBooks(t, body.Data), 2)

	status, body = h.do(http.MethodGet, "/api/v1/books/search?genre=fantasy", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int64{first}, idsOf(decodeBooks(t, body.Data)))

	status, _ = h.do(http.MethodGet, "/api/v1/books/search?year=1900", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = h.do(http.MethodGet, "/api/v1/books/search?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status, body.Code)

	// 4. Borrow both, then try again
	status, body = h.do(http.MethodPost, "/api/v1/circulation/borrow", map[string]any{"user_id": patron.ID, "book_ids": []int64{first, second}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"success":true`)

	status, body = h.do(http.MethodPost, "/api/v1/circulation/borrow", map[string]any{"user_id": patron.ID, "book_ids": []int64{first}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body.Data), "ALREADY_BORROWED")

	status, _ = h.do(http.MethodPost, "/api/v1/circulation/borrow", map[string]any{"user_id": 999, "book_ids": []int64{first}})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodGet, "/api/v1/books/search?available=true", nil)
	assert.Equal(t, http.StatusNoContent, status)

	// 5. Partial return
	status, body = h.do(http.MethodPost, "/api/v1/circulation/return", map[string]any{"user_id": patron.ID, "book_ids": []int64{first, 999}})
	require.Equal(t, http.StatusOK, status)

	var returned struct {
		Returned []int64 `json:"returned_books"`
		Invalid  []int64 `json:"invalid_books"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &returned))
	assert.Equal(t, []int64{first}, returned.Returned)
	assert.Equal(t, []int64{999}, returned.Invalid)

	status, body = h.do(http.MethodGet, "/api/v1/books/search?available=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int64{first}, idsOf(decodeBooks(t, body.Data)))

	// 6. A patron holding a book cannot be deleted
	status, body = h.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", patron.ID), nil)
	assert.Equal(t, http.StatusConflict, status, body.Error)
}

/*
TestServer_CirculationRejectsMalformedRequest tests request validation.
*/
func TestServer_CirculationRejectsMalformedRequest(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(http.MethodPost, "/api/v1/circulation/borrow", map[string]any{"user_id": 0, "book_ids": []int64{1}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.do(http.MethodPost, "/api/v1/circulation/return", map[string]any{"user_id": 1, "book_ids": []int64{-4}})
	assert.Equal(t, http.StatusBadRequest, status)
}

/*
TestServer_StaffGuard tests that mutating routes require a librarian token once
token verification is configured, while reads stay public.
*/
func TestServer_StaffGuard(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "libris-test")

	h := newGuardedHarness(t, tokens)
	payload := map[string]any{"name": "Octavia E. Butler"}

	status, _ := h.do(http.MethodPost, "/api/v1/authors", payload)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.do(http.MethodGet, "/api/v1/authors", nil)
	assert.Equal(t, http.StatusOK, status)

	h.token, err = tokens.GenerateAccessToken("desk", sec.RoleClerk, time.Minute)
	require.NoError(t, err)
	status, _ = h.do(http.MethodPost, "/api/v1/authors", payload)
	assert.Equal(t, http.StatusForbidden, status)

	h.token, err = tokens.GenerateAccessToken("head", sec.RoleLibrarian, time.Minute)
	require.NoError(t, err)
	status, _ = h.do(http.MethodPost, "/api/v1/authors", payload)
	assert.Equal(t, http.StatusCreated, status)

	h.token = "not-a-token"
	status, _ = h.do(http.MethodGet, "/api/v1/authors", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

/*
TestServer_Probes tests the infrastructure endpoints.
*/
func TestServer_Probes(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := h.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"ready"`)

	status, _ = h.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
}

func idsOf(books []bookView) []int64 {
	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}
