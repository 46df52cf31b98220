// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/platform/sec"
)

type fakeVerifier struct {
	claims *sec.AuthClaims
}

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

type fakeConfig struct {
	development bool
	origins     []string
}

func (c fakeConfig) IsDevelopment() bool      { return c.development }
func (c fakeConfig) AllowedOrigins() []string { return c.origins }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequestID tests generation and propagation of the correlation header.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Request-ID", "client-id")
		handler.ServeHTTP(httptest.NewRecorder(), request)

		assert.Equal(t, "client-id", seen)
	})
}

/*
TestRateLimiter tests that a client is throttled once its burst is spent.
*/
func TestRateLimiter(t *testing.T) {
	handler := middleware.NewRateLimiter(0.0001, 2).Middleware(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:1234"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthenticate_RequireRole tests the staff token guard.
*/
func TestAuthenticate_RequireRole(t *testing.T) {
	tests := []struct {
		name   string
		header string
		role   sec.UserRole
		want   int
	}{
		{"anonymous", "", sec.RoleLibrarian, http.StatusUnauthorized},
		{"malformed_header", "Token good", sec.RoleLibrarian, http.StatusUnauthorized},
		{"invalid_token", "Bearer bad", sec.RoleLibrarian, http.StatusUnauthorized},
		{"insufficient_role", "Bearer good", sec.RoleClerk, http.StatusForbidden},
		{"librarian", "Bearer good", sec.RoleLibrarian, http.StatusOK},
		{"admin", "Bearer good", sec.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := fakeVerifier{claims: &sec.AuthClaims{Username: "desk-1", Role: string(tt.role)}}
			handler := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleLibrarian)(okHandler))

			request := httptest.NewRequest(http.MethodPost, "/books", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}

/*
TestCORS tests the production allow-list and pre-flight handling.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(fakeConfig{origins: []string{"https://desk.libris.example"}})(okHandler)

	t.Run("allowed_origin", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
		request.Header.Set("Origin", "https://desk.libris.example")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, "https://desk.libris.example", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign_origin", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		request.Header.Set("Origin", "https://evil.example")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}

/*
TestPanicRecovery tests that a panicking handler yields a 500 JSON error.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}
