// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/respond"
	"github.com/taibuivan/libris/pkg/pagination"
)

/*
TestError tests that application errors map to their status and envelope.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Book"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid_input", apperr.InvalidInput("Genre cannot be empty"), http.StatusBadRequest, "INVALID_INPUT"},
		{"plain_error", errors.New("socket closed"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"code":"`+tt.code+`"`)
			assert.NotContains(t, recorder.Body.String(), "socket")
		})
	}
}

/*
TestPaginated tests the list envelope.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.NewMeta(1, 20, 41))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":["a"],"meta":{"page":1,"limit":20,"total":41,"total_pages":3}}`, recorder.Body.String())
}
