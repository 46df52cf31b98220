// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/pkg/pagination"
)

/*
TestFromRequest tests parsing and clamping of page parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=1000", 1, 20, 0},
		{"?page=abc&limit=-5", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/books"+tt.query, nil))
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta tests total page calculation.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, pagination.NewMeta(1, 20, 41).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
}

/*
TestParams_Meta tests that a listing window reports its own page and limit.
*/
func TestParams_Meta(t *testing.T) {
	params := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/authors?page=2&limit=5", nil))

	assert.Equal(t, pagination.Meta{Page: 2, Limit: 5, Total: 12, TotalPages: 3}, params.Meta(12))
}
