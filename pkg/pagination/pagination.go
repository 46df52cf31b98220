// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination pages the catalog listings: GET /authors, /books and
// /users. Each listing reads a Params from "?page=&limit=", asks its store for
// one LIMIT/OFFSET window plus the total row count, and answers with a Meta in
// the response envelope.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the window size of a listing without "limit".
	DefaultLimit = 20

	// MaxLimit caps the window; larger requests fall back to DefaultLimit.
	MaxLimit = 100

	// DefaultPage is the first page. Pages are 1-indexed.
	DefaultPage = 1
)

// Params is one listing window.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows that precede the window.
func (p Params) Offset() int {
	if p.Page <= DefaultPage {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes the served window against total catalog rows.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the "meta" member of a paginated listing response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds the metadata for a window. A non-positive limit has no pages.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest reads the window from the query string. Malformed or
// out-of-range values are replaced by the defaults, never rejected, so a
// listing always answers.
func FromRequest(request *http.Request) Params {
	params := Params{
		Page:  queryInt(request, "page", DefaultPage),
		Limit: queryInt(request, "limit", DefaultLimit),
	}

	if params.Page < DefaultPage {
		params.Page = DefaultPage
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}
	return params
}

func queryInt(request *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(request.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return value
}
