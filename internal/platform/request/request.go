// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/validate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes bounds request bodies; catalog payloads are small.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named numeric URL parameter from the request.

Returns apperr.InvalidInput when the segment is not a positive integer.
*/
func ID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("Invalid " + name + ": " + raw)
	}

	return id, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryString returns the trimmed query parameter, or "" when absent.
*/
func QueryString(request *http.Request, name string) string {
	return strings.TrimSpace(QueryRaw(request, name))
}

// QueryRaw returns the query parameter exactly as sent, or "" when absent.
func QueryRaw(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}

/*
QueryInt parses an optional integer query parameter.

Returns (nil, nil) when the parameter is absent and apperr.InvalidInput
when it is present but malformed.
*/
func QueryInt(request *http.Request, name string) (*int, error) {
	raw := QueryString(request, name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.InvalidInput("Invalid " + name + ": " + raw)
	}

	return &value, nil
}

/*
QueryBool parses an optional boolean query parameter; malformed values count as false.
*/
func QueryBool(request *http.Request, name string) bool {
	value, _ := strconv.ParseBool(QueryString(request, name))
	return value
}
