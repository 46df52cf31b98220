// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/platform/respond"
)

// Query parameters accepted by GET /books/search.
const (
	ParamAuthor    = "author"
	ParamTitle     = "title"
	ParamGenre     = "genre"
	ParamYear      = "year"
	ParamAvailable = "available"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts GET /search on the books router. It must be registered
// before the /{id} routes share the same router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/search", handler.filterBooks)
}

// filterBooks answers 200 with the matching books, or 204 when nothing matches.
func (handler *Handler) filterBooks(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.QueryInt(request, ParamYear)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := Query{
		Author:        requestutil.QueryRaw(request, ParamAuthor),
		Title:         requestutil.QueryRaw(request, ParamTitle),
		Genre:         requestutil.QueryRaw(request, ParamGenre),
		Year:          year,
		AvailableOnly: requestutil.QueryBool(request, ParamAvailable),
	}

	books, err := handler.engine.Filter(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if len(books) == 0 {
		respond.NoContent(writer)
		return
	}
	respond.OK(writer, books)
}
