// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/platform/respond"
	"github.com/taibuivan/libris/internal/platform/validate"
)

// Field names for request validation
const (
	FieldUserID  = "user_id"
	FieldBookIDs = "book_ids"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the circulation desk routes behind guard.
func (handler *Handler) RegisterRoutes(router chi.Router, guard func(http.Handler) http.Handler) {
	router.Group(func(deskRoute chi.Router) {
		deskRoute.Use(guard)

		deskRoute.Post("/borrow", handler.borrowBooks)
		deskRoute.Post("/return", handler.returnBooks)
	})
}

func (handler *Handler) borrowBooks(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := handler.engine.Borrow(request.Context(), input.UserID, input.BookIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Status(writer, StatusFor(outcome.Code), outcome)
}

func (handler *Handler) returnBooks(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := handler.engine.Return(request.Context(), input.UserID, input.BookIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Status(writer, StatusFor(outcome.Code), outcome)
}

func decodeRequest(request *http.Request) (Request, error) {
	var input Request
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return Request{}, err
	}

	validator := &validate.Validator{}
	validator.Positive(FieldUserID, input.UserID)
	for _, id := range input.BookIDs {
		if id <= 0 {
			validator.Custom(FieldBookIDs, true, "Must contain positive identifiers")
			break
		}
	}
	if err := validator.Err(); err != nil {
		return Request{}, err
	}
	return input, nil
}

// StatusFor maps an outcome code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeUserNotFound, CodeBooksNotFound:
		return http.StatusNotFound
	case CodeAlreadyBorrowed:
		return http.StatusConflict
	case CodeNothingReturned:
		return http.StatusUnprocessableEntity
	case CodeNoBooks:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
