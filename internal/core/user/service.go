// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/pkg/pointer"
)

// ErrEmailTaken is returned when another patron already uses the email.
var ErrEmailTaken = apperr.Conflict("Email is already in use.")

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (service *Service) ListUsers(context context.Context, limit, offset int) ([]*User, int, error) {
	return service.repo.ListUsers(context, limit, offset)
}

func (service *Service) GetUser(context context.Context, id int64) (*User, error) {
	user, err := service.repo.GetUser(context, id)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("User")
	}
	return user, err
}

// CreateUser registers a patron. A blank email is stored as NULL.
func (service *Service) CreateUser(context context.Context, input Input) (*User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	if email != nil {
		validator.Email(FieldEmail, *email).MaxLen(FieldEmail, *email, MaxEmailLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireFreeEmail(context, email, 0); err != nil {
		return nil, err
	}

	user := &User{Name: name, Email: email}
	if err := service.repo.CreateUser(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	service.logger.Info("user_created", slog.Int64("user_id", user.ID), slog.String("actor", ctxutil.Actor(context)))
	return user, nil
}

// UpdateUser replaces the patron's details. A blank name keeps the current one;
// a blank email clears it.
func (service *Service) UpdateUser(context context.Context, id int64, input Input) (*User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.MaxLen(FieldName, name, MaxNameLength)
	if email != nil {
		validator.Email(FieldEmail, *email).MaxLen(FieldEmail, *email, MaxEmailLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.GetUser(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.requireFreeEmail(context, email, id); err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	user.Email = email

	if err := service.repo.UpdateUser(context, user); err != nil {
		switch {
		case apperr.IsNotFound(err):
			return nil, apperr.NotFound("User")
		case apperr.IsConflict(err):
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	service.logger.Info("user_updated", slog.Int64("user_id", id), slog.String("actor", ctxutil.Actor(context)))
	return user, nil
}

// DeleteUser removes a patron. The store refuses while a book still names
// them as holder.
func (service *Service) DeleteUser(context context.Context, id int64) error {
	err := service.repo.DeleteUser(context, id)
	switch {
	case err == nil:
	case errors.Is(err, dberr.ErrReferenced):
		return apperr.Conflict("User still holds borrowed books and cannot be deleted.")
	case apperr.IsNotFound(err):
		return apperr.NotFound("User")
	default:
		return err
	}

	service.logger.Warn("user_deleted", slog.Int64("user_id", id), slog.String("actor", ctxutil.Actor(context)))
	return nil
}

// requireFreeEmail fails when email belongs to a patron other than selfID.
func (service *Service) requireFreeEmail(context context.Context, email *string, selfID int64) error {
	if email == nil {
		return nil
	}

	existing, err := service.repo.FindByEmail(context, *email)
	switch {
	case apperr.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return ErrEmailTaken
	}
	return nil
}

func normalizeEmail(email *string) *string {
	email = pointer.NilIfBlank(email)
	if email == nil {
		return nil
	}
	return pointer.To(strings.ToLower(strings.TrimSpace(*email)))
}
