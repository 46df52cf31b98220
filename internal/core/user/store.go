// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import "context"

// Repository is the patron store contract.
type Repository interface {
	ListUsers(context context.Context, limit, offset int) ([]*User, int, error)
	GetUser(context context.Context, id int64) (*User, error)

	// FindByEmail returns dberr.ErrNotFound when no patron uses the address.
	FindByEmail(context context.Context, email string) (*User, error)

	// CreateUser assigns u.ID.
	CreateUser(context context.Context, u *User) error
	UpdateUser(context context.Context, u *User) error
	DeleteUser(context context.Context, id int64) error
}
