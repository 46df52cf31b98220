// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user manages library patrons, the people who borrow books.

Patrons are stored in the library.patron table. Email is optional but unique
among patrons when present.
*/
package user

// User is a registered library patron.
type User struct {
	ID    int64   `json:"id"    db:"id"`
	Name  string  `json:"name"  db:"name"`
	Email *string `json:"email" db:"email"`
}

// Input is the payload for creating or updating a patron.
type Input struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// Global field names for validation
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// Field limits
const (
	MaxNameLength  = 200
	MaxEmailLength = 320
)
