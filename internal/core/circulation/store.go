// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"
	"errors"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/user"
)

// ErrConcurrentUpdate reports that a book's holder changed between the read
// and the compare-and-set. The whole transaction is rolled back.
var ErrConcurrentUpdate = errors.New("circulation: book holder changed concurrently")

// Store opens circulation transactions.
type Store interface {
	// Atomically runs fn in one transaction, committing when fn returns nil.
	Atomically(context context.Context, fn func(Tx) error) error
}

// Tx is the view of the catalog inside one circulation transaction.
type Tx interface {
	// FindUser returns a NotFound error when the patron does not exist.
	FindUser(context context.Context, id int64) (*user.User, error)

	// LockBooks loads the existing books among ids. Stores that support row
	// locks hold them until the transaction ends.
	LockBooks(context context.Context, ids []int64) ([]*book.Book, error)

	// SwapHolders applies every change or returns ErrConcurrentUpdate when a
	// book's current holder is not the expected From.
	SwapHolders(context context.Context, changes []Change) error
}
