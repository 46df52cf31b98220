// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/pkg/slice"
)

// Change moves one book from holder From to holder To. A nil holder means available.
type Change struct {
	BookID int64
	From   *int64
	To     *int64
}

// decideBorrow checks the resolved books of a borrow request. It returns the
// changes to apply only when every requested book exists and is available.
func decideBorrow(userID int64, requested []int64, books []*book.Book) (Outcome, []Change) {
	if len(requested) == 0 {
		return failed(CodeNoBooks, MessageNoBooks), nil
	}

	found := slice.Index(books, func(b *book.Book) int64 { return b.ID })
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			return failed(CodeBooksNotFound, MessageBooksNotFound), nil
		}
	}

	changes := make([]Change, 0, len(requested))
	for _, id := range requested {
		b := found[id]
		if !b.IsAvailable() {
			return failed(CodeAlreadyBorrowed, MessageAlreadyBorrowed), nil
		}

		holder := userID
		changes = append(changes, Change{BookID: id, From: nil, To: &holder})
	}

	return succeeded(MessageBorrowed), changes
}

// decideReturn partitions a return request into books held by userID and
// everything else.
func decideReturn(userID int64, requested []int64, books []*book.Book) (ReturnOutcome, []Change) {
	found := slice.Index(books, func(b *book.Book) int64 { return b.ID })

	outcome := ReturnOutcome{Returned: []int64{}, Invalid: []int64{}}
	var changes []Change

	for _, id := range requested {
		b, ok := found[id]
		if !ok || !b.IsHeldBy(userID) {
			outcome.Invalid = append(outcome.Invalid, id)
			continue
		}

		holder := userID
		outcome.Returned = append(outcome.Returned, id)
		changes = append(changes, Change{BookID: id, From: &holder, To: nil})
	}

	if len(outcome.Returned) == 0 {
		outcome.Outcome = failed(CodeNothingReturned, MessageNothingReturned)
		return outcome, nil
	}

	outcome.Outcome = succeeded(MessageReturned)
	return outcome, changes
}
