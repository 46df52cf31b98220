// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package circulation moves books between the two circulation states:
available, and borrowed by exactly one patron.

Rules:

  - Borrow is all-or-nothing. One missing or already borrowed book rejects
    the whole request and nothing is written.
  - Return is best-effort. Every book held by the caller is returned; the
    rest are reported as invalid.
  - Business failures are [Outcome] values. Only infrastructure failures are
    returned as errors.

Each request runs in one store transaction. Holder changes are applied as
compare-and-set updates; a miss rolls the batch back and the engine retries
with exponential backoff.
*/
package circulation

// Outcome codes. The HTTP layer maps them to status codes.
const (
	CodeOK              = "OK"
	CodeNoBooks         = "NO_BOOKS_REQUESTED"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeBooksNotFound   = "BOOKS_NOT_FOUND"
	CodeAlreadyBorrowed = "ALREADY_BORROWED"
	CodeNothingReturned = "NOTHING_RETURNED"
)

// Outcome messages.
const (
	MessageBorrowed        = "Books borrowed successfully."
	MessageReturned        = "Books returned successfully."
	MessageNoBooks         = "No books requested."
	MessageUserNotFound    = "User not found."
	MessageBooksNotFound   = "Some books do not exist. Borrowing failed."
	MessageAlreadyBorrowed = "Some books are already borrowed. Borrowing failed."
	MessageNothingReturned = "No books were returned. Either they are not borrowed or invalid."
)

// Operation labels for metrics and logs.
const (
	OperationBorrow = "borrow"
	OperationReturn = "return"
)

// Outcome is the result of a borrow request.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ReturnOutcome is the result of a return request. Returned and Invalid are
// reported on failure too.
type ReturnOutcome struct {
	Outcome
	Returned []int64 `json:"returned_books"`
	Invalid  []int64 `json:"invalid_books"`
}

// Request is the body of POST /circulation/borrow and /circulation/return.
type Request struct {
	UserID  int64   `json:"user_id"`
	BookIDs []int64 `json:"book_ids"`
}

func succeeded(message string) Outcome {
	return Outcome{Success: true, Message: message, Code: CodeOK}
}

func failed(code, message string) Outcome {
	return Outcome{Success: false, Message: message, Code: code}
}
