// Package errors defines the typed error taxonomy shared by the engine and
// the HTTP layer, plus the mapping from sentinel errors to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument covers negative or duplicate document ids, malformed
	// stop words, and document text containing control characters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidQuery covers malformed plus/minus query syntax: a bare "-",
	// a doubled "--word", an empty word after prefix stripping, or control
	// characters in a query word.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound is returned for lookups of document ids that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange is returned for positional lookups outside current bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrInternal marks invariant-violating internal states. These are
	// defects, not user errors.
	ErrInternal = errors.New("internal error")
)

// AppError pairs a sentinel with a human-readable message.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel with a message.
func New(sentinel error, message string) *AppError {
	return &AppError{Err: sentinel, Message: message}
}

// Newf wraps a sentinel with a formatted message.
func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{Err: sentinel, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatusCode maps an error to the HTTP status the API should respond with.
func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
