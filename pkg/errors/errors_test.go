package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelUnwrapping(t *testing.T) {
	err := Newf(ErrInvalidQuery, "word %q is malformed", "--alpha")
	if !errors.Is(err, ErrInvalidQuery) {
		t.Error("errors.Is does not see the wrapped sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is matched the wrong sentinel")
	}
	wrapped := fmt.Errorf("handling request: %w", err)
	if !errors.Is(wrapped, ErrInvalidQuery) {
		t.Error("sentinel lost through an extra fmt.Errorf wrap")
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(ErrNotFound, "document id 42")
	want := "not found: document id 42"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Newf(ErrInvalidArgument, "negative id"), http.StatusBadRequest},
		{Newf(ErrInvalidQuery, "bare minus"), http.StatusBadRequest},
		{Newf(ErrNotFound, "document id 42"), http.StatusNotFound},
		{Newf(ErrOutOfRange, "position 9"), http.StatusNotFound},
		{Newf(ErrInternal, "invariant violated"), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatusCode(tt.err); got != tt.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
