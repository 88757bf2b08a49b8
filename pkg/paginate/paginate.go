// Package paginate splits an ordered slice into consecutive fixed-size
// chunks. The last page may be shorter. Pages are contiguous subslices of the
// input; no copying takes place.
package paginate

import (
	"iter"

	pkgerrors "github.com/avelichko/searchcore/pkg/errors"
)

// Paginator is a stateless view over a slice. Iterating Pages is lazy and
// restartable: re-iterating yields the same pages again.
type Paginator[T any] struct {
	items    []T
	pageSize int
}

// New creates a Paginator over items. pageSize must be at least 1.
func New[T any](items []T, pageSize int) (*Paginator[T], error) {
	if pageSize < 1 {
		return nil, pkgerrors.Newf(pkgerrors.ErrInvalidArgument, "page size must be >= 1, got %d", pageSize)
	}
	return &Paginator[T]{items: items, pageSize: pageSize}, nil
}

// PageCount returns ceil(len(items) / pageSize).
func (p *Paginator[T]) PageCount() int {
	n := len(p.items)
	if n%p.pageSize != 0 {
		return n/p.pageSize + 1
	}
	return n / p.pageSize
}

// PageSize returns the configured page size.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// Page returns the i-th page (0-based).
func (p *Paginator[T]) Page(i int) ([]T, error) {
	if i < 0 || i >= p.PageCount() {
		return nil, pkgerrors.Newf(pkgerrors.ErrOutOfRange, "page %d of %d", i, p.PageCount())
	}
	start := i * p.pageSize
	end := min(start+p.pageSize, len(p.items))
	return p.items[start:end], nil
}

// Pages returns a sequence of all pages in input order.
func (p *Paginator[T]) Pages() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for start := 0; start < len(p.items); start += p.pageSize {
			end := min(start+p.pageSize, len(p.items))
			if !yield(p.items[start:end]) {
				return
			}
		}
	}
}
