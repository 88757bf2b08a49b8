// Package store owns document identity: per-document metadata (rating,
// status) and the insertion-order sequence used for positional lookup.
//
// The id-keyed map and the order slice are two views of one collection; both
// are mutated only inside Add and Remove so they cannot drift apart.
package store

import (
	"github.com/avelichko/searchcore/internal/engine/document"
	pkgerrors "github.com/avelichko/searchcore/pkg/errors"
)

// Store holds live document metadata.
type Store struct {
	docs  map[int]document.Metadata
	order []int
}

// New creates an empty Store.
func New() *Store {
	return &Store{docs: make(map[int]document.Metadata)}
}

// Add registers a document. The rating is the integer-truncated mean of
// ratings, 0 when none are supplied. Negative and duplicate ids are rejected.
func (s *Store) Add(id int, ratings []int, status document.Status) error {
	if id < 0 {
		return pkgerrors.Newf(pkgerrors.ErrInvalidArgument, "document id must not be negative, got %d", id)
	}
	if _, exists := s.docs[id]; exists {
		return pkgerrors.Newf(pkgerrors.ErrInvalidArgument, "document id %d already exists", id)
	}
	s.docs[id] = document.Metadata{
		Rating: averageRating(ratings),
		Status: status,
	}
	s.order = append(s.order, id)
	return nil
}

// Count returns the number of live documents.
func (s *Store) Count() int {
	return len(s.docs)
}

// Get returns the metadata for id.
func (s *Store) Get(id int) (document.Metadata, bool) {
	meta, ok := s.docs[id]
	return meta, ok
}

// IDAt returns the id of the document at the given insertion position.
func (s *Store) IDAt(position int) (int, error) {
	if position < 0 || position >= len(s.order) {
		return 0, pkgerrors.Newf(pkgerrors.ErrOutOfRange, "position %d outside [0, %d)", position, len(s.order))
	}
	return s.order[position], nil
}

// IDs returns a copy of the insertion-order sequence.
func (s *Store) IDs() []int {
	ids := make([]int, len(s.order))
	copy(ids, s.order)
	return ids
}

// Remove deletes the metadata and insertion-order entry for id.
func (s *Store) Remove(id int) error {
	if _, ok := s.docs[id]; !ok {
		return pkgerrors.Newf(pkgerrors.ErrNotFound, "document id %d", id)
	}
	delete(s.docs, id)
	for i, docID := range s.order {
		if docID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// averageRating truncates toward zero, matching integer division.
func averageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
