// Package requests wraps query execution with a trailing-window metric of
// how many recent queries returned zero documents.
package requests

import (
	"sync"

	"github.com/avelichko/searchcore/internal/engine"
	"github.com/avelichko/searchcore/internal/engine/document"
)

// DefaultWindow is the number of most recent queries the metric covers.
const DefaultWindow = 1440

// Queue executes queries through an engine it never mutates and keeps an
// ordered log of result sizes, oldest first. The zero-result count is
// maintained incrementally, so reading it is O(1).
type Queue struct {
	engine *engine.Server

	mu        sync.Mutex
	window    int
	timeline  []int
	noResults int
}

// NewQueue creates a Queue over srv. A window below 1 falls back to
// DefaultWindow.
func NewQueue(srv *engine.Server, window int) *Queue {
	if window < 1 {
		window = DefaultWindow
	}
	return &Queue{engine: srv, window: window}
}

// AddFindRequest runs the default-status query and records its outcome.
func (q *Queue) AddFindRequest(rawQuery string) ([]document.Scored, error) {
	results, err := q.engine.FindTopDocuments(rawQuery)
	if err != nil {
		return nil, err
	}
	q.record(len(results))
	return results, nil
}

// AddFindRequestByStatus runs a status-filtered query and records its outcome.
func (q *Queue) AddFindRequestByStatus(rawQuery string, status document.Status) ([]document.Scored, error) {
	results, err := q.engine.FindTopDocumentsByStatus(rawQuery, status)
	if err != nil {
		return nil, err
	}
	q.record(len(results))
	return results, nil
}

// AddFindRequestFunc runs a predicate-filtered query and records its outcome.
func (q *Queue) AddFindRequestFunc(rawQuery string, predicate engine.Predicate) ([]document.Scored, error) {
	results, err := q.engine.FindTopDocumentsFunc(rawQuery, predicate)
	if err != nil {
		return nil, err
	}
	q.record(len(results))
	return results, nil
}

// NoResultRequests returns how many of the last window queries returned zero
// documents. Failed queries are not counted.
func (q *Queue) NoResultRequests() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.noResults
}

func (q *Queue) record(resultCount int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if resultCount == 0 {
		q.noResults++
	}
	q.timeline = append(q.timeline, resultCount)
	for len(q.timeline) > q.window {
		if q.timeline[0] == 0 {
			q.noResults--
		}
		q.timeline = q.timeline[1:]
	}
}
