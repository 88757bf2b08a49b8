package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/avelichko/searchcore/internal/engine/document"
	pkgerrors "github.com/avelichko/searchcore/pkg/errors"
)

func mustAdd(t *testing.T, srv *Server, id int, text string, status document.Status, ratings ...int) {
	t.Helper()
	if err := srv.AddDocument(id, text, status, ratings); err != nil {
		t.Fatalf("AddDocument(%d, %q) failed: %v", id, text, err)
	}
}

func TestAddedDocumentIsFindable(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "huge flying green cat", document.StatusActual)

	results, err := srv.FindTopDocuments("huge")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ID != 1 || results[0].Rating != 0 {
		t.Errorf("result = %+v, want id 1 rating 0", results[0])
	}
}

func TestSelfExcludingQuery(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "huge flying green cat", document.StatusActual)

	results, err := srv.FindTopDocuments("huge -huge")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestMinusWordVetoesDespiteMultiplePlusHits(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "huge flying green cat", document.StatusActual)
	mustAdd(t, srv, 2, "huge flying dog", document.StatusActual)

	results, err := srv.FindTopDocuments("huge flying -cat")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 2 {
		t.Fatalf("results = %+v, want only id 2", results)
	}
}

func TestRelevanceComputation(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "cat dog bird", document.StatusActual)
	mustAdd(t, srv, 2, "cat cat fish", document.StatusActual)
	mustAdd(t, srv, 3, "owl crow raven", document.StatusActual)

	results, err := srv.FindTopDocuments("cat fish")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}

	// cat appears in 2 of 3 documents, fish in 1 of 3.
	catIDF := math.Log(3.0 / 2.0)
	fishIDF := math.Log(3.0)
	want := []document.Scored{
		{ID: 2, Relevance: (2.0/3.0)*catIDF + (1.0/3.0)*fishIDF},
		{ID: 1, Relevance: (1.0 / 3.0) * catIDF},
	}
	if diff := cmp.Diff(want, results, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRelevanceOrderingAndRatingTieBreak(t *testing.T) {
	srv := newTestServer(t)
	// Identical texts: identical relevance, ordered by rating descending.
	mustAdd(t, srv, 10, "night city lights", document.StatusActual, 5)
	mustAdd(t, srv, 20, "night city lights", document.StatusActual, 9)
	mustAdd(t, srv, 30, "night city lights", document.StatusActual, 1)

	results, err := srv.FindTopDocuments("night")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	var ids []int
	for i, r := range results {
		ids = append(ids, r.ID)
		if i > 0 && results[i-1].Relevance < r.Relevance-1e-6 {
			t.Errorf("relevance increased between positions %d and %d", i-1, i)
		}
	}
	if diff := cmp.Diff([]int{20, 10, 30}, ids); diff != "" {
		t.Errorf("rating tie-break order mismatch (-want +got):\n%s", diff)
	}
}

func TestResultCap(t *testing.T) {
	srv := newTestServer(t)
	for id := 0; id < 12; id++ {
		mustAdd(t, srv, id, "shared word", document.StatusActual, id)
	}
	results, err := srv.FindTopDocuments("shared")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != MaxResultDocuments {
		t.Errorf("got %d results, want %d", len(results), MaxResultDocuments)
	}
}

func TestStatusFiltering(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "cat", document.StatusActual)
	mustAdd(t, srv, 2, "cat", document.StatusBanned)
	mustAdd(t, srv, 3, "cat", document.StatusIrrelevant)

	results, err := srv.FindTopDocuments("cat")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("default query results = %+v, want only ACTUAL id 1", results)
	}

	banned, err := srv.FindTopDocumentsByStatus("cat", document.StatusBanned)
	if err != nil {
		t.Fatalf("FindTopDocumentsByStatus failed: %v", err)
	}
	if len(banned) != 1 || banned[0].ID != 2 {
		t.Errorf("BANNED query results = %+v, want only id 2", banned)
	}
}

func TestPredicateFiltering(t *testing.T) {
	srv := newTestServer(t)
	for id := 0; id < 6; id++ {
		mustAdd(t, srv, id, "cat", document.StatusActual)
	}
	results, err := srv.FindTopDocumentsFunc("cat", func(id int, _ document.Status, _ int) bool {
		return id%2 == 0
	})
	if err != nil {
		t.Fatalf("FindTopDocumentsFunc failed: %v", err)
	}
	var ids []int
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]int{0, 2, 4}, ids); diff != "" {
		t.Errorf("predicate-filtered ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMinusWordVetoIgnoresPredicate(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "cat dog", document.StatusActual)
	mustAdd(t, srv, 2, "cat", document.StatusActual)

	// The predicate accepts both documents; the minus word must still remove
	// id 1 unconditionally.
	results, err := srv.FindTopDocumentsFunc("cat -dog", func(int, document.Status, int) bool {
		return true
	})
	if err != nil {
		t.Fatalf("FindTopDocumentsFunc failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 2 {
		t.Errorf("results = %+v, want only id 2", results)
	}
}

func TestStopWordsNeverContributeToRelevance(t *testing.T) {
	srv := newTestServer(t, "the", "and")
	mustAdd(t, srv, 1, "the and", document.StatusActual)

	if srv.DocumentCount() != 1 {
		t.Fatalf("DocumentCount() = %d, want 1", srv.DocumentCount())
	}
	if freqs := srv.WordFrequencies(1); len(freqs) != 0 {
		t.Errorf("WordFrequencies(1) = %v, want empty for stop-word-only body", freqs)
	}
	results, err := srv.FindTopDocuments("the")
	if err != nil {
		t.Fatalf("stop-word query failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("stop-word query returned %d results, want 0", len(results))
	}
}

func TestAddDocumentValidation(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.AddDocument(-1, "cat", document.StatusActual, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Errorf("AddDocument(-1) error = %v, want ErrInvalidArgument", err)
	}
	mustAdd(t, srv, 1, "cat", document.StatusActual)
	if err := srv.AddDocument(1, "dog", document.StatusActual, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Errorf("duplicate AddDocument error = %v, want ErrInvalidArgument", err)
	}
}

func TestRejectedDocumentLeavesNoPartialState(t *testing.T) {
	srv := newTestServer(t)
	err := srv.AddDocument(5, "good bad\x01word tail", document.StatusActual, nil)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("AddDocument with control character error = %v, want ErrInvalidArgument", err)
	}
	if srv.DocumentCount() != 0 {
		t.Errorf("DocumentCount() = %d after rejected add, want 0", srv.DocumentCount())
	}
	if freqs := srv.WordFrequencies(5); len(freqs) != 0 {
		t.Errorf("WordFrequencies(5) = %v after rejected add, want empty", freqs)
	}
	// None of the valid words may have leaked into the index either.
	results, err := srv.FindTopDocuments("good")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("query found %d results after rejected add, want 0", len(results))
	}
}

func TestInvalidQuerySurfaces(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "cat", document.StatusActual)
	for _, query := range []string{"--alpha", "-", "cat -"} {
		if _, err := srv.FindTopDocuments(query); !errors.Is(err, pkgerrors.ErrInvalidQuery) {
			t.Errorf("FindTopDocuments(%q) error = %v, want ErrInvalidQuery", query, err)
		}
	}
}

func TestMatchDocument(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "huge flying green cat", document.StatusBanned)

	words, status, err := srv.MatchDocument("green unknown flying", 1)
	if err != nil {
		t.Fatalf("MatchDocument failed: %v", err)
	}
	if diff := cmp.Diff([]string{"flying", "green"}, words); diff != "" {
		t.Errorf("matched words mismatch (-want +got):\n%s", diff)
	}
	if status != document.StatusBanned {
		t.Errorf("status = %v, want BANNED", status)
	}
}

func TestMatchDocumentMinusVetoesWholeList(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "huge flying green cat", document.StatusActual)

	words, _, err := srv.MatchDocument("huge flying green -cat", 1)
	if err != nil {
		t.Fatalf("MatchDocument failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("matched words = %v, want empty list on minus hit", words)
	}
}

func TestMatchDocumentUnknownID(t *testing.T) {
	srv := newTestServer(t)
	_, _, err := srv.MatchDocument("cat", 404)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("MatchDocument(404) error = %v, want ErrNotFound", err)
	}
}

func TestDocumentIDPositionalLookup(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 42, "cat", document.StatusActual)
	mustAdd(t, srv, 7, "dog", document.StatusActual)

	id, err := srv.DocumentID(1)
	if err != nil {
		t.Fatalf("DocumentID(1) failed: %v", err)
	}
	if id != 7 {
		t.Errorf("DocumentID(1) = %d, want 7", id)
	}
	if _, err := srv.DocumentID(2); !errors.Is(err, pkgerrors.ErrOutOfRange) {
		t.Errorf("DocumentID(2) error = %v, want ErrOutOfRange", err)
	}
}

func TestRemoveDocument(t *testing.T) {
	srv := newTestServer(t)
	mustAdd(t, srv, 1, "huge cat", document.StatusActual)
	mustAdd(t, srv, 2, "huge dog", document.StatusActual)

	if err := srv.RemoveDocument(1); err != nil {
		t.Fatalf("RemoveDocument failed: %v", err)
	}
	if srv.DocumentCount() != 1 {
		t.Errorf("DocumentCount() = %d, want 1", srv.DocumentCount())
	}
	if freqs := srv.WordFrequencies(1); len(freqs) != 0 {
		t.Errorf("WordFrequencies(1) = %v after removal, want empty", freqs)
	}
	results, err := srv.FindTopDocuments("huge")
	if err != nil {
		t.Fatalf("FindTopDocuments failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 2 {
		t.Errorf("results after removal = %+v, want only id 2", results)
	}
	if err := srv.RemoveDocument(1); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("second RemoveDocument error = %v, want ErrNotFound", err)
	}
}

func TestConcurrentQueries(t *testing.T) {
	srv := newTestServer(t)
	for id := 0; id < 50; id++ {
		mustAdd(t, srv, id, fmt.Sprintf("word%d shared", id%7), document.StatusActual)
	}
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				if _, err := srv.FindTopDocuments("shared"); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent query failed: %v", err)
		}
	}
}
