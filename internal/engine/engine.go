// Package engine implements the document indexing and ranking core: document
// ingestion, TF-IDF relevance ranking with plus/minus word semantics, exact
// match explanation, and duplicate elimination.
//
// A Server exclusively owns its document store and inverted index. Mutating
// operations take the write lock; queries run concurrently under the read
// lock and never modify index state.
package engine

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/avelichko/searchcore/internal/engine/document"
	"github.com/avelichko/searchcore/internal/engine/index"
	"github.com/avelichko/searchcore/internal/engine/store"
	"github.com/avelichko/searchcore/internal/engine/tokenizer"
	"github.com/avelichko/searchcore/pkg/config"
	pkgerrors "github.com/avelichko/searchcore/pkg/errors"
)

const (
	// MaxResultDocuments caps every ranked result list.
	MaxResultDocuments = 5
	// relevanceEpsilon is the tie threshold: relevance values closer than
	// this are ordered by rating instead.
	relevanceEpsilon = 1e-6
)

// Predicate decides whether a document participates in ranking. Minus words
// veto documents unconditionally, after the predicate has been applied to
// plus-word accumulation.
type Predicate func(id int, status document.Status, rating int) bool

// Server is the query engine. It owns the document store and inverted index.
type Server struct {
	mu        sync.RWMutex
	stopWords map[string]struct{}
	store     *store.Store
	index     *index.Index
	logger    *slog.Logger
}

// New creates a Server with the configured stop words. Stop words containing
// control characters are rejected.
func New(cfg config.EngineConfig) (*Server, error) {
	stopWords := make(map[string]struct{}, len(cfg.StopWords))
	for _, word := range cfg.StopWords {
		if !isValidWord(word) {
			return nil, pkgerrors.Newf(pkgerrors.ErrInvalidArgument, "stop word %q contains control characters", word)
		}
		stopWords[word] = struct{}{}
	}
	return &Server{
		stopWords: stopWords,
		store:     store.New(),
		index:     index.New(),
		logger:    slog.Default().With("component", "engine"),
	}, nil
}

// AddDocument tokenizes, validates, and indexes one document. Validation is
// complete before any state changes: a rejected document leaves no partial
// postings behind. A body that is entirely stop words is stored with no
// postings and remains findable only through non-word operations.
func (s *Server) AddDocument(id int, text string, status document.Status, ratings []int) error {
	words, err := s.splitIntoWordsNoStop(text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Add(id, ratings, status); err != nil {
		return err
	}
	s.index.Add(id, words)
	s.logger.Debug("document indexed", "doc_id", id, "words", len(words), "status", status.String())
	return nil
}

// splitIntoWordsNoStop tokenizes text, rejects words with control characters,
// and drops stop words.
func (s *Server) splitIntoWordsNoStop(text string) ([]string, error) {
	tokens := tokenizer.SplitIntoWords(text)
	words := make([]string, 0, len(tokens))
	for _, word := range tokens {
		if !isValidWord(word) {
			return nil, pkgerrors.Newf(pkgerrors.ErrInvalidArgument, "document word %q contains control characters", word)
		}
		if _, stop := s.stopWords[word]; stop {
			continue
		}
		words = append(words, word)
	}
	return words, nil
}

// FindTopDocuments ranks documents with status ACTUAL.
func (s *Server) FindTopDocuments(rawQuery string) ([]document.Scored, error) {
	return s.FindTopDocumentsByStatus(rawQuery, document.StatusActual)
}

// FindTopDocumentsByStatus ranks documents whose status equals status.
func (s *Server) FindTopDocumentsByStatus(rawQuery string, status document.Status) ([]document.Scored, error) {
	return s.FindTopDocumentsFunc(rawQuery, func(_ int, docStatus document.Status, _ int) bool {
		return docStatus == status
	})
}

// FindTopDocumentsFunc ranks documents matching the parsed query and the
// caller-supplied predicate. Relevance is the sum over plus words of
// termFrequency * ln(totalDocuments/documentFrequency). Plus words absent
// from the index contribute nothing and are never used for IDF. Minus words
// remove their documents unconditionally, regardless of the predicate.
// Results are sorted by relevance descending, ties (within 1e-6) by rating
// descending, then id ascending, and capped at MaxResultDocuments.
func (s *Server) FindTopDocumentsFunc(rawQuery string, predicate Predicate) ([]document.Scored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, err := s.parseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	relevance := make(map[int]float64)
	total := s.store.Count()
	for word := range query.plus {
		df := s.index.DocumentFrequency(word)
		if df == 0 {
			continue
		}
		idf := math.Log(float64(total) / float64(df))
		s.index.ForEachPosting(word, func(id int, termFreq float64) {
			meta, ok := s.store.Get(id)
			if !ok {
				return
			}
			if predicate(id, meta.Status, meta.Rating) {
				relevance[id] += termFreq * idf
			}
		})
	}
	for word := range query.minus {
		s.index.ForEachPosting(word, func(id int, _ float64) {
			delete(relevance, id)
		})
	}

	results := make([]document.Scored, 0, len(relevance))
	for id, rel := range relevance {
		meta, _ := s.store.Get(id)
		results = append(results, document.Scored{ID: id, Relevance: rel, Rating: meta.Rating})
	}
	sort.Slice(results, func(i, j int) bool {
		if math.Abs(results[i].Relevance-results[j].Relevance) < relevanceEpsilon {
			if results[i].Rating != results[j].Rating {
				return results[i].Rating > results[j].Rating
			}
			return results[i].ID < results[j].ID
		}
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > MaxResultDocuments {
		results = results[:MaxResultDocuments]
	}
	return results, nil
}

// MatchDocument reports which plus words of the query appear in the given
// document, in lexicographic order. A single minus-word hit vetoes the whole
// list: the result is empty, never partial.
func (s *Server) MatchDocument(rawQuery string, id int) ([]string, document.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.store.Get(id)
	if !ok {
		return nil, document.StatusActual, pkgerrors.Newf(pkgerrors.ErrNotFound, "document id %d", id)
	}
	query, err := s.parseQuery(rawQuery)
	if err != nil {
		return nil, document.StatusActual, err
	}

	for word := range query.minus {
		if s.index.Contains(word, id) {
			return []string{}, meta.Status, nil
		}
	}
	matched := make([]string, 0, len(query.plus))
	for word := range query.plus {
		if s.index.Contains(word, id) {
			matched = append(matched, word)
		}
	}
	sort.Strings(matched)
	return matched, meta.Status, nil
}

// DocumentCount returns the number of live documents.
func (s *Server) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Count()
}

// DocumentID returns the id of the document at the given insertion position.
func (s *Server) DocumentID(position int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.IDAt(position)
}

// DocumentIDs returns all live document ids in insertion order.
func (s *Server) DocumentIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.IDs()
}

// WordFrequencies returns the word→termFrequency mapping of one document,
// empty for an unknown id.
func (s *Server) WordFrequencies(id int) map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.WordFrequencies(id)
}

// RemoveDocument atomically strips a document's postings from the index and
// its entry from the store.
func (s *Server) RemoveDocument(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Server) removeLocked(id int) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.index.Remove(id)
	s.logger.Debug("document removed", "doc_id", id)
	return nil
}
