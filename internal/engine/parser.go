package engine

import (
	"strings"
	"unicode"

	"github.com/avelichko/searchcore/internal/engine/tokenizer"
	pkgerrors "github.com/avelichko/searchcore/pkg/errors"
)

const minusPrefix = "-"

// parsedQuery holds the disjoint plus/minus word sets of one query. Stop
// words are dropped during parsing and never stored.
type parsedQuery struct {
	plus  map[string]struct{}
	minus map[string]struct{}
}

// parseQuery classifies every token of text as a plus word, a minus word, or
// a discarded stop word. Membership is deduplicated; frequency is not kept.
func (s *Server) parseQuery(text string) (parsedQuery, error) {
	q := parsedQuery{
		plus:  make(map[string]struct{}),
		minus: make(map[string]struct{}),
	}
	for _, token := range tokenizer.SplitIntoWords(text) {
		word, isMinus, err := parseQueryWord(token)
		if err != nil {
			return parsedQuery{}, err
		}
		if _, stop := s.stopWords[word]; stop {
			continue
		}
		if isMinus {
			q.minus[word] = struct{}{}
		} else {
			q.plus[word] = struct{}{}
		}
	}
	return q, nil
}

// parseQueryWord strips an optional single minus prefix and validates the
// remaining word. A bare "-", a doubled "--word", or control characters make
// the whole query invalid.
func parseQueryWord(token string) (word string, isMinus bool, err error) {
	word = token
	if strings.HasPrefix(word, minusPrefix) {
		isMinus = true
		word = word[len(minusPrefix):]
	}
	if word == "" || strings.HasPrefix(word, minusPrefix) {
		return "", false, pkgerrors.Newf(pkgerrors.ErrInvalidQuery, "malformed query word %q", token)
	}
	if !isValidWord(word) {
		return "", false, pkgerrors.Newf(pkgerrors.ErrInvalidQuery, "query word %q contains control characters", token)
	}
	return word, isMinus, nil
}

// isValidWord reports whether the word is free of control characters.
func isValidWord(word string) bool {
	for _, r := range word {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
