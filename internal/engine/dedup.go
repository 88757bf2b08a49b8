package engine

import (
	"sort"
	"strings"

	farmhash "github.com/leemcloughlin/gofarmhash"
)

// RemoveDuplicates removes every document whose vocabulary (word set,
// ignoring term frequencies, rating, and status) duplicates an earlier
// document's vocabulary. The walk follows insertion order, so the
// earliest-added document of any duplicate group always survives. Returns the
// removed ids in scan order.
func (s *Server) RemoveDuplicates() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uint64]struct{})
	var duplicates []int
	for _, id := range s.store.IDs() {
		fp := s.vocabularyFingerprint(id)
		if _, ok := seen[fp]; ok {
			duplicates = append(duplicates, id)
			continue
		}
		seen[fp] = struct{}{}
	}

	for _, id := range duplicates {
		if err := s.removeLocked(id); err != nil {
			s.logger.Error("failed to remove duplicate", "doc_id", id, "error", err)
			continue
		}
		s.logger.Info("found duplicate document", "doc_id", id)
	}
	return duplicates
}

// vocabularyFingerprint hashes the sorted word set of one document.
func (s *Server) vocabularyFingerprint(id int) uint64 {
	words := s.index.Words(id)
	sort.Strings(words)
	return farmhash.Hash64([]byte(strings.Join(words, "\x00")))
}
