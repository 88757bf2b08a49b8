// Package index maintains the inverted index: word → document → term
// frequency. Postings are kept in skip lists keyed by document id, so every
// traversal sees documents in ascending-id order regardless of insertion
// sequence.
//
// A reverse mapping (document → word → frequency) is maintained alongside so
// that removing a document costs O(vocabulary of that document), not a scan
// of the whole index.
package index

import (
	"github.com/huandu/skiplist"
)

// Index is the word→document→termFrequency postings structure.
type Index struct {
	postings map[string]*skiplist.SkipList
	docWords map[int]map[string]float64
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		postings: make(map[string]*skiplist.SkipList),
		docWords: make(map[int]map[string]float64),
	}
}

// Add indexes the words of one document. Each occurrence contributes
// 1/len(words) to that word's term frequency, so a document's frequencies
// sum to 1.0. The caller passes the stop-word-filtered, validated word list;
// an empty list leaves the index untouched.
func (x *Index) Add(id int, words []string) {
	if len(words) == 0 {
		return
	}
	increment := 1.0 / float64(len(words))
	freqs := x.docWords[id]
	if freqs == nil {
		freqs = make(map[string]float64)
		x.docWords[id] = freqs
	}
	for _, word := range words {
		freqs[word] += increment

		list, ok := x.postings[word]
		if !ok {
			list = skiplist.New(skiplist.Int)
			x.postings[word] = list
		}
		list.Set(id, freqs[word])
	}
}

// DocumentFrequency returns the number of distinct documents containing word,
// 0 for an unseen word.
func (x *Index) DocumentFrequency(word string) int {
	list, ok := x.postings[word]
	if !ok {
		return 0
	}
	return list.Len()
}

// ForEachPosting calls fn for every (document id, term frequency) pair of
// word, in ascending document-id order.
func (x *Index) ForEachPosting(word string, fn func(id int, termFreq float64)) {
	list, ok := x.postings[word]
	if !ok {
		return
	}
	for el := list.Front(); el != nil; el = el.Next() {
		fn(el.Key().(int), el.Value.(float64))
	}
}

// Postings returns a copy of word's postings, empty for an unseen word.
func (x *Index) Postings(word string) map[int]float64 {
	result := make(map[int]float64)
	x.ForEachPosting(word, func(id int, tf float64) {
		result[id] = tf
	})
	return result
}

// Contains reports whether the given document contains word.
func (x *Index) Contains(word string, id int) bool {
	_, ok := x.docWords[id][word]
	return ok
}

// WordFrequencies returns a copy of the word→termFrequency mapping for one
// document. Unknown ids yield an empty map, not an error.
func (x *Index) WordFrequencies(id int) map[string]float64 {
	freqs := make(map[string]float64, len(x.docWords[id]))
	for word, tf := range x.docWords[id] {
		freqs[word] = tf
	}
	return freqs
}

// Words returns the distinct words of one document, unordered.
func (x *Index) Words(id int) []string {
	words := make([]string, 0, len(x.docWords[id]))
	for word := range x.docWords[id] {
		words = append(words, word)
	}
	return words
}

// Remove strips the document from every word's postings it participated in.
func (x *Index) Remove(id int) {
	for word := range x.docWords[id] {
		list, ok := x.postings[word]
		if !ok {
			continue
		}
		list.Remove(id)
		if list.Len() == 0 {
			delete(x.postings, word)
		}
	}
	delete(x.docWords, id)
}
