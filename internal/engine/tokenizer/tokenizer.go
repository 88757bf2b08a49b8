// Package tokenizer splits raw text into whitespace-delimited tokens. There
// is no normalization, case folding, or punctuation handling: tokens are
// case-sensitive and carried through to the index as-is.
package tokenizer

import "strings"

// SplitIntoWords returns the whitespace-delimited tokens of text, in order.
// Runs of whitespace produce no empty tokens.
func SplitIntoWords(text string) []string {
	return strings.Fields(text)
}
