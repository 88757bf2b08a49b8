package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSplitIntoWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "simple", text: "huge flying green cat", want: []string{"huge", "flying", "green", "cat"}},
		{name: "repeated whitespace", text: "  huge \t cat \n", want: []string{"huge", "cat"}},
		{name: "case preserved", text: "Cat cat CAT", want: []string{"Cat", "cat", "CAT"}},
		{name: "punctuation kept", text: "cat, dog.", want: []string{"cat,", "dog."}},
		{name: "empty", text: "", want: nil},
		{name: "only whitespace", text: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIntoWords(tt.text)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("SplitIntoWords(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}
