package wordlist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxWordRunes bounds the length of a typeable word.
const MaxWordRunes = 24

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// Typeable accepts words made of printable, non-space runes.
func Typeable(word string) bool {
	if word == "" || utf8.RuneCountInString(word) > MaxWordRunes {
		return false
	}
	for _, r := range word {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// Letters accepts lowercase ASCII words, the shape of the embedded banks.
func Letters(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// Clean lowercases words, drops the ones keep rejects and removes duplicates.
// Order of first appearance is kept.
func Clean(words []string, keep FilterFunc) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !keep(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
