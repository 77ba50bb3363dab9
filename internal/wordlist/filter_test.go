package wordlist

import (
	"reflect"
	"strings"
	"testing"
)

func TestLetters(t *testing.T) {
	if !Letters("hello") {
		t.Fatalf("expected hello to pass")
	}
	for _, word := range []string{"", "résumé", "naïve", "don’t", "co-op", "Hello"} {
		if Letters(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestTypeable(t *testing.T) {
	for _, word := range []string{"résumé", "co-op", "don’t"} {
		if !Typeable(word) {
			t.Fatalf("expected %q to be typeable", word)
		}
	}
	for _, word := range []string{"", "two words", "tab\there", "bell\a", strings.Repeat("x", MaxWordRunes+1)} {
		if Typeable(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestClean(t *testing.T) {
	got := Clean([]string{"Quill", "ink", " quill ", "two words", "Ink", "rune"}, Typeable)
	want := []string{"quill", "ink", "rune"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clean = %v, want %v", got, want)
	}
}

func TestBanksAreLetters(t *testing.T) {
	banks, err := Banks()
	if err != nil {
		t.Fatalf("banks: %v", err)
	}
	for name, words := range banks {
		if got := Clean(words, Letters); len(got) == 0 {
			t.Fatalf("bank %s has no plain words", name)
		}
	}
}
