package corruption

import (
	"math/rand"
	"strings"
	"testing"
)

func TestApplyInactive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := Apply(rng, "spark", Effect{}); got != "spark" {
		t.Fatalf("inactive effect changed text: %q", got)
	}
	if got := Apply(rng, "spark", Effect{Kind: VowelFade}); got != "spark" {
		t.Fatalf("level 0 effect changed text: %q", got)
	}
}

func TestSpaceSubstitution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := Apply(rng, "the ink remembers", Effect{Kind: SpaceSubstitution, Level: 1})
	if strings.ContainsRune(got, ' ') {
		t.Fatalf("expected spaces replaced, got %q", got)
	}
	if got != "the_ink_remembers" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestVowelFadeKeepsFirstRune(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		got := Apply(rng, "aeiou", Effect{Kind: VowelFade, Level: 10})
		if got == "" || got[0] != 'a' {
			t.Fatalf("fade must keep the first rune, got %q", got)
		}
	}
}

func TestScatterPreservesLetters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		got := Apply(rng, "lantern", Effect{Kind: CharacterScatter, Level: 5})
		if len(got) != len("lantern") || got[0] != 'l' || got[len(got)-1] != 'n' {
			t.Fatalf("scatter must keep length and word edges, got %q", got)
		}
	}
}

func TestEchoAddsAtMostOneRune(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		got := Apply(rng, "glyph", Effect{Kind: LetterEcho, Level: 10})
		if n := len(got) - len("glyph"); n < 0 || n > 1 {
			t.Fatalf("unexpected echo result %q", got)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("round trip failed for %v", k)
		}
	}
	if _, ok := ParseKind("bogus"); ok {
		t.Fatalf("expected unknown kind to fail")
	}
}
