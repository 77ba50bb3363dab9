package generator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/corruption"
)

func testBanks() map[string][]string {
	return map[string][]string{
		"easy":   {"ink"},
		"medium": {"quill"},
		"hard":   {"manuscript"},
		"expert": {"transcendence"},
		"magic":  {"glyph"},
	}
}

func TestNextDrawsFromZoneAndTheme(t *testing.T) {
	p, err := New(rand.New(rand.NewSource(1)), testBanks(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	allowed := map[string]bool{"ink": true, "quill": true, "glyph": true}
	for i := 0; i < 100; i++ {
		w := p.Next(combat.WordRequest{Zone: 1, Theme: "magic"})
		if !allowed[w] {
			t.Fatalf("unexpected word %q for zone 1", w)
		}
	}
	for i := 0; i < 50; i++ {
		w := p.Next(combat.WordRequest{Zone: 9})
		if w != "manuscript" && w != "transcendence" {
			t.Fatalf("unexpected word %q for deep zone", w)
		}
	}
}

func TestBossGetsSentence(t *testing.T) {
	p, err := New(rand.New(rand.NewSource(2)), testBanks(), Options{SentenceWords: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := p.Next(combat.WordRequest{Zone: 2, Boss: true})
	if n := len(strings.Fields(got)); n != 4 {
		t.Fatalf("expected 4 words for a zone 2 boss, got %d (%q)", n, got)
	}
}

func TestCorruptionApplied(t *testing.T) {
	p, err := New(rand.New(rand.NewSource(3)), testBanks(), Options{SentenceWords: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := p.Next(combat.WordRequest{Zone: 1, Boss: true, Corruption: corruption.Effect{Kind: corruption.SpaceSubstitution, Level: 1}})
	if strings.Contains(got, " ") || !strings.Contains(got, "_") {
		t.Fatalf("expected spaces substituted, got %q", got)
	}
}

func TestWeightedPrefersWeakChars(t *testing.T) {
	banks := testBanks()
	banks["easy"] = []string{"zzz", "aaa"}
	banks["medium"] = []string{"aaa"}
	p, err := New(rand.New(rand.NewSource(4)), banks, Options{Weak: map[rune]struct{}{'z': {}}, WeakFactor: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits := 0
	for i := 0; i < 1000; i++ {
		if p.Next(combat.WordRequest{Zone: 1}) == "zzz" {
			hits++
		}
	}
	if hits < 800 {
		t.Fatalf("expected weak word to dominate, got %d/1000", hits)
	}
}

func TestMissingBank(t *testing.T) {
	if _, err := New(rand.New(rand.NewSource(1)), map[string][]string{"easy": {"a"}}, Options{}); err == nil {
		t.Fatalf("expected missing bank error")
	}
}
