package tui

import (
	"strings"
	"testing"
)

func TestWordGlyphsCursor(t *testing.T) {
	gs := wordGlyphs([]rune("ink"), []rune("i"), 0, false)
	if len(gs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(gs))
	}
	if gs[0].s != correctStyle.Render("i") {
		t.Fatalf("expected correct style for the typed rune")
	}
	if gs[1].s != currentWordStyle.Underline(true).Render("n") {
		t.Fatalf("expected underlined rune at the cursor")
	}
	if gs[2].s != currentWordStyle.Render("k") {
		t.Fatalf("expected plain style past the cursor")
	}
}

func TestWordGlyphsIntensity(t *testing.T) {
	cold := wordGlyphs([]rune("ink"), []rune("in"), hotIntensity-0.01, false)
	hot := wordGlyphs([]rune("ink"), []rune("in"), hotIntensity, false)
	if cold[1].s != correctStyle.Render("n") {
		t.Fatalf("expected correct style below the hot threshold")
	}
	if hot[1].s != hotStyle.Render("n") {
		t.Fatalf("expected hot style at the threshold")
	}
}

func TestWordGlyphsMistypes(t *testing.T) {
	gs := wordGlyphs([]rune("ink"), []rune("ix"), 0, true)
	if gs[1].s != incorrectStyle.Reverse(true).Render("n") {
		t.Fatalf("expected flashed incorrect style on the last typed rune")
	}
	blank := wordGlyphs([]rune("a\u200bb"), []rune("ax"), 0, false)
	if blank[1].s != incorrectStyle.Render(string(mistypedBlank)) || blank[1].width != 1 {
		t.Fatalf("expected a visible mark for a mistyped zero-width rune, got %+v", blank[1])
	}
}

func TestWrapGlyphsBreaksByWidth(t *testing.T) {
	gs := wordGlyphs([]rune("inkwell"), nil, 0, false)
	lines := strings.Split(wrapGlyphs(gs, 3), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	if got := strings.Split(wrapGlyphs(gs, 0), "\n"); len(got) != 1 {
		t.Fatalf("zero width must not wrap, got %q", got)
	}
}

func TestWrapGlyphsWideRunes(t *testing.T) {
	gs := wordGlyphs([]rune("墨水笔"), nil, 0, false)
	if gs[0].width != 2 {
		t.Fatalf("expected double-width glyph, got %d", gs[0].width)
	}
	lines := strings.Split(wrapGlyphs(gs, 5), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for 6 cells at width 5, got %q", lines)
	}
}
