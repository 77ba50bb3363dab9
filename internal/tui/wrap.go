package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// hotIntensity is the keystroke intensity at which typed runes glow.
const hotIntensity = 0.75

const mistypedBlank = '•'

// glyph is one rendered rune of the combat word.
type glyph struct {
	s     string
	width int
}

// wordGlyphs styles the target word against what has been typed so far.
// The rune under the cursor is underlined; the last typed rune is reversed
// when flash is set.
func wordGlyphs(target, typed []rune, intensity float64, flash bool) []glyph {
	out := make([]glyph, 0, len(target))
	for i, want := range target {
		shown := want
		var style lipgloss.Style
		switch {
		case i < len(typed) && typed[i] == want && intensity >= hotIntensity:
			style = hotStyle
		case i < len(typed) && typed[i] == want:
			style = correctStyle
		case i < len(typed):
			style = incorrectStyle
			if runewidth.RuneWidth(want) == 0 || want == ' ' {
				shown = mistypedBlank
			}
		default:
			style = currentWordStyle
		}
		if flash && i == len(typed)-1 {
			style = style.Reverse(true)
		}
		if i == len(typed) {
			style = style.Underline(true)
		}
		w := runewidth.RuneWidth(shown)
		if w == 0 {
			w = 1
		}
		out = append(out, glyph{s: style.Render(string(shown)), width: w})
	}
	return out
}

// wrapGlyphs breaks the word into lines no wider than width cells.
func wrapGlyphs(gs []glyph, width int) string {
	var b strings.Builder
	used := 0
	for _, g := range gs {
		if width > 0 && used > 0 && used+g.width > width {
			b.WriteByte('\n')
			used = 0
		}
		b.WriteString(g.s)
		used += g.width
	}
	return b.String()
}
