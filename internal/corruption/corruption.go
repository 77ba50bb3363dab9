// Package corruption mutates the text the player must type. It never touches
// combat numbers.
package corruption

import (
	"math/rand"
	"strings"
	"unicode"
)

// Kind is the closed set of corruption effects.
type Kind int

const (
	None Kind = iota
	LetterEcho
	SpaceSubstitution
	CharacterScatter
	VowelFade
)

// Kinds lists every active effect, in a stable order.
var Kinds = []Kind{LetterEcho, SpaceSubstitution, CharacterScatter, VowelFade}

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LetterEcho:
		return "letter-echo"
	case SpaceSubstitution:
		return "space-substitution"
	case CharacterScatter:
		return "character-scatter"
	case VowelFade:
		return "vowel-fade"
	default:
		return "unknown"
	}
}

// ParseKind maps a name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for _, k := range append([]Kind{None}, Kinds...) {
		if k.String() == name {
			return k, true
		}
	}
	return None, false
}

// Effect is the active corruption and its strength. Level 0 disables it.
type Effect struct {
	Kind  Kind
	Level int
}

// Active reports whether the effect changes anything.
func (e Effect) Active() bool {
	return e.Kind != None && e.Level > 0
}

// Chance is the per-rune mutation probability for the effect level.
func (e Effect) Chance() float64 {
	if !e.Active() {
		return 0
	}
	p := 0.10 + 0.08*float64(e.Level)
	if p > 0.6 {
		p = 0.6
	}
	return p
}

// SpaceGlyph replaces spaces under SpaceSubstitution.
const SpaceGlyph = '_'

// Apply returns text mutated by the effect. The result is never empty when text is not.
func Apply(rng *rand.Rand, text string, e Effect) string {
	if !e.Active() || text == "" {
		return text
	}
	switch e.Kind {
	case LetterEcho:
		return echo(rng, text, e.Chance())
	case SpaceSubstitution:
		return substituteSpaces(rng, text, e.Chance())
	case CharacterScatter:
		return scatter(rng, text, e.Chance())
	case VowelFade:
		return fade(rng, text, e.Chance())
	case None:
		return text
	default:
		return text
	}
}

func echo(rng *rand.Rand, text string, p float64) string {
	var b strings.Builder
	echoed := false
	for _, r := range text {
		b.WriteRune(r)
		if unicode.IsLetter(r) && !echoed && rng.Float64() < p {
			b.WriteRune(r)
			echoed = true
		}
	}
	return b.String()
}

func substituteSpaces(rng *rand.Rand, text string, p float64) string {
	if !strings.ContainsRune(text, ' ') {
		// single words get a trailing glyph so the effect is still felt
		if rng.Float64() < p {
			return text + string(SpaceGlyph)
		}
		return text
	}
	runes := []rune(text)
	for i, r := range runes {
		if r == ' ' {
			runes[i] = SpaceGlyph
		}
	}
	return string(runes)
}

func scatter(rng *rand.Rand, text string, p float64) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		runes := []rune(w)
		if len(runes) < 4 || rng.Float64() >= p*2 {
			continue
		}
		inner := runes[1 : len(runes)-1]
		rng.Shuffle(len(inner), func(a, b int) { inner[a], inner[b] = inner[b], inner[a] })
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func fade(rng *rand.Rand, text string, p float64) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if i > 0 && isVowel(r) && rng.Float64() < p {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return text
	}
	return string(out)
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
