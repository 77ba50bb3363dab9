// Package generator supplies the words typed in combat.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/corruption"
)

// Options shape generated text.
type Options struct {
	CapsPct       float64
	PunctPct      float64
	PunctSet      []rune
	Extra         []string
	Weak          map[rune]struct{}
	WeakFactor    float64
	SentenceWords int
}

// Provider picks words by zone and enemy theme and applies corruption.
type Provider struct {
	rnd   *rand.Rand
	banks map[string][]string
	opts  Options
}

var zoneTiers = map[int][]string{
	1: {"easy", "medium"},
	2: {"medium", "hard"},
	3: {"hard", "expert"},
}

// New returns a Provider drawing from banks.
func New(rnd *rand.Rand, banks map[string][]string, opts Options) (*Provider, error) {
	for _, tiers := range zoneTiers {
		for _, t := range tiers {
			if len(banks[t]) == 0 {
				return nil, fmt.Errorf("word bank %q is missing", t)
			}
		}
	}
	if opts.SentenceWords <= 0 {
		opts.SentenceWords = 4
	}
	return &Provider{rnd: rnd, banks: banks, opts: opts}, nil
}

// Next returns the next word, or a sentence for bosses.
func (p *Provider) Next(req combat.WordRequest) string {
	pool := p.pool(req.Zone, req.Theme)
	count := 1
	if req.Boss {
		count = p.opts.SentenceWords + req.Zone - 1
	}
	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := p.pick(pool)
		word = applyCaps(p.rnd, word, p.opts.CapsPct)
		word = applyPunct(p.rnd, word, p.opts.PunctPct, p.opts.PunctSet)
		words = append(words, word)
	}
	return corruption.Apply(p.rnd, strings.Join(words, " "), req.Corruption)
}

func (p *Provider) pool(zone int, theme string) []string {
	if zone < 1 {
		zone = 1
	}
	if zone > len(zoneTiers) {
		zone = len(zoneTiers)
	}
	var pool []string
	for _, t := range zoneTiers[zone] {
		pool = append(pool, p.banks[t]...)
	}
	pool = append(pool, p.banks[theme]...)
	pool = append(pool, p.opts.Extra...)
	return pool
}

// pick selects a word with a bias toward weak characters.
func (p *Provider) pick(words []string) string {
	if len(p.opts.Weak) == 0 || p.opts.WeakFactor <= 0 {
		return words[p.rnd.Intn(len(words))]
	}
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range word {
			if _, ok := p.opts.Weak[r]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*p.opts.WeakFactor
		weights[i] = w
		total += w
	}
	r := p.rnd.Float64() * total
	acc := 0.0
	for j, w := range weights {
		acc += w
		if r <= acc {
			return words[j]
		}
	}
	return words[len(words)-1]
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
