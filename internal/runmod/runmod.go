// Package runmod turns a difficulty preset and challenge modifiers into run scaling.
package runmod

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/inkbound/internal/modifier"
)

// HeatRewardBonus is the reward gained per point of heat.
const HeatRewardBonus = 0.05

// Preset is a base difficulty.
type Preset struct {
	Name        string
	EnemyHealth float64
	EnemyDamage float64
	Heat        int
}

// Challenge is an opt-in modifier that raises heat.
type Challenge struct {
	ID          string
	Description string
	Heat        int
	Effect      modifier.RunModifier
}

var presets = map[string]Preset{
	"easy":      {Name: "easy", EnemyHealth: 0.75, EnemyDamage: 0.75, Heat: 0},
	"normal":    {Name: "normal", EnemyHealth: 1, EnemyDamage: 1, Heat: 0},
	"hard":      {Name: "hard", EnemyHealth: 1.25, EnemyDamage: 1.25, Heat: 3},
	"nightmare": {Name: "nightmare", EnemyHealth: 1.5, EnemyDamage: 1.5, Heat: 6},
	"hell":      {Name: "hell", EnemyHealth: 2, EnemyDamage: 2, Heat: 10},
}

var challenges = map[string]Challenge{
	"tough_enemies":     {ID: "tough_enemies", Description: "enemies have 50% more HP", Heat: 2, Effect: modifier.EnemyHealthScale{Factor: 1.5}},
	"dangerous_enemies": {ID: "dangerous_enemies", Description: "enemies hit 50% harder", Heat: 2, Effect: modifier.EnemyDamageScale{Factor: 1.5}},
	"bloated_foes":      {ID: "bloated_foes", Description: "enemies have 25% more HP", Heat: 1, Effect: modifier.EnemyHealthScale{Factor: 1.25}},
	"sharp_quills":      {ID: "sharp_quills", Description: "enemies hit 25% harder", Heat: 1, Effect: modifier.EnemyDamageScale{Factor: 1.25}},
	"gold_drain":        {ID: "gold_drain", Description: "25% fewer rewards", Heat: 3, Effect: modifier.RewardScale{Factor: 0.75}},
}

// Selection is the player's choice before a run.
type Selection struct {
	Preset     string
	Challenges []string
}

// Build is the resolved selection.
type Build struct {
	Preset    Preset
	Heat      int
	Modifiers []modifier.RunModifier
}

// Resolve validates a selection and returns the modifiers it contributes.
// The reward multiplier 1 + heat*HeatRewardBonus is included as a RewardScale.
func Resolve(sel Selection) (Build, error) {
	name := strings.ToLower(strings.TrimSpace(sel.Preset))
	if name == "" {
		name = "normal"
	}
	p, ok := presets[name]
	if !ok {
		return Build{}, fmt.Errorf("unknown preset %q (want one of %s)", sel.Preset, strings.Join(PresetNames(), ", "))
	}
	b := Build{Preset: p, Heat: p.Heat}
	b.Modifiers = append(b.Modifiers,
		modifier.EnemyHealthScale{Factor: p.EnemyHealth},
		modifier.EnemyDamageScale{Factor: p.EnemyDamage},
	)
	seen := map[string]bool{}
	for _, id := range sel.Challenges {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		c, ok := challenges[id]
		if !ok {
			return Build{}, fmt.Errorf("unknown challenge %q", id)
		}
		b.Heat += c.Heat
		b.Modifiers = append(b.Modifiers, c.Effect)
	}
	b.Modifiers = append(b.Modifiers, modifier.RewardScale{Factor: 1 + float64(b.Heat)*HeatRewardBonus})
	return b, nil
}

// PresetNames lists presets alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Challenges lists challenges by id.
func Challenges() []Challenge {
	out := make([]Challenge, 0, len(challenges))
	for _, c := range challenges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
