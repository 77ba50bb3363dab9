// Package modifier resolves skill, run and corruption inputs into the numbers
// combat uses. Resolve is pure: rolls happen in the combat resolver.
package modifier

import (
	"fmt"
	"math"

	"github.com/verte-zerg/inkbound/internal/corruption"
)

// DefaultReductionCeiling bounds damage reduction below 1.
const DefaultReductionCeiling = 0.9

// Base is the player snapshot the pipeline needs.
type Base struct {
	HP               int
	MaxHP            int
	ReductionCeiling float64
}

// Set is the resolved player modifier set.
type Set struct {
	DamageMultiplier float64
	CritChance       float64
	CritMultiplier   float64
	EvasionChance    float64
	DamageReduction  float64
	Transcendent     bool
}

// RunScaling holds difficulty scalars. Only enemy setup and reward code read it.
type RunScaling struct {
	EnemyHealth float64
	EnemyDamage float64
	Reward      float64
}

// Contradiction records a value pulled back into its valid range.
type Contradiction struct {
	Field   string
	Value   float64
	Clamped float64
}

func (c Contradiction) String() string {
	return fmt.Sprintf("%s %.4f clamped to %.4f", c.Field, c.Value, c.Clamped)
}

// Result is everything Resolve produces. Text is carried through untouched
// for the word provider.
type Result struct {
	Player         Set
	Run            RunScaling
	Text           corruption.Effect
	Contradictions []Contradiction
	// Unkillable is set when the player can never take damage.
	Unkillable bool
}

// Resolve composes the modifier inputs in a fixed order: additive skill
// bonuses, then range clamps, then transcendence, then run scalars. The
// corruption effect never influences numbers.
func Resolve(base Base, skills []SkillEffect, text corruption.Effect, run []RunModifier) Result {
	set := Set{
		DamageMultiplier: 1.0,
		CritMultiplier:   1.0,
	}
	var (
		transcend    Transcendence
		hasTranscend bool
		rewardBonus  float64
	)
	for _, e := range skills {
		switch v := e.(type) {
		case DamageBonus:
			set.DamageMultiplier += v.Amount
		case CritChance:
			set.CritChance += v.Amount
		case CritDamage:
			set.CritMultiplier += v.Amount
		case Evasion:
			set.EvasionChance += v.Amount
		case DamageReduction:
			set.DamageReduction += v.Amount
		case Transcendence:
			if !hasTranscend || v.Multiplier > transcend.Multiplier {
				transcend = v
				hasTranscend = true
			}
		case RewardBonus:
			rewardBonus += v.Amount
		case nil:
		default:
			panic(fmt.Sprintf("modifier: unhandled skill effect %T", e))
		}
	}

	ceiling := base.ReductionCeiling
	if ceiling <= 0 || ceiling >= 1 {
		ceiling = DefaultReductionCeiling
	}
	var out Result
	set.DamageMultiplier = out.clamp("damage_multiplier", set.DamageMultiplier, 0, math.Inf(1))
	set.CritChance = out.clamp("crit_chance", set.CritChance, 0, 1)
	set.CritMultiplier = out.clamp("crit_multiplier", set.CritMultiplier, 1, math.Inf(1))
	set.EvasionChance = out.clamp("evasion_chance", set.EvasionChance, 0, 1)
	set.DamageReduction = out.clamp("damage_reduction", set.DamageReduction, 0, ceiling)

	if hasTranscend && base.MaxHP > 0 && transcend.Multiplier > 0 {
		ratio := float64(base.HP) / float64(base.MaxHP)
		if ratio < transcend.Threshold {
			set.DamageMultiplier *= transcend.Multiplier
			set.Transcendent = true
		}
	}

	scaling := RunScaling{EnemyHealth: 1, EnemyDamage: 1, Reward: 1}
	for _, m := range run {
		switch v := m.(type) {
		case EnemyHealthScale:
			scaling.EnemyHealth *= v.Factor
		case EnemyDamageScale:
			scaling.EnemyDamage *= v.Factor
		case RewardScale:
			scaling.Reward *= v.Factor
		case nil:
		default:
			panic(fmt.Sprintf("modifier: unhandled run modifier %T", m))
		}
	}
	scaling.Reward *= 1 + rewardBonus
	scaling.EnemyHealth = out.clamp("enemy_health", scaling.EnemyHealth, 0.01, math.Inf(1))
	scaling.EnemyDamage = out.clamp("enemy_damage", scaling.EnemyDamage, 0, math.Inf(1))
	scaling.Reward = out.clamp("reward", scaling.Reward, 0, math.Inf(1))

	out.Player = set
	out.Run = scaling
	out.Text = text
	out.Unkillable = set.EvasionChance >= 1
	return out
}

func (r *Result) clamp(field string, v, lo, hi float64) float64 {
	c := v
	if math.IsNaN(c) {
		c = lo
	}
	if c < lo {
		c = lo
	}
	if c > hi {
		c = hi
	}
	if c != v {
		r.Contradictions = append(r.Contradictions, Contradiction{Field: field, Value: v, Clamped: c})
	}
	return c
}
