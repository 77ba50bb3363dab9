package modifier

import (
	"math"
	"reflect"
	"testing"

	"github.com/verte-zerg/inkbound/internal/corruption"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResolveDefaults(t *testing.T) {
	res := Resolve(Base{HP: 100, MaxHP: 100}, nil, corruption.Effect{}, nil)
	want := Set{DamageMultiplier: 1, CritMultiplier: 1}
	if res.Player != want {
		t.Fatalf("unexpected defaults: %+v", res.Player)
	}
	if res.Run != (RunScaling{EnemyHealth: 1, EnemyDamage: 1, Reward: 1}) {
		t.Fatalf("unexpected run scaling: %+v", res.Run)
	}
	if len(res.Contradictions) != 0 || res.Unkillable {
		t.Fatalf("unexpected flags: %+v", res)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	skills := []SkillEffect{DamageBonus{0.2}, CritChance{0.15}, CritDamage{0.5}, Evasion{0.1}, DamageReduction{0.2}, Transcendence{Threshold: 0.25, Multiplier: 2}}
	run := []RunModifier{EnemyHealthScale{1.5}, EnemyDamageScale{1.25}, RewardScale{1.3}}
	text := corruption.Effect{Kind: corruption.VowelFade, Level: 2}
	first := Resolve(Base{HP: 10, MaxHP: 100}, skills, text, run)
	for i := 0; i < 100; i++ {
		got := Resolve(Base{HP: 10, MaxHP: 100}, skills, text, run)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("resolve not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestClampAfterAllAdditions(t *testing.T) {
	// +0.7 +0.7 -0.5 would clamp at 1 midway if clamped per step.
	res := Resolve(Base{HP: 1, MaxHP: 1}, []SkillEffect{Evasion{0.7}, Evasion{0.7}, Evasion{-0.5}}, corruption.Effect{}, nil)
	if !near(res.Player.EvasionChance, 0.9) {
		t.Fatalf("expected 0.9 evasion, got %f", res.Player.EvasionChance)
	}
	if len(res.Contradictions) != 0 {
		t.Fatalf("no clamp expected, got %v", res.Contradictions)
	}
}

func TestContradictionsClamped(t *testing.T) {
	res := Resolve(Base{HP: 1, MaxHP: 1}, []SkillEffect{DamageBonus{-3}, CritChance{2}, DamageReduction{1.5}, Evasion{1.2}}, corruption.Effect{}, nil)
	p := res.Player
	if p.DamageMultiplier != 0 || p.CritChance != 1 || p.DamageReduction != DefaultReductionCeiling || p.EvasionChance != 1 {
		t.Fatalf("unexpected clamped set: %+v", p)
	}
	if len(res.Contradictions) != 4 {
		t.Fatalf("expected 4 contradictions, got %v", res.Contradictions)
	}
	if !res.Unkillable {
		t.Fatalf("full evasion must be flagged")
	}
}

func TestTranscendenceIsMultiplicative(t *testing.T) {
	skills := []SkillEffect{DamageBonus{0.5}, Transcendence{Threshold: 0.25, Multiplier: 2}}
	low := Resolve(Base{HP: 20, MaxHP: 100}, skills, corruption.Effect{}, nil)
	if !near(low.Player.DamageMultiplier, 3.0) || !low.Player.Transcendent {
		t.Fatalf("expected (1+0.5)*2 = 3.0, got %+v", low.Player)
	}
	high := Resolve(Base{HP: 25, MaxHP: 100}, skills, corruption.Effect{}, nil)
	if !near(high.Player.DamageMultiplier, 1.5) || high.Player.Transcendent {
		t.Fatalf("expected no transcendence at threshold, got %+v", high.Player)
	}
	none := Resolve(Base{HP: 1, MaxHP: 100}, []SkillEffect{DamageBonus{0.5}}, corruption.Effect{}, nil)
	if !near(none.Player.DamageMultiplier, 1.5) {
		t.Fatalf("transcendence requires the skill, got %+v", none.Player)
	}
}

func TestCorruptionNeverChangesNumbers(t *testing.T) {
	skills := []SkillEffect{DamageBonus{0.1}, CritChance{0.1}}
	plain := Resolve(Base{HP: 50, MaxHP: 100}, skills, corruption.Effect{}, nil)
	for _, k := range corruption.Kinds {
		got := Resolve(Base{HP: 50, MaxHP: 100}, skills, corruption.Effect{Kind: k, Level: 5}, nil)
		if got.Player != plain.Player || got.Run != plain.Run {
			t.Fatalf("corruption %v changed numbers", k)
		}
		if got.Text.Kind != k {
			t.Fatalf("corruption effect not carried through")
		}
	}
}

func TestRunScalingSeparate(t *testing.T) {
	res := Resolve(Base{HP: 50, MaxHP: 100}, nil, corruption.Effect{}, []RunModifier{EnemyHealthScale{2}, EnemyDamageScale{1.5}, RewardScale{1.25}, EnemyHealthScale{1.5}})
	if res.Player != (Set{DamageMultiplier: 1, CritMultiplier: 1}) {
		t.Fatalf("run modifiers leaked into player set: %+v", res.Player)
	}
	if !near(res.Run.EnemyHealth, 3) || !near(res.Run.EnemyDamage, 1.5) || !near(res.Run.Reward, 1.25) {
		t.Fatalf("unexpected run scaling: %+v", res.Run)
	}
}

func TestRewardBonusScalesRunReward(t *testing.T) {
	res := Resolve(Base{HP: 100, MaxHP: 100}, []SkillEffect{RewardBonus{0.1}, RewardBonus{0.1}}, corruption.Effect{}, []RunModifier{RewardScale{1.5}})
	if !near(res.Run.Reward, 1.8) {
		t.Fatalf("expected reward 1.5 * 1.2, got %v", res.Run.Reward)
	}
	if res.Player != (Set{DamageMultiplier: 1, CritMultiplier: 1}) {
		t.Fatalf("reward bonus leaked into player set: %+v", res.Player)
	}
}

func TestUnkillableOnlyFromEvasion(t *testing.T) {
	res := Resolve(Base{HP: 100, MaxHP: 100}, []SkillEffect{Evasion{0.6}, Evasion{0.6}}, corruption.Effect{}, nil)
	if !res.Unkillable || res.Player.EvasionChance != 1 {
		t.Fatalf("expected unkillable at full evasion: %+v", res)
	}
	if len(res.Contradictions) != 1 || res.Contradictions[0].Field != "evasion_chance" {
		t.Fatalf("expected evasion clamp to be reported: %+v", res.Contradictions)
	}

	res = Resolve(Base{HP: 100, MaxHP: 100}, []SkillEffect{DamageReduction{0.7}, DamageReduction{0.7}}, corruption.Effect{}, nil)
	if res.Unkillable {
		t.Fatalf("reduction alone must not make the player unkillable")
	}
	if !near(res.Player.DamageReduction, DefaultReductionCeiling) {
		t.Fatalf("reduction = %v, want ceiling", res.Player.DamageReduction)
	}
}
