package skill

import (
	"testing"

	"github.com/verte-zerg/inkbound/internal/corruption"
	"github.com/verte-zerg/inkbound/internal/modifier"
)

func TestValidatePrerequisites(t *testing.T) {
	if err := Validate([]string{"keen_eye"}); err == nil {
		t.Fatalf("expected missing prerequisite error")
	}
	if err := Validate([]string{"steady_hand", "keen_eye"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate([]string{"nope"}); err == nil {
		t.Fatalf("expected unknown skill error")
	}
}

func TestEffectsFeedPipeline(t *testing.T) {
	effects, err := Effects(Parse("steady_hand, keen_eye,deadly_prose,steady_hand"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(effects) != 3 {
		t.Fatalf("expected 3 effects, got %d", len(effects))
	}
	res := modifier.Resolve(modifier.Base{HP: 100, MaxHP: 100}, effects, corruption.Effect{}, nil)
	if res.Player.DamageMultiplier != 1.1 || res.Player.CritChance != 0.15 || res.Player.CritMultiplier != 1.5 {
		t.Fatalf("unexpected set %+v", res.Player)
	}
}

func TestAnnotatorRaisesReward(t *testing.T) {
	if err := Validate([]string{"annotator"}); err == nil {
		t.Fatalf("expected annotator to need lexicon")
	}
	effects, err := Effects([]string{"scholar", "lexicon", "annotator"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := modifier.Resolve(modifier.Base{HP: 100, MaxHP: 100}, effects, corruption.Effect{}, nil)
	if res.Run.Reward < 1.0999 || res.Run.Reward > 1.1001 {
		t.Fatalf("expected reward 1.1, got %v", res.Run.Reward)
	}
}

func TestAllOrderedAndComplete(t *testing.T) {
	all := All()
	if len(all) != len(catalog) {
		t.Fatalf("expected %d skills, got %d", len(catalog), len(all))
	}
	if all[0].Tree != Precision || all[len(all)-1].Tree != Shadow {
		t.Fatalf("unexpected tree order")
	}
	for _, s := range all {
		if s.Requires != "" {
			if _, ok := Lookup(s.Requires); !ok {
				t.Fatalf("skill %s requires unknown %s", s.ID, s.Requires)
			}
		}
	}
	if got := Points([]string{"steady_hand", "keen_eye"}); got != 3 {
		t.Fatalf("expected 3 points, got %d", got)
	}
}
