package combat

import (
	"time"

	"github.com/verte-zerg/inkbound/internal/combo"
	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/modifier"
	"github.com/verte-zerg/inkbound/internal/rhythm"
)

// CharTally aggregates keystrokes for one expected character.
type CharTally struct {
	Correct   int
	Incorrect int
	Latency   time.Duration
	Samples   int
}

// Summary is the record of one finished or running encounter.
type Summary struct {
	EncounterID    string
	Enemy          string
	Outcome        event.Outcome
	StartedAt      time.Time
	EndedAt        time.Time
	Turns          int
	WordsCompleted int
	WordsClean     int
	WordsFailed    int
	MaxCombo       int
	DamageDealt    int
	DamageTaken    int
	Crits          int
	Evasions       int
	Correct        int
	Incorrect      int
	TypingTime     time.Duration
	Chars          map[string]*CharTally
}

// Summary returns a copy of the encounter summary.
func (r *Resolver) Summary() Summary {
	s := r.summary
	s.Chars = make(map[string]*CharTally, len(r.summary.Chars))
	for k, v := range r.summary.Chars {
		c := *v
		s.Chars[k] = &c
	}
	return s
}

// View is a read-only snapshot for rendering.
type View struct {
	State       State
	Turn        int
	Word        string
	Typed       string
	Errors      int
	Player      Combatant
	Enemy       Enemy
	Flow        rhythm.FlowState
	Consistency float64
	Combo       combo.State
	Modifiers   modifier.Set
	Remaining   time.Duration
	Limit       time.Duration
	Intensity   float64
	VisualError bool
	Outcome     event.Outcome
}

// View returns the state a renderer needs at time now.
func (r *Resolver) View(now time.Time) View {
	v := View{
		State:       r.state,
		Turn:        r.turn,
		Player:      r.player,
		Enemy:       r.enemy,
		Flow:        r.analyzer.Flow(),
		Consistency: r.analyzer.Consistency(),
		Combo:       r.combo.State(),
		Modifiers:   r.mods.Player,
		Intensity:   r.last.Intensity,
		VisualError: r.last.VisualError,
		Outcome:     r.summary.Outcome,
	}
	if a := r.tracker.Attempt(); a != nil {
		v.Word = string(a.Target)
		v.Typed = string(a.Typed)
		v.Errors = a.Errors()
		v.Limit = r.deadline.Sub(a.Start)
		v.Remaining = r.deadline.Sub(now)
		if v.Remaining < 0 {
			v.Remaining = 0
		}
	}
	return v
}
