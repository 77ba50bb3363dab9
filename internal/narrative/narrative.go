// Package narrative tracks the run's corruption and lore progress.
package narrative

import (
	"github.com/verte-zerg/inkbound/internal/corruption"
	"github.com/verte-zerg/inkbound/internal/event"
)

const (
	// MaxLevel caps the corruption level.
	MaxLevel = 5
	// VictoriesPerLevel is how many victories raise corruption by one.
	VictoriesPerLevel = 3
	// LoreEvery is how many victories unlock a lore fragment.
	LoreEvery = 2
)

// Fragment identifies a piece of lore. Text lives with the content layer.
type Fragment struct {
	ID    string
	Title string
}

var fragments = []Fragment{
	{ID: "lore_first_word", Title: "The First Word"},
	{ID: "lore_scribes_oath", Title: "The Scribes' Oath"},
	{ID: "lore_unwriting", Title: "On Unwriting"},
	{ID: "lore_silent_library", Title: "The Silent Library"},
	{ID: "lore_ink_and_bone", Title: "Ink and Bone"},
	{ID: "lore_last_page", Title: "The Last Page"},
}

// Tracker is an event consumer that owns the corruption state of a run.
type Tracker struct {
	kind      corruption.Kind
	level     int
	victories int
	unlocked  []Fragment
	emit      event.Emitter
}

// New picks the run's corruption kind from seed and starts at level 0.
func New(seed int64, emit event.Emitter) *Tracker {
	if seed < 0 {
		seed = -seed
	}
	return &Tracker{
		kind: corruption.Kinds[seed%int64(len(corruption.Kinds))],
		emit: emit,
	}
}

// Current returns the active corruption effect.
func (t *Tracker) Current() corruption.Effect {
	return corruption.Effect{Kind: t.kind, Level: t.level}
}

// Unlocked returns the lore fragments unlocked so far.
func (t *Tracker) Unlocked() []Fragment {
	out := make([]Fragment, len(t.unlocked))
	copy(out, t.unlocked)
	return out
}

// EventTypes lists the events the tracker reacts to.
func (t *Tracker) EventTypes() []event.Type {
	return []event.Type{event.EnemyDefeated, event.CombatEnded}
}

// HandleEvent advances corruption and lore.
func (t *Tracker) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EnemyDefeated:
		p, _ := ev.Payload.(event.EnemyDefeatedPayload)
		t.victories++
		if p.Boss || t.victories%VictoriesPerLevel == 0 {
			t.raise()
		}
		if t.victories%LoreEvery == 0 && len(t.unlocked) < len(fragments) {
			f := fragments[len(t.unlocked)]
			t.unlocked = append(t.unlocked, f)
			t.send(event.LoreUnlocked, event.LoreUnlockedPayload{ID: f.ID, Title: f.Title})
		}
	case event.CombatEnded:
		p, _ := ev.Payload.(event.CombatEndedPayload)
		if p.Outcome == event.Defeat {
			t.raise()
		}
	}
}

func (t *Tracker) raise() {
	if t.level >= MaxLevel {
		return
	}
	t.level++
	t.send(event.CorruptionChanged, event.CorruptionChangedPayload{Kind: t.kind.String(), Level: t.level})
}

func (t *Tracker) send(ty event.Type, p any) {
	if t.emit != nil {
		t.emit.Emit(event.New(ty, p))
	}
}
