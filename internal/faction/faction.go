// Package faction tracks reputation with the factions of the world.
package faction

import (
	"math"
	"sort"

	"github.com/verte-zerg/inkbound/internal/event"
)

// Faction names.
const (
	Scribes       = "scribes"
	Mechanists    = "mechanists"
	Naturalists   = "naturalists"
	ShadowWriters = "shadow_writers"
	Archivists    = "archivists"
)

// All lists factions in display order.
var All = []string{Scribes, Mechanists, Naturalists, ShadowWriters, Archivists}

const (
	MinStanding = -100
	MaxStanding = 100

	killPenalty     = 3
	bossKillPenalty = 10
)

// relations[a][b] is how much of a change to a spills onto b.
var relations = map[string]map[string]float64{
	Scribes:       {ShadowWriters: -0.5, Archivists: 0.25},
	ShadowWriters: {Scribes: -0.5},
	Mechanists:    {Naturalists: -0.5},
	Naturalists:   {Mechanists: -0.5},
	Archivists:    {Scribes: 0.25},
}

// Reputation is an event consumer holding faction standings.
type Reputation struct {
	standings map[string]int
	emit      event.Emitter
}

// New creates a reputation tracker seeded with persisted standings.
func New(emit event.Emitter, initial map[string]int) *Reputation {
	r := &Reputation{standings: map[string]int{}, emit: emit}
	for _, f := range All {
		r.standings[f] = clamp(initial[f])
	}
	return r
}

// EventTypes lists the events the tracker reacts to.
func (r *Reputation) EventTypes() []event.Type {
	return []event.Type{event.EnemyDefeated, event.ComboAchieved}
}

// HandleEvent applies reputation consequences of ev.
func (r *Reputation) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EnemyDefeated:
		p, ok := ev.Payload.(event.EnemyDefeatedPayload)
		if !ok || p.Faction == "" {
			return
		}
		delta := -killPenalty
		if p.Boss {
			delta = -bossKillPenalty
		}
		r.Adjust(p.Faction, delta)
	case event.ComboAchieved:
		// scribes respect mastery of the written word
		r.Adjust(Scribes, 1)
	}
}

// Adjust changes a faction's standing and ripples the change to related factions.
func (r *Reputation) Adjust(faction string, delta int) {
	if _, ok := r.standings[faction]; !ok || delta == 0 {
		return
	}
	r.set(faction, r.standings[faction]+delta)
	others := make([]string, 0, len(relations[faction]))
	for other := range relations[faction] {
		others = append(others, other)
	}
	sort.Strings(others)
	for _, other := range others {
		spill := int(math.Round(float64(delta) * relations[faction][other]))
		if spill != 0 {
			r.set(other, r.standings[other]+spill)
		}
	}
}

func (r *Reputation) set(faction string, v int) {
	old := r.standings[faction]
	v = clamp(v)
	if v == old {
		return
	}
	r.standings[faction] = v
	if r.emit != nil {
		r.emit.Emit(event.New(event.FactionStandingChanged, event.FactionStandingPayload{Faction: faction, Old: old, New: v}))
	}
}

// Standing returns the standing with faction.
func (r *Reputation) Standing(faction string) int {
	return r.standings[faction]
}

// Standings returns a copy of all standings.
func (r *Reputation) Standings() map[string]int {
	out := make(map[string]int, len(r.standings))
	for k, v := range r.standings {
		out[k] = v
	}
	return out
}

func clamp(v int) int {
	if v < MinStanding {
		return MinStanding
	}
	if v > MaxStanding {
		return MaxStanding
	}
	return v
}
