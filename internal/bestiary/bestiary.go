// Package bestiary holds enemy templates and picks encounters for a zone.
package bestiary

import (
	"fmt"
	"math/rand"

	"github.com/verte-zerg/inkbound/internal/combat"
)

// Template is the static description of an enemy.
type Template struct {
	ID      string
	Name    string
	Zone    int
	HP      int
	Attack  int
	Defense int
	XP      int
	Gold    int
	Theme   string
	Faction string
	Boss    bool
}

// BossEvery is the encounter interval at which a zone boss appears.
const BossEvery = 5

var templates = []Template{
	{ID: "goblin_lurker", Name: "Goblin Lurker", Zone: 1, HP: 20, Attack: 3, XP: 10, Gold: 5, Theme: "easy", Faction: "naturalists"},
	{ID: "spectral_wisp", Name: "Spectral Wisp", Zone: 1, HP: 15, Attack: 4, XP: 12, Gold: 7, Theme: "magic", Faction: "archivists"},
	{ID: "venomous_spider", Name: "Venomous Spider", Zone: 1, HP: 35, Attack: 6, Defense: 2, XP: 25, Gold: 15, Theme: "nature", Faction: "naturalists"},
	{ID: "lesser_vampire", Name: "Lesser Vampire", Zone: 2, HP: 45, Attack: 8, Defense: 3, XP: 35, Gold: 20, Theme: "corruption", Faction: "shadow_writers"},
	{ID: "blighted_thrall", Name: "Blighted Thrall", Zone: 2, HP: 60, Attack: 9, Defense: 5, XP: 50, Gold: 30, Theme: "corruption", Faction: "shadow_writers"},
	{ID: "stone_golem", Name: "Stone Golem", Zone: 2, HP: 100, Attack: 12, Defense: 10, XP: 85, Gold: 55, Theme: "technology", Faction: "mechanists"},
	{ID: "void_walker", Name: "Void Walker", Zone: 3, HP: 90, Attack: 15, Defense: 8, XP: 100, Gold: 65, Theme: "corruption", Faction: "shadow_writers"},
	{ID: "shadow_weaver", Name: "Shadow Weaver", Zone: 3, HP: 120, Attack: 17, Defense: 12, XP: 120, Gold: 80, Theme: "combat", Faction: "scribes"},
	{ID: "wailing_wraith", Name: "Wailing Wraith", Zone: 3, HP: 110, Attack: 14, Defense: 15, XP: 110, Gold: 75, Theme: "ancient", Faction: "archivists"},

	{ID: "soul_devourer", Name: "Soul Devourer", Zone: 1, HP: 75, Attack: 8, Defense: 6, XP: 65, Gold: 40, Theme: "corruption", Faction: "shadow_writers", Boss: true},
	{ID: "blight_elemental", Name: "Blight Elemental", Zone: 2, HP: 200, Attack: 12, Defense: 10, XP: 300, Gold: 150, Theme: "corruption", Faction: "mechanists", Boss: true},
	{ID: "ancient_wyrm", Name: "Ancient Wyrm", Zone: 3, HP: 250, Attack: 20, Defense: 18, XP: 400, Gold: 200, Theme: "ancient", Faction: "archivists", Boss: true},
}

// MaxZone is the deepest zone with templates.
const MaxZone = 3

// All returns every template.
func All() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Lookup returns the template with id.
func Lookup(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Pick chooses the template for the n-th encounter (1-based) of zone.
// Every BossEvery-th encounter is the zone boss.
func Pick(rng *rand.Rand, zone, n int) (Template, error) {
	if zone < 1 {
		zone = 1
	}
	if zone > MaxZone {
		zone = MaxZone
	}
	wantBoss := n > 0 && n%BossEvery == 0
	var pool []Template
	for _, t := range templates {
		if t.Zone == zone && t.Boss == wantBoss {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		return Template{}, fmt.Errorf("no enemies for zone %d (boss=%v)", zone, wantBoss)
	}
	return pool[rng.Intn(len(pool))], nil
}

// Spawn builds a combat enemy from a template.
func (t Template) Spawn() combat.Enemy {
	return combat.Enemy{
		Combatant: combat.Combatant{
			Name:    t.Name,
			HP:      t.HP,
			MaxHP:   t.HP,
			Attack:  t.Attack,
			Defense: t.Defense,
		},
		ID:      t.ID,
		Faction: t.Faction,
		Theme:   t.Theme,
		Boss:    t.Boss,
		XP:      t.XP,
		Gold:    t.Gold,
	}
}
