// Package skill holds the skill trees and turns unlocked skills into modifier effects.
package skill

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/inkbound/internal/modifier"
)

// Tree groups related skills.
type Tree string

const (
	Precision Tree = "precision"
	Speed     Tree = "speed"
	Endurance Tree = "endurance"
	Wisdom    Tree = "wisdom"
	Shadow    Tree = "shadow"
)

// Trees lists the trees in display order.
var Trees = []Tree{Precision, Speed, Endurance, Wisdom, Shadow}

// Skill is one node of a tree.
type Skill struct {
	ID          string
	Tree        Tree
	Name        string
	Description string
	Cost        int
	Requires    string
	Effects     []modifier.SkillEffect
}

var catalog = []Skill{
	{ID: "steady_hand", Tree: Precision, Name: "Steady Hand", Description: "+10% damage", Cost: 1,
		Effects: []modifier.SkillEffect{modifier.DamageBonus{Amount: 0.10}}},
	{ID: "keen_eye", Tree: Precision, Name: "Keen Eye", Description: "+15% crit chance", Cost: 2, Requires: "steady_hand",
		Effects: []modifier.SkillEffect{modifier.CritChance{Amount: 0.15}}},
	{ID: "deadly_prose", Tree: Precision, Name: "Deadly Prose", Description: "+0.5 crit multiplier", Cost: 3, Requires: "keen_eye",
		Effects: []modifier.SkillEffect{modifier.CritDamage{Amount: 0.5}}},

	{ID: "quick_fingers", Tree: Speed, Name: "Quick Fingers", Description: "+10% damage", Cost: 1,
		Effects: []modifier.SkillEffect{modifier.DamageBonus{Amount: 0.10}}},
	{ID: "blur", Tree: Speed, Name: "Blur", Description: "+10% evasion", Cost: 2, Requires: "quick_fingers",
		Effects: []modifier.SkillEffect{modifier.Evasion{Amount: 0.10}}},
	{ID: "afterimage", Tree: Speed, Name: "Afterimage", Description: "+10% evasion", Cost: 3, Requires: "blur",
		Effects: []modifier.SkillEffect{modifier.Evasion{Amount: 0.10}}},

	{ID: "thick_skin", Tree: Endurance, Name: "Thick Skin", Description: "+10% damage reduction", Cost: 1,
		Effects: []modifier.SkillEffect{modifier.DamageReduction{Amount: 0.10}}},
	{ID: "iron_will", Tree: Endurance, Name: "Iron Will", Description: "+10% damage reduction", Cost: 2, Requires: "thick_skin",
		Effects: []modifier.SkillEffect{modifier.DamageReduction{Amount: 0.10}}},
	{ID: "last_stand", Tree: Endurance, Name: "Last Stand", Description: "double damage below 25% HP", Cost: 3, Requires: "iron_will",
		Effects: []modifier.SkillEffect{modifier.Transcendence{Threshold: 0.25, Multiplier: 2.0}}},

	{ID: "scholar", Tree: Wisdom, Name: "Scholar", Description: "+5% crit chance", Cost: 1,
		Effects: []modifier.SkillEffect{modifier.CritChance{Amount: 0.05}}},
	{ID: "lexicon", Tree: Wisdom, Name: "Lexicon", Description: "+15% damage", Cost: 2, Requires: "scholar",
		Effects: []modifier.SkillEffect{modifier.DamageBonus{Amount: 0.15}}},
	{ID: "annotator", Tree: Wisdom, Name: "Annotator", Description: "+10% ink", Cost: 3, Requires: "lexicon",
		Effects: []modifier.SkillEffect{modifier.RewardBonus{Amount: 0.10}}},

	{ID: "shadow_step", Tree: Shadow, Name: "Shadow Step", Description: "+15% evasion", Cost: 1,
		Effects: []modifier.SkillEffect{modifier.Evasion{Amount: 0.15}}},
	{ID: "veil", Tree: Shadow, Name: "Veil", Description: "+10% damage reduction", Cost: 2, Requires: "shadow_step",
		Effects: []modifier.SkillEffect{modifier.DamageReduction{Amount: 0.10}}},
	{ID: "eclipse", Tree: Shadow, Name: "Eclipse", Description: "x1.5 damage below 35% HP", Cost: 3, Requires: "veil",
		Effects: []modifier.SkillEffect{modifier.Transcendence{Threshold: 0.35, Multiplier: 1.5}}},
}

var byID = func() map[string]Skill {
	m := make(map[string]Skill, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// All returns every skill ordered by tree then cost.
func All() []Skill {
	out := make([]Skill, len(catalog))
	copy(out, catalog)
	order := map[Tree]int{}
	for i, t := range Trees {
		order[t] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tree != out[j].Tree {
			return order[out[i].Tree] < order[out[j].Tree]
		}
		return out[i].Cost < out[j].Cost
	})
	return out
}

// Lookup returns the skill with id.
func Lookup(id string) (Skill, bool) {
	s, ok := byID[id]
	return s, ok
}

// Parse splits a comma separated skill list.
func Parse(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that every id exists and its prerequisite is unlocked too.
func Validate(unlocked []string) error {
	have := map[string]bool{}
	for _, id := range unlocked {
		have[id] = true
	}
	for _, id := range unlocked {
		s, ok := byID[id]
		if !ok {
			return fmt.Errorf("unknown skill %q", id)
		}
		if s.Requires != "" && !have[s.Requires] {
			return fmt.Errorf("skill %q requires %q", id, s.Requires)
		}
	}
	return nil
}

// Effects returns the modifier effects of the unlocked skills, each skill counted once.
func Effects(unlocked []string) ([]modifier.SkillEffect, error) {
	if err := Validate(unlocked); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []modifier.SkillEffect
	for _, id := range unlocked {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, byID[id].Effects...)
	}
	return out, nil
}

// Points returns the total cost of the unlocked skills.
func Points(unlocked []string) int {
	seen := map[string]bool{}
	total := 0
	for _, id := range unlocked {
		if s, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			total += s.Cost
		}
	}
	return total
}
