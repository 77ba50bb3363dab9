package tui

import (
	"fmt"

	"github.com/verte-zerg/inkbound/internal/event"
)

// Feed is an event consumer that keeps the last few combat log lines.
type Feed struct {
	lines []string
	max   int
}

// NewFeed creates a feed holding up to max lines.
func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 6
	}
	return &Feed{max: max}
}

// EventTypes subscribes the feed to every event.
func (f *Feed) EventTypes() []event.Type {
	return nil
}

// HandleEvent appends a line for events worth showing.
func (f *Feed) HandleEvent(ev event.GameEvent) {
	line := describe(ev)
	if line == "" {
		return
	}
	f.lines = append(f.lines, line)
	if len(f.lines) > f.max {
		f.lines = f.lines[len(f.lines)-f.max:]
	}
}

// Lines returns the feed, oldest first.
func (f *Feed) Lines() []string {
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

func describe(ev event.GameEvent) string {
	switch p := ev.Payload.(type) {
	case event.CombatStartedPayload:
		if p.Boss {
			return fmt.Sprintf("%s blocks the way!", p.Enemy)
		}
		return fmt.Sprintf("A %s appears.", p.Enemy)
	case event.DamageDealtPayload:
		if p.Crit {
			return fmt.Sprintf("Critical! You hit for %d.", p.Amount)
		}
		return fmt.Sprintf("You hit for %d.", p.Amount)
	case event.EnemyAttackPayload:
		if ev.Type == event.Evaded {
			return "You evade the attack."
		}
		return fmt.Sprintf("You take %d damage.", p.Amount)
	case event.WordResultPayload:
		if ev.Type == event.WordFailed {
			return fmt.Sprintf("%q slips away (%s).", p.Word, p.Reason)
		}
	case event.ComboPayload:
		if ev.Type == event.ComboAchieved {
			return fmt.Sprintf("Combo %d! x%.1f", p.Streak, p.Multiplier)
		}
		return fmt.Sprintf("Combo of %d broken.", p.Streak)
	case event.FlowChangedPayload:
		return fmt.Sprintf("Flow: %s -> %s", p.From, p.To)
	case event.EnemyDefeatedPayload:
		return fmt.Sprintf("%s is unwritten.", p.Enemy)
	case event.CombatAbandonedPayload:
		return "You slip away."
	case event.InkAwardedPayload:
		return fmt.Sprintf("+%d ink (%d)", p.Amount, p.Balance)
	case event.FactionStandingPayload:
		return fmt.Sprintf("%s: %+d", p.Faction, p.New-p.Old)
	case event.CorruptionChangedPayload:
		return fmt.Sprintf("Corruption deepens: %s %d", p.Kind, p.Level)
	case event.LoreUnlockedPayload:
		return fmt.Sprintf("Lore unlocked: %s", p.Title)
	}
	return ""
}
