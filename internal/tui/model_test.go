package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/game"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/model"
)

func newTestModel(t *testing.T) (*Model, *game.MockClock) {
	t.Helper()
	words := []string{"quill"}
	loop, err := game.NewLoop(game.Config{
		Combat: combat.DefaultConfig(),
		Player: model.PlayerConfig{MaxHP: 100, Attack: 10},
		Run:    model.RunConfig{Seed: 5, Zone: 1},
		Banks:  map[string][]string{"easy": words, "medium": words, "hard": words, "expert": words},
	}, game.Deps{Log: logging.Discard()})
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	clock := game.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewModel(loop, clock, 0), clock
}

func TestModelStartsEncounterOnFirstTick(t *testing.T) {
	m, clock := newTestModel(t)
	if m.View() != "" {
		t.Fatalf("expected empty view before the first tick")
	}
	if _, cmd := m.Update(tickMsg(clock.Now())); cmd == nil {
		t.Fatalf("expected the next tick to be scheduled")
	}
	out := m.View()
	if !strings.Contains(out, "Zone 1") || !strings.Contains(out, "Turn 1") {
		t.Fatalf("expected combat header, got:\n%s", out)
	}
	if len(m.feed.Lines()) == 0 {
		t.Fatalf("expected the feed to receive the combat start")
	}
}

func TestModelQueuesKeysUntilTick(t *testing.T) {
	m, clock := newTestModel(t)
	m.Update(tickMsg(clock.Now()))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("qu")})
	if got := m.loop.Resolver().View(clock.Now()).Typed; got != "" {
		t.Fatalf("keys must wait for the tick, typed %q", got)
	}
	m.Update(tickMsg(clock.Advance(100 * time.Millisecond)))
	if got := m.loop.Resolver().View(clock.Now()).Typed; got != "qu" {
		t.Fatalf("expected typed qu, got %q", got)
	}
}

func TestModelCtrlCAbandons(t *testing.T) {
	m, clock := newTestModel(t)
	m.Update(tickMsg(clock.Now()))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.loop.Resolver().State() != combat.Fled || !m.loop.Over() {
		t.Fatalf("expected abandoned run")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error %v", m.Err())
	}
}

func TestFeedKeepsNewestLines(t *testing.T) {
	f := NewFeed(2)
	for i := 1; i <= 3; i++ {
		f.HandleEvent(event.New(event.DamageDealt, event.DamageDealtPayload{Amount: i}))
	}
	f.HandleEvent(event.New(event.KeystrokeTyped, event.KeystrokeTypedPayload{}))
	lines := f.Lines()
	if len(lines) != 2 || lines[0] != "You hit for 2." || lines[1] != "You hit for 3." {
		t.Fatalf("unexpected feed %q", lines)
	}
}

func TestDescribeEvents(t *testing.T) {
	tests := []struct {
		ev   event.GameEvent
		want string
	}{
		{event.New(event.Evaded, event.EnemyAttackPayload{Raw: 5}), "You evade the attack."},
		{event.New(event.DamageTaken, event.EnemyAttackPayload{Raw: 5, Amount: 4}), "You take 4 damage."},
		{event.New(event.ComboBroken, event.ComboPayload{Streak: 7}), "Combo of 7 broken."},
		{event.New(event.WordCompleted, event.WordResultPayload{Word: "ink"}), ""},
		{event.New(event.FactionStandingChanged, event.FactionStandingPayload{Faction: "scribes", Old: 2, New: -1}), "scribes: -3"},
	}
	for _, tt := range tests {
		if got := describe(tt.ev); got != tt.want {
			t.Fatalf("describe(%v) = %q, want %q", tt.ev.Type, got, tt.want)
		}
	}
}
