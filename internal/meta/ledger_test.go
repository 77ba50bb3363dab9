package meta

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/model"
)

type memSink struct {
	entries []model.InkEntry
	err     error
}

func (m *memSink) AddInk(_ context.Context, e model.InkEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func TestLedgerAwards(t *testing.T) {
	bus := event.NewBus()
	sink := &memSink{}
	l := NewLedger("run-1", 1.5, 10, bus, sink, nil)
	l.HandleEvent(event.New(event.EnemyDefeated, event.EnemyDefeatedPayload{Enemy: "Goblin Lurker", Gold: 5, XP: 10}))
	l.HandleEvent(event.New(event.ComboAchieved, event.ComboPayload{Streak: 10}))
	l.HandleEvent(event.New(event.ComboBroken, event.ComboPayload{Streak: 10}))
	l.HandleEvent(event.New(event.CombatEnded, event.CombatEndedPayload{Victory: true}))
	l.HandleEvent(event.New(event.CombatEnded, event.CombatEndedPayload{Outcome: event.Defeat}))

	// (5+1)*1.5 + 2*1.5 + 5*1.5 = 9 + 3 + 8
	if l.Earned() != 20 || l.Balance() != 30 {
		t.Fatalf("unexpected earned=%d balance=%d", l.Earned(), l.Balance())
	}
	if len(sink.entries) != 3 || sink.entries[0].RunID != "run-1" {
		t.Fatalf("unexpected persisted entries %+v", sink.entries)
	}
	if got := len(bus.Drain()); got != 3 {
		t.Fatalf("expected 3 ink events, got %d", got)
	}
}

func TestLedgerSinkFailureKeepsBalance(t *testing.T) {
	l := NewLedger("run-2", 1, 0, nil, &memSink{err: errors.New("locked")}, nil)
	l.HandleEvent(event.New(event.CombatEnded, event.CombatEndedPayload{Victory: true}))
	if l.Balance() != VictoryInk {
		t.Fatalf("expected balance %d, got %d", VictoryInk, l.Balance())
	}
}
