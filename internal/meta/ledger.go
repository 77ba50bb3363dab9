// Package meta awards ink, the currency that persists between runs.
package meta

import (
	"context"
	"math"
	"time"

	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/model"
)

// VictoryInk is awarded for every won encounter.
const VictoryInk = 5

// Sink persists ledger entries.
type Sink interface {
	AddInk(ctx context.Context, entry model.InkEntry) error
}

// Ledger is an event consumer that converts combat results into ink.
type Ledger struct {
	runID   string
	reward  float64
	balance int
	earned  int
	emit    event.Emitter
	sink    Sink
	log     *logging.Logger
	now     func() time.Time
}

// NewLedger creates a ledger for one run. reward is the run's reward multiplier.
func NewLedger(runID string, reward float64, balance int, emit event.Emitter, sink Sink, log *logging.Logger) *Ledger {
	return &Ledger{
		runID:   runID,
		reward:  reward,
		balance: balance,
		emit:    emit,
		sink:    sink,
		log:     log,
		now:     time.Now,
	}
}

// Balance returns the ink balance including this run.
func (l *Ledger) Balance() int {
	return l.balance
}

// Earned returns the ink earned during this run.
func (l *Ledger) Earned() int {
	return l.earned
}

// EventTypes lists the events that award ink.
func (l *Ledger) EventTypes() []event.Type {
	return []event.Type{event.EnemyDefeated, event.ComboAchieved, event.CombatEnded}
}

// HandleEvent awards ink for kills, combo milestones and victories.
func (l *Ledger) HandleEvent(ev event.GameEvent) {
	switch p := ev.Payload.(type) {
	case event.EnemyDefeatedPayload:
		l.award(float64(p.Gold)+float64(p.XP)/10, "kill:"+p.Enemy)
	case event.ComboPayload:
		if ev.Type == event.ComboAchieved {
			l.award(float64(p.Streak)/5, "combo")
		}
	case event.CombatEndedPayload:
		if p.Victory {
			l.award(VictoryInk, "victory")
		}
	}
}

func (l *Ledger) award(base float64, reason string) {
	amount := int(math.Round(base * l.reward))
	if amount <= 0 {
		return
	}
	l.balance += amount
	l.earned += amount
	if l.sink != nil {
		entry := model.InkEntry{RunID: l.runID, Amount: amount, Reason: reason, At: l.now()}
		if err := l.sink.AddInk(context.Background(), entry); err != nil {
			l.log.Error("failed to persist ink", err, logging.Fields{"run": l.runID, "amount": amount})
		}
	}
	if l.emit != nil {
		l.emit.Emit(event.New(event.InkAwarded, event.InkAwardedPayload{Amount: amount, Reason: reason, Balance: l.balance}))
	}
}
