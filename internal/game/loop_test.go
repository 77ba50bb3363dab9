package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/model"
)

type fakeStore struct {
	records   []model.EncounterRecord
	ink       []model.InkEntry
	standings map[string]int
	saves     int
}

func (f *fakeStore) InsertEncounter(_ context.Context, rec model.EncounterRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) AddInk(_ context.Context, e model.InkEntry) error {
	f.ink = append(f.ink, e)
	return nil
}

func (f *fakeStore) SaveStandings(_ context.Context, s map[string]int) error {
	f.standings = s
	f.saves++
	return nil
}

type recorder struct {
	events []event.GameEvent
}

func (r *recorder) EventTypes() []event.Type { return nil }

func (r *recorder) HandleEvent(ev event.GameEvent) { r.events = append(r.events, ev) }

func (r *recorder) has(t event.Type) bool {
	for _, ev := range r.events {
		if ev.Type == t {
			return true
		}
	}
	return false
}

func (r *recorder) inkFor(reason string) bool {
	for _, ev := range r.events {
		if p, ok := ev.Payload.(event.InkAwardedPayload); ok && p.Reason == reason {
			return true
		}
	}
	return false
}

func testConfig(seed int64) Config {
	words := []string{"ink"}
	return Config{
		Combat: combat.DefaultConfig(),
		Player: model.PlayerConfig{MaxHP: 100, Attack: 10},
		Run:    model.RunConfig{Seed: seed, Zone: 1, Preset: "normal", RestHeal: 1},
		Banks: map[string][]string{
			"easy":   words,
			"medium": words,
			"hard":   words,
			"expert": words,
		},
	}
}

func newTestLoop(t *testing.T, cfg Config, st *fakeStore) (*Loop, *recorder) {
	t.Helper()
	l, err := NewLoop(cfg, Deps{Store: st, Log: logging.Discard()})
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	rec := &recorder{}
	l.Register(rec)
	return l, rec
}

// typeUntilDone feeds the expected rune every 100ms until the encounter ends.
func typeUntilDone(t *testing.T, l *Loop, clock *MockClock) {
	t.Helper()
	for i := 0; i < 500; i++ {
		r := l.Resolver()
		if r.State().Terminal() {
			return
		}
		v := r.View(clock.Now())
		if v.State == combat.WordInProgress {
			l.Key(Input{Kind: KeyRune, Rune: []rune(v.Word)[len([]rune(v.Typed))]})
		}
		if err := l.Tick(clock.Advance(100 * time.Millisecond)); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	t.Fatalf("encounter did not finish")
}

func TestLoopRunsEncounterToVictory(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	st := &fakeStore{}
	l, rec := newTestLoop(t, testConfig(7), st)

	if !l.Awaiting() {
		t.Fatalf("new run should await an encounter")
	}
	if err := l.NextEncounter(clock.Now()); err != nil {
		t.Fatalf("next encounter: %v", err)
	}
	if err := l.NextEncounter(clock.Now()); !errors.Is(err, ErrEncounterActive) {
		t.Fatalf("expected ErrEncounterActive, got %v", err)
	}
	typeUntilDone(t, l, clock)

	if got := l.Resolver().State(); got != combat.Victory {
		t.Fatalf("expected victory, got %v", got)
	}
	if rec.events[0].Type != event.CombatStarted {
		t.Fatalf("expected CombatStarted first, got %v", rec.events[0].Type)
	}
	if !rec.has(event.EnemyDefeated) || !rec.has(event.CombatEnded) {
		t.Fatalf("expected defeat and end events to be dispatched")
	}
	if rec.inkFor("victory") {
		t.Fatalf("ink emitted by a consumer must wait for the next tick")
	}
	if err := l.Tick(clock.Advance(100 * time.Millisecond)); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !rec.inkFor("victory") {
		t.Fatalf("expected victory ink on the following tick")
	}

	for i := 1; i < len(rec.events); i++ {
		if rec.events[i].Seq <= rec.events[i-1].Seq {
			t.Fatalf("events out of order at %d", i)
		}
	}

	if len(st.records) != 1 {
		t.Fatalf("expected 1 persisted encounter, got %d", len(st.records))
	}
	r := st.records[0]
	if r.Outcome != "victory" || r.RunID != l.RunID() || r.Zone != 1 || len(r.Chars) == 0 {
		t.Fatalf("unexpected record %+v", r)
	}
	if len(st.ink) == 0 || st.saves == 0 {
		t.Fatalf("expected ink and standings to be persisted")
	}
	if balance, earned := l.Ink(); balance != earned || earned == 0 {
		t.Fatalf("unexpected ink balance %d earned %d", balance, earned)
	}
	if hp := l.Player().HP; hp != 100 {
		t.Fatalf("expected full rest heal, got %d", hp)
	}
	if !l.Awaiting() || l.Over() {
		t.Fatalf("run should await the next encounter")
	}
	if len(l.Summaries()) != 1 {
		t.Fatalf("expected one summary")
	}
}

func TestLoopQuitAbandonsEncounter(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	st := &fakeStore{}
	l, rec := newTestLoop(t, testConfig(3), st)
	if err := l.NextEncounter(clock.Now()); err != nil {
		t.Fatalf("next encounter: %v", err)
	}
	l.Key(Input{Kind: KeyRune, Rune: 'i'})
	l.Key(Input{Kind: KeyQuit})
	if err := l.Tick(clock.Advance(50 * time.Millisecond)); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if l.Resolver().State() != combat.Fled || !l.Over() {
		t.Fatalf("expected fled and over, got %v over=%v", l.Resolver().State(), l.Over())
	}
	if !rec.has(event.CombatAbandoned) || rec.has(event.CombatEnded) || rec.has(event.EnemyDefeated) {
		t.Fatalf("quit must only emit CombatAbandoned")
	}
	if len(st.records) != 1 || st.records[0].Outcome != "fled" {
		t.Fatalf("expected a fled record, got %+v", st.records)
	}
	if err := l.NextEncounter(clock.Now()); !errors.Is(err, ErrRunOver) {
		t.Fatalf("expected ErrRunOver, got %v", err)
	}
}

func TestLoopIgnoresInputWithoutEncounter(t *testing.T) {
	l, rec := newTestLoop(t, testConfig(1), &fakeStore{})
	l.Key(Input{Kind: KeyRune, Rune: 'x'})
	l.Key(Input{Kind: KeySubmit})
	if err := l.Tick(time.Unix(0, 0)); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no events, got %d", len(rec.events))
	}
}

func TestLoopEncounterLimitEndsRun(t *testing.T) {
	cfg := testConfig(11)
	cfg.Run.Encounters = 1
	clock := NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	l, _ := newTestLoop(t, cfg, &fakeStore{})
	if err := l.NextEncounter(clock.Now()); err != nil {
		t.Fatalf("next encounter: %v", err)
	}
	typeUntilDone(t, l, clock)
	if !l.Over() || l.Awaiting() {
		t.Fatalf("run should end after the encounter limit")
	}
}

func TestNewLoopRejectsUnknownSkill(t *testing.T) {
	cfg := testConfig(1)
	cfg.Player.Skills = []string{"no_such_skill"}
	if _, err := NewLoop(cfg, Deps{}); err == nil {
		t.Fatalf("expected unknown skill error")
	}
}

type tagged struct {
	name  string
	types []event.Type
	log   *[]string
}

func (c tagged) EventTypes() []event.Type { return c.types }

func (c tagged) HandleEvent(event.GameEvent) { *c.log = append(*c.log, c.name) }

func TestDispatchRunsRoutedBeforeWildcard(t *testing.T) {
	l, _ := newTestLoop(t, testConfig(1), &fakeStore{})
	var got []string
	l.Register(tagged{name: "wild", log: &got})
	l.Register(tagged{name: "first", types: []event.Type{event.InputOverflow}, log: &got})
	l.Register(tagged{name: "second", types: []event.Type{event.InputOverflow}, log: &got})
	l.bus.Emit(event.New(event.InputOverflow, event.KeystrokeTypedPayload{Typed: 'x'}))
	if err := l.Tick(time.Unix(0, 0)); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if strings.Join(got, ",") != "first,second,wild" {
		t.Fatalf("unexpected dispatch order %v", got)
	}
}

func TestMockClockAdvance(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewMockClock(start)
	if got := c.Advance(time.Second); !got.Equal(start.Add(time.Second)) {
		t.Fatalf("unexpected advance result %v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("set did not apply")
	}
}
