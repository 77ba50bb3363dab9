package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/inkbound/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "inkbound.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return st
}

func TestInsertAndListEncounters(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		rec := model.EncounterRecord{
			ID:        id,
			RunID:     "run",
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + time.Minute),
			Zone:      1,
			Enemy:     "Goblin Lurker",
			Outcome:   "victory",
			Correct:   50 + i,
			Incorrect: 5,
			TypingMs:  60000,
			MaxCombo:  i,
			Chars: []model.CharStats{
				{Char: "a", Correct: 10, Incorrect: 1, LatencySumMs: 1000, LatencyCount: 11},
				{Char: "b", Correct: 3, Incorrect: 3, LatencySumMs: 900, LatencyCount: 6},
			},
		}
		if err := st.InsertEncounter(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	encs, err := st.ListEncounters(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(encs) != 2 || encs[0].ID != "b" || encs[1].ID != "c" {
		t.Fatalf("unexpected encounters %+v", encs)
	}

	since := base.Add(90 * time.Minute)
	encs, err = st.ListEncounters(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(encs) != 1 || encs[0].ID != "c" {
		t.Fatalf("unexpected filtered encounters %+v", encs)
	}

	aggs, err := st.ListCharAggregates(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(aggs))
	}
	for _, agg := range aggs {
		if agg.Char == "a" && agg.Correct != 20 {
			t.Fatalf("expected summed correct 20, got %d", agg.Correct)
		}
	}

	weak, err := st.GetWeakChars(ctx, 1)
	if err != nil {
		t.Fatalf("weak: %v", err)
	}
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %d", len(weak))
	}
}

func TestDuplicateEncounterRollsBack(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	rec := model.EncounterRecord{ID: "dup", RunID: "r", Enemy: "x", Outcome: "defeat"}
	if err := st.InsertEncounter(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertEncounter(ctx, rec); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestInkLedger(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	bal, err := st.InkBalance(ctx)
	if err != nil || bal != 0 {
		t.Fatalf("expected empty balance, got %d (%v)", bal, err)
	}
	for _, amt := range []int{5, 12} {
		if err := st.AddInk(ctx, model.InkEntry{RunID: "r", Amount: amt, Reason: "kill", At: time.Now()}); err != nil {
			t.Fatalf("add ink: %v", err)
		}
	}
	bal, err = st.InkBalance(ctx)
	if err != nil || bal != 17 {
		t.Fatalf("expected 17, got %d (%v)", bal, err)
	}
}

func TestStandingsRoundTrip(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	if err := st.SaveStandings(ctx, map[string]int{"scribes": 5, "mechanists": -3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.SaveStandings(ctx, map[string]int{"scribes": 9}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.LoadStandings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["scribes"] != 9 || got["mechanists"] != -3 {
		t.Fatalf("unexpected standings %v", got)
	}
}
