package keystroke

import (
	"errors"
	"testing"
	"time"
)

func TestRecordIntervals(t *testing.T) {
	start := time.Unix(1000, 0)
	var tr Tracker
	tr.Begin("ab", start)

	ev, err := tr.Record('a', start.Add(150*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Interval != 150*time.Millisecond {
		t.Fatalf("expected first interval from word start, got %v", ev.Interval)
	}
	if !ev.Correct || ev.Expected != 'a' {
		t.Fatalf("expected correct keystroke, got %+v", ev)
	}

	ev, err = tr.Record('x', start.Add(250*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Interval != 100*time.Millisecond {
		t.Fatalf("expected 100ms interval, got %v", ev.Interval)
	}
	if ev.Correct {
		t.Fatalf("expected incorrect keystroke")
	}
	if tr.Attempt().Complete() {
		t.Fatalf("attempt with error must not be complete")
	}
	if got := tr.Attempt().Errors(); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestRecordOverflow(t *testing.T) {
	start := time.Unix(0, 0)
	var tr Tracker
	tr.Begin("a", start)
	if _, err := tr.Record('b', start.Add(time.Millisecond)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev, err := tr.Record('c', start.Add(2*time.Millisecond))
	if !errors.Is(err, ErrWordOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if !ev.Overflow || ev.Correct {
		t.Fatalf("expected incorrect overflow event, got %+v", ev)
	}
	a := tr.Attempt()
	if len(a.Events) != 2 || len(a.Typed) != 1 {
		t.Fatalf("overflow must be recorded without extending typed text: events=%d typed=%d", len(a.Events), len(a.Typed))
	}
}

func TestBackspaceKeepsEvents(t *testing.T) {
	start := time.Unix(0, 0)
	var tr Tracker
	tr.Begin("ok", start)
	_, _ = tr.Record('o', start.Add(time.Millisecond))
	_, _ = tr.Record('x', start.Add(2*time.Millisecond))
	if !tr.Backspace() {
		t.Fatalf("expected backspace to remove a rune")
	}
	_, _ = tr.Record('k', start.Add(3*time.Millisecond))
	a := tr.Attempt()
	if !a.Complete() {
		t.Fatalf("expected corrected attempt to be complete")
	}
	if a.Clean() {
		t.Fatalf("corrected attempt must not be clean")
	}
	correct, incorrect := a.Tally()
	if correct != 2 || incorrect != 1 {
		t.Fatalf("unexpected tally %d/%d", correct, incorrect)
	}
}

func TestRecordWithoutWord(t *testing.T) {
	var tr Tracker
	if _, err := tr.Record('a', time.Now()); err == nil {
		t.Fatalf("expected error without a word in progress")
	}
	if tr.Backspace() {
		t.Fatalf("backspace without a word must be a no-op")
	}
}
