// Package keystroke records per-word keypresses with their timing.
package keystroke

import (
	"errors"
	"time"
)

// ErrWordOverflow reports a keypress received after every target position was filled.
var ErrWordOverflow = errors.New("word overflow")

// Event is a single recorded keypress. Events are never modified after Record returns them.
type Event struct {
	Typed    rune
	Expected rune // 0 for overflow keystrokes
	Correct  bool
	Overflow bool
	Index    int
	At       time.Time
	Interval time.Duration
}

// Attempt is the live state of one word being typed.
type Attempt struct {
	Target []rune
	Typed  []rune
	Events []Event
	Start  time.Time
}

// Complete reports whether the typed text equals the target.
func (a *Attempt) Complete() bool {
	if len(a.Typed) != len(a.Target) || len(a.Target) == 0 {
		return false
	}
	for i := range a.Target {
		if a.Typed[i] != a.Target[i] {
			return false
		}
	}
	return true
}

// Errors counts mismatched runes currently in the typed text.
func (a *Attempt) Errors() int {
	n := 0
	for i, r := range a.Typed {
		if i >= len(a.Target) || r != a.Target[i] {
			n++
		}
	}
	return n
}

// Clean reports whether no incorrect keystroke was recorded, even one later corrected.
func (a *Attempt) Clean() bool {
	for _, ev := range a.Events {
		if !ev.Correct {
			return false
		}
	}
	return true
}

// Tally returns the correct and incorrect keystroke counts, overflow included.
func (a *Attempt) Tally() (correct, incorrect int) {
	for _, ev := range a.Events {
		if ev.Correct {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

// Tracker owns the attempt for the word currently in progress.
type Tracker struct {
	attempt *Attempt
	last    time.Time
}

// Begin starts a new attempt, discarding any previous one.
func (t *Tracker) Begin(target string, start time.Time) {
	t.attempt = &Attempt{
		Target: []rune(target),
		Start:  start,
	}
	t.last = start
}

// Attempt returns the live attempt or nil when no word is in progress.
func (t *Tracker) Attempt() *Attempt {
	return t.attempt
}

// Reset discards the live attempt.
func (t *Tracker) Reset() {
	t.attempt = nil
	t.last = time.Time{}
}

// Record appends a keypress for the next target position. A keypress past the
// end of the target is still recorded, as an incorrect overflow event, and
// ErrWordOverflow is returned alongside it.
func (t *Tracker) Record(typed rune, now time.Time) (Event, error) {
	if t.attempt == nil {
		return Event{}, errors.New("no word in progress")
	}
	a := t.attempt
	interval := now.Sub(t.last)
	if interval < 0 {
		interval = 0
	}
	t.last = now

	idx := len(a.Typed)
	if idx >= len(a.Target) {
		ev := Event{
			Typed:    typed,
			Overflow: true,
			Index:    idx,
			At:       now,
			Interval: interval,
		}
		a.Events = append(a.Events, ev)
		return ev, ErrWordOverflow
	}

	expected := a.Target[idx]
	ev := Event{
		Typed:    typed,
		Expected: expected,
		Correct:  typed == expected,
		Index:    idx,
		At:       now,
		Interval: interval,
	}
	a.Typed = append(a.Typed, typed)
	a.Events = append(a.Events, ev)
	return ev, nil
}

// Backspace removes the last typed rune. Recorded events are kept.
func (t *Tracker) Backspace() bool {
	if t.attempt == nil || len(t.attempt.Typed) == 0 {
		return false
	}
	t.attempt.Typed = t.attempt.Typed[:len(t.attempt.Typed)-1]
	return true
}
