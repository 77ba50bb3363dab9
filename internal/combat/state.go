package combat

import (
	"errors"
	"fmt"
)

// State is a combat state machine state.
type State int

const (
	Idle State = iota
	WordInProgress
	WordResolved
	EnemyTurn
	Victory
	Defeat
	Fled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WordInProgress:
		return "word_in_progress"
	case WordResolved:
		return "word_resolved"
	case EnemyTurn:
		return "enemy_turn"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Victory || s == Defeat || s == Fled
}

var (
	// ErrInvalidTransition means the caller and the resolver disagree about the state.
	ErrInvalidTransition = errors.New("invalid combat transition")
	// ErrCannotFlee is returned when fleeing a boss.
	ErrCannotFlee = errors.New("this enemy cannot be fled from")
)

// TransitionError describes an operation attempted in the wrong state.
type TransitionError struct {
	State State
	Op    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s not allowed in state %s", ErrInvalidTransition, e.Op, e.State)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
