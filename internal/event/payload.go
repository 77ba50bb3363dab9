package event

import "time"

// Outcome is how an encounter ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	Victory
	Defeat
	Fled
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "none"
	}
}

// FailReason explains a WordFailed event. Completed words carry NotFailed.
type FailReason int

const (
	NotFailed FailReason = iota
	Timeout
	Mistyped
	EscapeFailed
)

func (r FailReason) String() string {
	switch r {
	case NotFailed:
		return "none"
	case Timeout:
		return "timeout"
	case Mistyped:
		return "mistyped"
	case EscapeFailed:
		return "escape_failed"
	default:
		return "unknown"
	}
}

// CombatStartedPayload opens an encounter.
type CombatStartedPayload struct {
	EncounterID string
	Enemy       string
	Faction     string
	Boss        bool
	EnemyHP     int
	PlayerHP    int
}

// WordPresentedPayload carries the next word and its time limit.
type WordPresentedPayload struct {
	Word  string
	Turn  int
	Limit time.Duration
}

// KeystrokeTypedPayload is one keypress and its damage contribution.
type KeystrokeTypedPayload struct {
	Typed       rune
	Expected    rune
	Correct     bool
	Damage      float64
	Intensity   float64
	VisualError bool
}

// FlowChangedPayload names the flow states before and after a transition.
type FlowChangedPayload struct {
	From string
	To   string
}

// WordResultPayload is shared by WordCompleted and WordFailed.
type WordResultPayload struct {
	Word     string
	Typed    string
	Clean    bool
	Damage   int
	Crit     bool
	Reason   FailReason
	Duration time.Duration
}

// DamageDealtPayload is damage applied to the enemy.
type DamageDealtPayload struct {
	Amount   int
	Overkill int
	Crit     bool
	EnemyHP  int
}

// ComboPayload is shared by ComboAchieved and ComboBroken.
type ComboPayload struct {
	Streak     int
	Multiplier float64
}

// EnemyAttackPayload is shared by DamageTaken and Evaded.
type EnemyAttackPayload struct {
	Raw      int
	Amount   int
	PlayerHP int
}

// TurnEndedPayload marks the end of an enemy turn.
type TurnEndedPayload struct {
	Turn int
}

// EnemyDefeatedPayload carries the rewards of a defeated enemy.
type EnemyDefeatedPayload struct {
	Enemy   string
	Faction string
	Boss    bool
	XP      int
	Gold    int
}

// CombatEndedPayload closes an encounter with a victory or defeat.
type CombatEndedPayload struct {
	EncounterID string
	Outcome     Outcome
	Victory     bool
	Turns       int
}

// CombatAbandonedPayload closes an encounter that was fled or quit.
type CombatAbandonedPayload struct {
	EncounterID string
	Reason      string
}

// FactionStandingPayload is a standing change for one faction.
type FactionStandingPayload struct {
	Faction string
	Old     int
	New     int
}

// InkAwardedPayload is meta currency earned by the run.
type InkAwardedPayload struct {
	Amount  int
	Reason  string
	Balance int
}

// CorruptionChangedPayload is the corruption now active for the run.
type CorruptionChangedPayload struct {
	Kind  string
	Level int
}

// LoreUnlockedPayload names a newly unlocked lore fragment.
type LoreUnlockedPayload struct {
	ID    string
	Title string
}
