// Package combo tracks streaks of fully correct words.
package combo

// Config controls the combo multiplier curve.
type Config struct {
	PerComboBonus float64
	MaxMultiplier float64
}

// DefaultConfig caps the multiplier at 3.0, reached at a streak of 20.
func DefaultConfig() Config {
	return Config{PerComboBonus: 0.10, MaxMultiplier: 3.0}
}

// State is the streak after a word result.
type State struct {
	Streak     int
	Multiplier float64
	// Broken holds the streak lost by this result, 0 if none.
	Broken int
}

// Multiplier returns min(MaxMultiplier, 1 + streak*PerComboBonus).
func Multiplier(cfg Config, streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	maxMult := cfg.MaxMultiplier
	if maxMult < 1 {
		maxMult = 1
	}
	m := 1 + float64(streak)*cfg.PerComboBonus
	if m > maxMult {
		return maxMult
	}
	if m < 1 {
		return 1
	}
	return m
}

// IsMilestone reports streak values worth announcing: 5, 10, 25, 50 and every 100.
func IsMilestone(streak int) bool {
	switch streak {
	case 5, 10, 25, 50:
		return true
	}
	return streak > 0 && streak%100 == 0
}

// Tracker holds the live streak.
type Tracker struct {
	cfg    Config
	streak int
	best   int
}

// NewTracker creates a tracker with an empty streak.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// OnWordResult increments the streak for a fully correct word and resets it otherwise.
func (t *Tracker) OnWordResult(fullyCorrect bool) State {
	if !fullyCorrect {
		broken := t.streak
		t.streak = 0
		return State{Streak: 0, Multiplier: Multiplier(t.cfg, 0), Broken: broken}
	}
	t.streak++
	if t.streak > t.best {
		t.best = t.streak
	}
	return t.State()
}

// State returns the current streak without changing it.
func (t *Tracker) State() State {
	return State{Streak: t.streak, Multiplier: Multiplier(t.cfg, t.streak)}
}

// Best returns the longest streak since the tracker was created.
func (t *Tracker) Best() int {
	return t.best
}

// Reset drops the streak, keeping Best.
func (t *Tracker) Reset() {
	t.streak = 0
}
