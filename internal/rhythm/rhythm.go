// Package rhythm classifies typing cadence and scales per-keystroke damage.
package rhythm

import (
	"math"
	"time"
)

// Config tunes cadence analysis and keystroke damage.
type Config struct {
	Window            int
	UpgradeThreshold  float64
	UpgradeStreak     int
	OutlierTolerance  float64
	BaseDamage        float64
	ReferenceInterval time.Duration
	MaxSpeedFactor    float64
	BonusWeight       float64

	// Crit chance added by each flow state.
	BuildingCrit     float64
	FlowingCrit      float64
	TranscendentCrit float64
}

// DefaultConfig returns the default cadence tuning.
func DefaultConfig() Config {
	return Config{
		Window:            8,
		UpgradeThreshold:  0.85,
		UpgradeStreak:     5,
		OutlierTolerance:  2.0,
		BaseDamage:        1.0,
		ReferenceInterval: 200 * time.Millisecond,
		MaxSpeedFactor:    2.0,
		BonusWeight:       0.5,
		BuildingCrit:      0.05,
		FlowingCrit:       0.15,
		TranscendentCrit:  0.30,
	}
}

// FlowState is the ordered cadence level.
type FlowState int

const (
	Building FlowState = iota
	Flowing
	Transcendent
)

func (f FlowState) String() string {
	switch f {
	case Building:
		return "building"
	case Flowing:
		return "flowing"
	case Transcendent:
		return "transcendent"
	default:
		return "unknown"
	}
}

// Step moves one level in the given direction. The second result is false
// when the move is not possible from f.
func (f FlowState) Step(d Direction) (FlowState, bool) {
	switch d {
	case Upgrade:
		if f >= Transcendent {
			return f, false
		}
		return f + 1, true
	case Downgrade:
		if f <= Building {
			return f, false
		}
		return f - 1, true
	default:
		return f, false
	}
}

// Direction is a flow transition. None means no transition.
type Direction int

const (
	None Direction = iota
	Upgrade
	Downgrade
)

func (d Direction) String() string {
	switch d {
	case Upgrade:
		return "upgrade"
	case Downgrade:
		return "downgrade"
	default:
		return "none"
	}
}

// Evaluation is the result of one cadence evaluation.
type Evaluation struct {
	Consistency float64
	Transition  Direction
}

// Consistency returns 1 minus the squared coefficient of variation of the
// intervals, clamped to [0,1]. Fewer than two intervals yield 0.
func Consistency(intervals []time.Duration) float64 {
	if len(intervals) < 2 {
		return 0
	}
	mean := meanOf(intervals)
	if mean <= 0 {
		return 0
	}
	var variance float64
	for _, iv := range intervals {
		d := float64(iv) - mean
		variance += d * d
	}
	variance /= float64(len(intervals))
	return clamp01(1 - variance/(mean*mean))
}

// Analyzer keeps a rolling interval window and the current flow state.
type Analyzer struct {
	cfg    Config
	window []time.Duration
	streak int
	flow   FlowState
	last   float64
}

// NewAnalyzer creates an analyzer in the Building state.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.Window < 2 {
		cfg.Window = 2
	}
	if cfg.UpgradeStreak < 1 {
		cfg.UpgradeStreak = 1
	}
	return &Analyzer{cfg: cfg}
}

// Flow returns the current flow state.
func (a *Analyzer) Flow() FlowState {
	return a.flow
}

// Consistency returns the consistency of the most recent evaluation.
func (a *Analyzer) Consistency() float64 {
	return a.last
}

// Evaluate scores the given intervals, oldest first. An outlier in the newest
// interval, relative to the mean of the ones before it, yields Downgrade at
// once. Upgrade needs UpgradeStreak consecutive evaluations at or above the
// threshold.
func (a *Analyzer) Evaluate(intervals []time.Duration) Evaluation {
	c := Consistency(intervals)
	a.last = c
	if len(intervals) < 2 {
		a.streak = 0
		return Evaluation{Consistency: c}
	}
	newest := intervals[len(intervals)-1]
	prior := meanOf(intervals[:len(intervals)-1])
	if prior > 0 && float64(newest) > a.cfg.OutlierTolerance*prior {
		a.streak = 0
		return Evaluation{Consistency: c, Transition: Downgrade}
	}
	if c >= a.cfg.UpgradeThreshold {
		a.streak++
		if a.streak >= a.cfg.UpgradeStreak {
			a.streak = 0
			return Evaluation{Consistency: c, Transition: Upgrade}
		}
		return Evaluation{Consistency: c}
	}
	a.streak = 0
	return Evaluation{Consistency: c}
}

// Observe pushes an interval into the window, evaluates it and applies the
// resulting transition. Transitions that cannot apply are reported as None.
func (a *Analyzer) Observe(interval time.Duration) Evaluation {
	a.window = append(a.window, interval)
	if len(a.window) > a.cfg.Window {
		a.window = a.window[len(a.window)-a.cfg.Window:]
	}
	ev := a.Evaluate(a.window)
	next, ok := a.flow.Step(ev.Transition)
	if !ok {
		ev.Transition = None
		return ev
	}
	a.flow = next
	return ev
}

// Reset clears the window and returns to Building.
func (a *Analyzer) Reset() {
	a.window = a.window[:0]
	a.streak = 0
	a.flow = Building
	a.last = 0
}

// Contribution is the damage and feedback of one keystroke.
type Contribution struct {
	Damage      float64
	Intensity   float64
	VisualError bool
}

// SpeedFactor grows as the interval shrinks below the reference, bounded by MaxSpeedFactor.
func SpeedFactor(cfg Config, interval time.Duration) float64 {
	if interval <= 0 {
		return cfg.MaxSpeedFactor
	}
	f := float64(cfg.ReferenceInterval) / float64(interval)
	if f > cfg.MaxSpeedFactor {
		return cfg.MaxSpeedFactor
	}
	return f
}

// Bonus returns the rhythm multiplier for a consistency value.
func Bonus(cfg Config, consistency float64) float64 {
	return 1 + cfg.BonusWeight*clamp01(consistency)
}

// CritBonus returns the crit chance the flow state adds to a finished word.
func CritBonus(cfg Config, f FlowState) float64 {
	switch f {
	case Building:
		return clamp01(cfg.BuildingCrit)
	case Flowing:
		return clamp01(cfg.FlowingCrit)
	case Transcendent:
		return clamp01(cfg.TranscendentCrit)
	default:
		return 0
	}
}

// KeystrokeDamage computes the contribution of one keystroke. Incorrect
// keystrokes contribute nothing and raise the visual error signal.
func KeystrokeDamage(cfg Config, correct bool, interval time.Duration, consistency float64) Contribution {
	if !correct {
		return Contribution{VisualError: true}
	}
	speed := SpeedFactor(cfg, interval)
	intensity := 0.0
	if cfg.MaxSpeedFactor > 0 {
		intensity = clamp01(speed / cfg.MaxSpeedFactor * (0.5 + 0.5*clamp01(consistency)))
	}
	return Contribution{
		Damage:    cfg.BaseDamage * speed * Bonus(cfg, consistency),
		Intensity: intensity,
	}
}

func meanOf(intervals []time.Duration) float64 {
	if len(intervals) == 0 {
		return 0
	}
	var sum float64
	for _, iv := range intervals {
		sum += float64(iv)
	}
	return sum / float64(len(intervals))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
