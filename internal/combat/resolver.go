// Package combat runs one encounter as a state machine, turning keystrokes
// into damage and enemy turns into damage taken.
package combat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/inkbound/internal/combo"
	"github.com/verte-zerg/inkbound/internal/corruption"
	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/keystroke"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/modifier"
	"github.com/verte-zerg/inkbound/internal/rhythm"
)

// WordRequest describes the word the resolver needs next.
type WordRequest struct {
	Zone       int
	Theme      string
	Boss       bool
	Turn       int
	Corruption corruption.Effect
}

// WordSource supplies words to type. Corruption is applied by the source.
type WordSource interface {
	Next(req WordRequest) string
}

// Config tunes one encounter.
type Config struct {
	Rhythm           rhythm.Config
	Combo            combo.Config
	TimePerChar      time.Duration
	MinWordTime      time.Duration
	MaxWordTime      time.Duration
	FleeChance       float64
	ReductionCeiling float64
}

// DefaultConfig returns the default encounter tuning.
func DefaultConfig() Config {
	return Config{
		Rhythm:           rhythm.DefaultConfig(),
		Combo:            combo.DefaultConfig(),
		TimePerChar:      600 * time.Millisecond,
		MinWordTime:      4 * time.Second,
		MaxWordTime:      20 * time.Second,
		FleeChance:       0.5,
		ReductionCeiling: modifier.DefaultReductionCeiling,
	}
}

// TimeLimit returns the time allowed to type word.
func (c Config) TimeLimit(word string) time.Duration {
	limit := time.Duration(utf8.RuneCountInString(word)) * c.TimePerChar
	if limit < c.MinWordTime {
		limit = c.MinWordTime
	}
	if c.MaxWordTime > 0 && limit > c.MaxWordTime {
		limit = c.MaxWordTime
	}
	return limit
}

// Setup is the immutable input of one encounter.
type Setup struct {
	EncounterID string
	Zone        int
	Player      Combatant
	Skills      []modifier.SkillEffect
	Enemy       Enemy
	Corruption  corruption.Effect
	Run         []modifier.RunModifier
	Words       WordSource
	Events      event.Emitter
	Rand        *rand.Rand
	Log         *logging.Logger
}

// Resolver owns the live combatants and modifier set of one encounter.
type Resolver struct {
	cfg   Config
	setup Setup

	state  State
	player Combatant
	enemy  Enemy
	mods   modifier.Result

	tracker  keystroke.Tracker
	analyzer *rhythm.Analyzer
	combo    *combo.Tracker
	contrib  []float64
	last     rhythm.Contribution

	turn        int
	deadline    time.Time
	pending     int
	pendingCrit bool
	warned      bool
	clamped     map[string]bool

	summary Summary
}

// NewResolver prepares an encounter in the Idle state.
func NewResolver(cfg Config, s Setup) (*Resolver, error) {
	if s.Words == nil {
		return nil, errors.New("combat: word source is required")
	}
	if s.Events == nil {
		return nil, errors.New("combat: event emitter is required")
	}
	if s.Rand == nil {
		return nil, errors.New("combat: random source is required")
	}
	if s.Player.MaxHP <= 0 || s.Enemy.MaxHP <= 0 {
		return nil, fmt.Errorf("combat: combatants need positive max HP (player %d, enemy %d)", s.Player.MaxHP, s.Enemy.MaxHP)
	}
	player := s.Player
	if player.HP > player.MaxHP {
		player.HP = player.MaxHP
	}
	if player.HP <= 0 {
		return nil, errors.New("combat: player starts defeated")
	}
	return &Resolver{
		cfg:      cfg,
		setup:    s,
		player:   player,
		enemy:    s.Enemy,
		analyzer: rhythm.NewAnalyzer(cfg.Rhythm),
		combo:    combo.NewTracker(cfg.Combo),
		summary: Summary{
			EncounterID: s.EncounterID,
			Enemy:       s.Enemy.Name,
			Chars:       map[string]*CharTally{},
		},
	}, nil
}

// State returns the current state.
func (r *Resolver) State() State {
	return r.state
}

// Player returns a copy of the player combatant.
func (r *Resolver) Player() Combatant {
	return r.player
}

// Enemy returns a copy of the enemy.
func (r *Resolver) Enemy() Enemy {
	return r.enemy
}

// Modifiers returns the current resolved modifiers.
func (r *Resolver) Modifiers() modifier.Result {
	return r.mods
}

// Start resolves modifiers, scales the enemy and presents the first word.
func (r *Resolver) Start(now time.Time) error {
	if r.state != Idle {
		return &TransitionError{State: r.state, Op: "start"}
	}
	r.resolveModifiers()
	scale := r.mods.Run
	r.enemy.MaxHP = scaleStat(r.setup.Enemy.MaxHP, scale.EnemyHealth, 1)
	r.enemy.HP = r.enemy.MaxHP
	r.enemy.Attack = scaleStat(r.setup.Enemy.Attack, scale.EnemyDamage, 0)
	r.summary.StartedAt = now

	r.emit(event.CombatStarted, event.CombatStartedPayload{
		EncounterID: r.setup.EncounterID,
		Enemy:       r.enemy.Name,
		Faction:     r.enemy.Faction,
		Boss:        r.enemy.Boss,
		EnemyHP:     r.enemy.HP,
		PlayerHP:    r.player.HP,
	})
	return r.presentWord(now)
}

// Type records one keypress for the word in progress. A keypress past the
// end of the word returns an error wrapping keystroke.ErrWordOverflow and
// has no other effect.
func (r *Resolver) Type(ch rune, now time.Time) error {
	if r.state != WordInProgress {
		return &TransitionError{State: r.state, Op: "type"}
	}
	ev, err := r.tracker.Record(ch, now)
	if errors.Is(err, keystroke.ErrWordOverflow) {
		r.summary.Incorrect++
		r.emit(event.InputOverflow, event.KeystrokeTypedPayload{Typed: ch, VisualError: true})
		return fmt.Errorf("combat: %w", err)
	}
	if err != nil {
		return fmt.Errorf("combat: failed to record keystroke: %w", err)
	}

	attempt := r.tracker.Attempt()
	if len(attempt.Events) > 1 {
		from := r.analyzer.Flow()
		obs := r.analyzer.Observe(ev.Interval)
		if obs.Transition != rhythm.None {
			r.emit(event.FlowChanged, event.FlowChangedPayload{From: from.String(), To: r.analyzer.Flow().String()})
		}
	}
	c := rhythm.KeystrokeDamage(r.cfg.Rhythm, ev.Correct, ev.Interval, r.analyzer.Consistency())
	r.contrib = append(r.contrib, c.Damage)
	r.last = c
	r.tally(ev)

	r.emit(event.KeystrokeTyped, event.KeystrokeTypedPayload{
		Typed:       ev.Typed,
		Expected:    ev.Expected,
		Correct:     ev.Correct,
		Damage:      c.Damage,
		Intensity:   c.Intensity,
		VisualError: c.VisualError,
	})
	if attempt.Complete() {
		r.finishWord(now, true, event.NotFailed)
	}
	return nil
}

// Backspace removes the last typed rune and its damage contribution.
func (r *Resolver) Backspace() error {
	if r.state != WordInProgress {
		return &TransitionError{State: r.state, Op: "backspace"}
	}
	if r.tracker.Backspace() && len(r.contrib) > 0 {
		r.contrib = r.contrib[:len(r.contrib)-1]
	}
	return nil
}

// Submit commits the word as typed. A mismatch resolves the word as failed.
// Submitting nothing is a no-op.
func (r *Resolver) Submit(now time.Time) error {
	if r.state != WordInProgress {
		return &TransitionError{State: r.state, Op: "submit"}
	}
	attempt := r.tracker.Attempt()
	if attempt == nil || len(attempt.Typed) == 0 {
		return nil
	}
	r.finishWord(now, attempt.Complete(), event.Mistyped)
	return nil
}

// Flee tries to escape. Success ends the encounter as Fled; failure costs the
// word and hands the turn to the enemy.
func (r *Resolver) Flee(now time.Time) error {
	if r.state != WordInProgress {
		return &TransitionError{State: r.state, Op: "flee"}
	}
	if r.enemy.Boss {
		return ErrCannotFlee
	}
	if r.setup.Rand.Float64() < r.cfg.FleeChance {
		r.abandon(now, "fled")
		return nil
	}
	r.finishWord(now, false, event.EscapeFailed)
	return nil
}

// Abandon ends the encounter without a victory or defeat.
func (r *Resolver) Abandon(now time.Time, reason string) error {
	if r.state.Terminal() {
		return &TransitionError{State: r.state, Op: "abandon"}
	}
	r.abandon(now, reason)
	return nil
}

// Tick expires the word on timeout and then runs automatic transitions.
func (r *Resolver) Tick(now time.Time) error {
	if r.state == WordInProgress && !now.Before(r.deadline) {
		r.finishWord(now, false, event.Timeout)
	}
	return r.Advance(now)
}

// Advance runs automatic transitions until the resolver waits for input or ends.
func (r *Resolver) Advance(now time.Time) error {
	for {
		moved, err := r.Step(now)
		if err != nil || !moved {
			return err
		}
	}
}

// Step performs at most one automatic transition.
func (r *Resolver) Step(now time.Time) (bool, error) {
	switch r.state {
	case WordResolved:
		r.applyWordDamage(now)
		return true, nil
	case EnemyTurn:
		return true, r.enemyTurn(now)
	default:
		return false, nil
	}
}

func (r *Resolver) finishWord(now time.Time, completed bool, reason event.FailReason) {
	attempt := r.tracker.Attempt()
	cs := r.combo.OnWordResult(completed)

	dmg := 0.0
	crit := false
	if completed {
		reason = event.NotFailed
		var base float64
		for _, c := range r.contrib {
			base += c
		}
		set := r.mods.Player
		dmg = base * set.DamageMultiplier * cs.Multiplier
		if chance := r.critChance(); chance > 0 && r.setup.Rand.Float64() < chance {
			crit = true
			dmg *= set.CritMultiplier
		}
	}
	amount := int(math.Round(dmg))
	if amount < 0 || math.IsNaN(dmg) {
		amount = 0
	}
	r.pending = amount
	r.pendingCrit = crit

	payload := event.WordResultPayload{
		Word:     string(attempt.Target),
		Typed:    string(attempt.Typed),
		Clean:    attempt.Clean(),
		Damage:   amount,
		Crit:     crit,
		Reason:   reason,
		Duration: now.Sub(attempt.Start),
	}
	r.summary.TypingTime += payload.Duration
	if completed {
		r.summary.WordsCompleted++
		if payload.Clean {
			r.summary.WordsClean++
		}
		if crit {
			r.summary.Crits++
		}
		r.emit(event.WordCompleted, payload)
		if combo.IsMilestone(cs.Streak) {
			r.emit(event.ComboAchieved, event.ComboPayload{Streak: cs.Streak, Multiplier: cs.Multiplier})
		}
	} else {
		r.summary.WordsFailed++
		r.emit(event.WordFailed, payload)
	}
	if cs.Broken > 0 {
		r.emit(event.ComboBroken, event.ComboPayload{Streak: cs.Broken, Multiplier: cs.Multiplier})
	}
	if cs.Streak > r.summary.MaxCombo {
		r.summary.MaxCombo = cs.Streak
	}

	r.tracker.Reset()
	r.contrib = r.contrib[:0]
	r.state = WordResolved
}

func (r *Resolver) applyWordDamage(now time.Time) {
	dealt := r.enemy.Damage(r.pending)
	if r.pending > 0 {
		r.emit(event.DamageDealt, event.DamageDealtPayload{
			Amount:   dealt,
			Overkill: r.pending - dealt,
			Crit:     r.pendingCrit,
			EnemyHP:  r.enemy.HP,
		})
	}
	r.summary.DamageDealt += dealt
	r.pending = 0
	r.pendingCrit = false
	if !r.enemy.Alive() {
		r.finish(now, Victory)
		return
	}
	r.state = EnemyTurn
}

func (r *Resolver) enemyTurn(now time.Time) error {
	raw := r.enemy.Attack - r.player.Defense
	if raw < 0 {
		raw = 0
	}
	set := r.mods.Player
	if r.setup.Rand.Float64() < set.EvasionChance {
		r.summary.Evasions++
		r.emit(event.Evaded, event.EnemyAttackPayload{Raw: raw, PlayerHP: r.player.HP})
	} else {
		amount := int(math.Round(float64(raw) * (1 - set.DamageReduction)))
		taken := r.player.Damage(amount)
		r.summary.DamageTaken += taken
		r.emit(event.DamageTaken, event.EnemyAttackPayload{Raw: raw, Amount: taken, PlayerHP: r.player.HP})
		if taken > 0 && r.player.Alive() {
			r.resolveModifiers()
		}
	}
	if !r.player.Alive() {
		r.finish(now, Defeat)
		return nil
	}
	r.emit(event.TurnEnded, event.TurnEndedPayload{Turn: r.turn})
	return r.presentWord(now)
}

func (r *Resolver) presentWord(now time.Time) error {
	r.turn++
	word := r.setup.Words.Next(WordRequest{
		Zone:       r.setup.Zone,
		Theme:      r.enemy.Theme,
		Boss:       r.enemy.Boss,
		Turn:       r.turn,
		Corruption: r.mods.Text,
	})
	if word == "" {
		return errors.New("combat: word source returned an empty word")
	}
	limit := r.cfg.TimeLimit(word)
	r.tracker.Begin(word, now)
	r.contrib = r.contrib[:0]
	r.last = rhythm.Contribution{}
	r.deadline = now.Add(limit)
	r.state = WordInProgress
	r.emit(event.WordPresented, event.WordPresentedPayload{Word: word, Turn: r.turn, Limit: limit})
	return nil
}

func (r *Resolver) finish(now time.Time, outcome State) {
	if r.state.Terminal() {
		return
	}
	r.state = outcome
	r.closeOut(now)
	switch outcome {
	case Victory:
		r.summary.Outcome = event.Victory
		r.emit(event.EnemyDefeated, event.EnemyDefeatedPayload{
			Enemy:   r.enemy.Name,
			Faction: r.enemy.Faction,
			Boss:    r.enemy.Boss,
			XP:      r.enemy.XP,
			Gold:    r.enemy.Gold,
		})
		r.emit(event.CombatEnded, event.CombatEndedPayload{EncounterID: r.setup.EncounterID, Outcome: event.Victory, Victory: true, Turns: r.turn})
	case Defeat:
		r.summary.Outcome = event.Defeat
		r.emit(event.CombatEnded, event.CombatEndedPayload{EncounterID: r.setup.EncounterID, Outcome: event.Defeat, Turns: r.turn})
	}
}

func (r *Resolver) abandon(now time.Time, reason string) {
	r.state = Fled
	r.summary.Outcome = event.Fled
	r.closeOut(now)
	r.emit(event.CombatAbandoned, event.CombatAbandonedPayload{EncounterID: r.setup.EncounterID, Reason: reason})
}

func (r *Resolver) closeOut(now time.Time) {
	r.summary.EndedAt = now
	r.summary.Turns = r.turn
	r.tracker.Reset()
	r.contrib = r.contrib[:0]
	r.combo.Reset()
	r.pending = 0
}

func (r *Resolver) resolveModifiers() {
	r.mods = modifier.Resolve(modifier.Base{
		HP:               r.player.HP,
		MaxHP:            r.player.MaxHP,
		ReductionCeiling: r.cfg.ReductionCeiling,
	}, r.setup.Skills, r.setup.Corruption, r.setup.Run)
	for _, c := range r.mods.Contradictions {
		if r.clamped[c.Field] {
			continue
		}
		if r.clamped == nil {
			r.clamped = make(map[string]bool)
		}
		r.clamped[c.Field] = true
		r.setup.Log.Warn("modifier clamped", logging.Fields{
			"encounter": r.setup.EncounterID,
			"field":     c.Field,
			"value":     c.Value,
			"clamped":   c.Clamped,
		})
	}
	if r.mods.Unkillable && !r.warned {
		r.warned = true
		r.setup.Log.Warn("player cannot take damage", logging.Fields{
			"encounter": r.setup.EncounterID,
			"evasion":   r.mods.Player.EvasionChance,
			"reduction": r.mods.Player.DamageReduction,
		})
	}
}

// critChance is the skill crit chance plus the bonus of the current flow state.
func (r *Resolver) critChance() float64 {
	c := r.mods.Player.CritChance + rhythm.CritBonus(r.cfg.Rhythm, r.analyzer.Flow())
	if c > 1 {
		return 1
	}
	return c
}

func (r *Resolver) tally(ev keystroke.Event) {
	key := string(ev.Expected)
	t, ok := r.summary.Chars[key]
	if !ok {
		t = &CharTally{}
		r.summary.Chars[key] = t
	}
	if ev.Correct {
		t.Correct++
		r.summary.Correct++
	} else {
		t.Incorrect++
		r.summary.Incorrect++
	}
	t.Latency += ev.Interval
	t.Samples++
}

func (r *Resolver) emit(t event.Type, payload any) {
	r.setup.Events.Emit(event.New(t, payload))
}

func scaleStat(v int, factor float64, floor int) int {
	out := int(math.Round(float64(v) * factor))
	if out < floor {
		return floor
	}
	return out
}
