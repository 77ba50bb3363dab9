// Package game runs a typing run one tick at a time: it feeds sampled input
// to the combat resolver, drains the event bus and hands events to consumers.
package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/inkbound/internal/bestiary"
	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/corruption"
	"github.com/verte-zerg/inkbound/internal/event"
	"github.com/verte-zerg/inkbound/internal/faction"
	"github.com/verte-zerg/inkbound/internal/generator"
	"github.com/verte-zerg/inkbound/internal/keystroke"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/meta"
	"github.com/verte-zerg/inkbound/internal/model"
	"github.com/verte-zerg/inkbound/internal/modifier"
	"github.com/verte-zerg/inkbound/internal/narrative"
	"github.com/verte-zerg/inkbound/internal/random"
	"github.com/verte-zerg/inkbound/internal/runmod"
	"github.com/verte-zerg/inkbound/internal/skill"
	"github.com/verte-zerg/inkbound/internal/wordlist"
)

var (
	// ErrRunOver is returned when an encounter is requested after the run ended.
	ErrRunOver = errors.New("game: run is over")
	// ErrEncounterActive is returned when an encounter is requested mid-combat.
	ErrEncounterActive = errors.New("game: encounter still in progress")
)

// Consumer reacts to drained events. A nil EventTypes result subscribes to
// every event.
type Consumer interface {
	EventTypes() []event.Type
	HandleEvent(ev event.GameEvent)
}

// InputKind classifies sampled input.
type InputKind int

const (
	KeyRune InputKind = iota
	KeyBackspace
	KeySubmit
	KeyFlee
	KeyQuit
)

// Input is one sampled key.
type Input struct {
	Kind InputKind
	Rune rune
}

// Store persists run results. Failures are logged and never stop play.
type Store interface {
	meta.Sink
	InsertEncounter(ctx context.Context, rec model.EncounterRecord) error
	SaveStandings(ctx context.Context, standings map[string]int) error
}

// Config describes a run.
type Config struct {
	Combat combat.Config
	Player model.PlayerConfig
	Run    model.RunConfig
	Words  generator.Options
	// Banks overrides the embedded word banks.
	Banks map[string][]string
}

// Deps are the collaborators a run persists through.
type Deps struct {
	Store     Store
	Log       *logging.Logger
	Ink       int
	Standings map[string]int
}

// Loop owns one run.
type Loop struct {
	cfg   Config
	runID string
	log   *logging.Logger
	store Store

	bus       *event.Bus
	rng       *rand.Rand
	words     *generator.Provider
	skills    []modifier.SkillEffect
	build     runmod.Build
	player    combat.Combatant
	zone      int
	inZone    int
	count     int
	resolver  *combat.Resolver
	enemy     bestiary.Template
	settled   bool
	saveStand bool
	over      bool
	won       bool

	inputs    []Input
	consumers []Consumer
	routes    map[event.Type][]Consumer
	wildcard  []Consumer

	narrative  *narrative.Tracker
	reputation *faction.Reputation
	ledger     *meta.Ledger
	summaries  []combat.Summary
}

// NewLoop validates cfg and prepares a run. No encounter starts until
// NextEncounter is called.
func NewLoop(cfg Config, deps Deps) (*Loop, error) {
	if cfg.Player.MaxHP <= 0 {
		return nil, fmt.Errorf("player max HP must be positive, got %d", cfg.Player.MaxHP)
	}
	skills, err := skill.Effects(cfg.Player.Skills)
	if err != nil {
		return nil, err
	}
	build, err := runmod.Resolve(runmod.Selection{Preset: cfg.Run.Preset, Challenges: cfg.Run.Challenges})
	if err != nil {
		return nil, err
	}
	banks := cfg.Banks
	if banks == nil {
		if banks, err = wordlist.Banks(); err != nil {
			return nil, fmt.Errorf("failed to load word banks: %w", err)
		}
	}
	seed := cfg.Run.Seed
	words, err := generator.New(random.New(random.Derive(seed, 0)), banks, cfg.Words)
	if err != nil {
		return nil, err
	}
	zone := cfg.Run.Zone
	if zone < 1 {
		zone = 1
	}

	l := &Loop{
		cfg:    cfg,
		runID:  uuid.NewString(),
		log:    deps.Log,
		store:  deps.Store,
		bus:    event.NewBus(),
		rng:    random.New(random.Derive(seed, 1)),
		words:  words,
		skills: skills,
		build:  build,
		player: combat.Combatant{
			Name:    "You",
			HP:      cfg.Player.MaxHP,
			MaxHP:   cfg.Player.MaxHP,
			Attack:  cfg.Player.Attack,
			Defense: cfg.Player.Defense,
		},
		zone:   zone,
		routes: map[event.Type][]Consumer{},
	}
	reward := modifier.Resolve(modifier.Base{HP: 1, MaxHP: 1}, skills, corruption.Effect{}, build.Modifiers).Run.Reward

	l.narrative = narrative.New(seed, l.bus)
	l.reputation = faction.New(l.bus, deps.Standings)
	var sink meta.Sink
	if deps.Store != nil {
		sink = deps.Store
	}
	l.ledger = meta.NewLedger(l.runID, reward, deps.Ink, l.bus, sink, deps.Log)
	l.Register(l.narrative)
	l.Register(l.reputation)
	l.Register(l.ledger)

	l.log.Info("run started", logging.Fields{
		"run":    l.runID,
		"seed":   seed,
		"preset": build.Preset.Name,
		"heat":   build.Heat,
		"skills": cfg.Player.Skills,
	})
	return l, nil
}

// Register adds a consumer. Consumers see events in drain order. For one
// event, consumers routed by type run before wildcard consumers, each group
// in registration order.
func (l *Loop) Register(c Consumer) {
	l.consumers = append(l.consumers, c)
	types := c.EventTypes()
	if types == nil {
		l.wildcard = append(l.wildcard, c)
		return
	}
	for _, t := range types {
		l.routes[t] = append(l.routes[t], c)
	}
}

// Key queues input for the next tick.
func (l *Loop) Key(in Input) {
	l.inputs = append(l.inputs, in)
}

// NextEncounter spawns the next enemy and starts combat.
func (l *Loop) NextEncounter(now time.Time) error {
	if l.over {
		return ErrRunOver
	}
	if l.resolver != nil && !l.resolver.State().Terminal() {
		return ErrEncounterActive
	}
	l.inZone++
	l.count++
	tmpl, err := bestiary.Pick(l.rng, l.zone, l.inZone)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	r, err := combat.NewResolver(l.cfg.Combat, combat.Setup{
		EncounterID: id,
		Zone:        l.zone,
		Player:      l.player,
		Skills:      l.skills,
		Enemy:       tmpl.Spawn(),
		Corruption:  l.narrative.Current(),
		Run:         l.build.Modifiers,
		Words:       l.words,
		Events:      l.bus,
		Rand:        random.New(random.Derive(l.cfg.Run.Seed, l.count+1)),
		Log:         l.log.With(logging.Fields{"run": l.runID}),
	})
	if err != nil {
		return err
	}
	l.resolver = r
	l.enemy = tmpl
	l.settled = false
	l.log.Debug("encounter started", logging.Fields{"encounter": id, "enemy": tmpl.ID, "zone": l.zone})
	return r.Start(now)
}

// Tick processes queued input, advances combat, then drains the bus and
// dispatches. Events emitted by consumers are delivered on the next tick.
func (l *Loop) Tick(now time.Time) error {
	inputs := l.inputs
	l.inputs = nil
	for _, in := range inputs {
		if err := l.apply(in, now); err != nil {
			return err
		}
	}
	if l.resolver != nil {
		if err := l.resolver.Tick(now); err != nil {
			return err
		}
		if l.resolver.State().Terminal() && !l.settled {
			l.settle()
		}
	}
	for _, ev := range l.bus.Drain() {
		l.dispatch(ev)
	}
	if l.saveStand {
		l.saveStand = false
		l.persistStandings()
	}
	return nil
}

func (l *Loop) apply(in Input, now time.Time) error {
	if in.Kind == KeyQuit {
		if l.resolver != nil && !l.resolver.State().Terminal() {
			if err := l.resolver.Abandon(now, "quit"); err != nil {
				return err
			}
		}
		l.over = true
		return nil
	}
	if l.resolver == nil || l.resolver.State() != combat.WordInProgress {
		return nil
	}
	switch in.Kind {
	case KeyRune:
		err := l.resolver.Type(in.Rune, now)
		if errors.Is(err, keystroke.ErrWordOverflow) {
			return nil
		}
		return err
	case KeyBackspace:
		return l.resolver.Backspace()
	case KeySubmit:
		return l.resolver.Submit(now)
	case KeyFlee:
		err := l.resolver.Flee(now)
		if errors.Is(err, combat.ErrCannotFlee) {
			l.log.Debug("flee refused", logging.Fields{"enemy": l.enemy.ID})
			return nil
		}
		return err
	}
	return nil
}

func (l *Loop) dispatch(ev event.GameEvent) {
	for _, c := range l.routes[ev.Type] {
		c.HandleEvent(ev)
	}
	for _, c := range l.wildcard {
		c.HandleEvent(ev)
	}
}

// settle carries HP out of the finished encounter, persists it and moves
// the run forward.
func (l *Loop) settle() {
	l.settled = true
	s := l.resolver.Summary()
	l.summaries = append(l.summaries, s)
	l.player = l.resolver.Player()
	l.persistEncounter(s)

	switch l.resolver.State() {
	case combat.Victory:
		if l.cfg.Run.RestHeal > 0 {
			l.player.Heal(int(math.Round(float64(l.player.MaxHP) * l.cfg.Run.RestHeal)))
		}
		if l.enemy.Boss {
			l.zone++
			l.inZone = 0
			if l.zone > bestiary.MaxZone {
				l.won = true
				l.over = true
			}
		}
		l.saveStand = true
	case combat.Defeat:
		l.over = true
	}
	if n := l.cfg.Run.Encounters; n > 0 && len(l.summaries) >= n {
		l.over = true
	}
	l.log.Info("encounter finished", logging.Fields{
		"run":       l.runID,
		"encounter": s.EncounterID,
		"enemy":     s.Enemy,
		"outcome":   s.Outcome.String(),
		"turns":     s.Turns,
		"player_hp": l.player.HP,
	})
}

func (l *Loop) persistEncounter(s combat.Summary) {
	if l.store == nil {
		return
	}
	rec := encounterRecord(l.runID, l.zone, l.enemy.Boss, s)
	if err := l.store.InsertEncounter(context.Background(), rec); err != nil {
		l.log.Error("failed to persist encounter", err, logging.Fields{"encounter": s.EncounterID})
	}
}

func (l *Loop) persistStandings() {
	if l.store == nil {
		return
	}
	if err := l.store.SaveStandings(context.Background(), l.reputation.Standings()); err != nil {
		l.log.Error("failed to persist faction standings", err, logging.Fields{"run": l.runID})
	}
}

// Resolver returns the current encounter, or nil before the first one.
func (l *Loop) Resolver() *combat.Resolver {
	return l.resolver
}

// Awaiting reports whether the run waits for NextEncounter.
func (l *Loop) Awaiting() bool {
	return !l.over && (l.resolver == nil || l.resolver.State().Terminal())
}

// Over reports whether the run ended.
func (l *Loop) Over() bool {
	return l.over
}

// Won reports whether the run cleared the deepest zone.
func (l *Loop) Won() bool {
	return l.won
}

// RunID returns the run identifier.
func (l *Loop) RunID() string {
	return l.runID
}

// Zone returns the current zone.
func (l *Loop) Zone() int {
	return l.zone
}

// Player returns the player between encounters.
func (l *Loop) Player() combat.Combatant {
	if l.resolver != nil && !l.resolver.State().Terminal() {
		return l.resolver.Player()
	}
	return l.player
}

// Build returns the resolved run modifiers.
func (l *Loop) Build() runmod.Build {
	return l.build
}

// Summaries returns the finished encounters in order.
func (l *Loop) Summaries() []combat.Summary {
	out := make([]combat.Summary, len(l.summaries))
	copy(out, l.summaries)
	return out
}

// Ink returns the ink balance and the amount earned this run.
func (l *Loop) Ink() (balance, earned int) {
	return l.ledger.Balance(), l.ledger.Earned()
}

// Standings returns faction standings.
func (l *Loop) Standings() map[string]int {
	return l.reputation.Standings()
}

// Corruption returns the active corruption effect.
func (l *Loop) Corruption() corruption.Effect {
	return l.narrative.Current()
}

// Lore returns the unlocked lore fragments.
func (l *Loop) Lore() []narrative.Fragment {
	return l.narrative.Unlocked()
}
