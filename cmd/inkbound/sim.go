package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/config"
	"github.com/verte-zerg/inkbound/internal/game"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/random"
	"github.com/verte-zerg/inkbound/internal/stats"
	"github.com/verte-zerg/inkbound/internal/store"
)

const maxSimSteps = 100000

var (
	simInterval  time.Duration
	simJitter    time.Duration
	simErrorRate float64
	simPersist   bool
	simVerbose   bool
)

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run encounters headless with a scripted typist",
		Args:  cobra.NoArgs,
		RunE:  runSimCmd,
	}
	cmd.Flags().DurationVar(&simInterval, "interval", 120*time.Millisecond, "mean time between keystrokes")
	cmd.Flags().DurationVar(&simJitter, "jitter", 20*time.Millisecond, "maximum deviation from the interval")
	cmd.Flags().Float64Var(&simErrorRate, "error-rate", 0.03, "probability of a wrong keystroke (0-1)")
	cmd.Flags().BoolVar(&simPersist, "persist", false, "record encounters in the history database")
	cmd.Flags().BoolVar(&simVerbose, "verbose", false, "log game events as JSON lines to stderr")
	return cmd
}

// typist presses the right key most of the time and fixes its own mistakes.
type typist struct {
	rng       *rand.Rand
	interval  time.Duration
	jitter    time.Duration
	errorRate float64
}

func (t typist) delay() time.Duration {
	d := t.interval
	if t.jitter > 0 {
		d += time.Duration(t.rng.Int63n(int64(2*t.jitter))) - t.jitter
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

func (t typist) next(v combat.View) game.Input {
	target := []rune(v.Word)
	typed := []rune(v.Typed)
	for i, r := range typed {
		if i >= len(target) || r != target[i] {
			return game.Input{Kind: game.KeyBackspace}
		}
	}
	want := target[len(typed)]
	if t.rng.Float64() < t.errorRate {
		wrong := 'a' + rune(t.rng.Intn(26))
		if wrong == want {
			wrong = '#'
		}
		return game.Input{Kind: game.KeyRune, Rune: wrong}
	}
	return game.Input{Kind: game.KeyRune, Rune: want}
}

func runSimCmd(cmd *cobra.Command, _ []string) error {
	if simErrorRate < 0 || simErrorRate > 1 {
		return fmt.Errorf("--error-rate must be between 0 and 1")
	}
	if simInterval <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}
	if simJitter < 0 || simJitter >= simInterval {
		return fmt.Errorf("--jitter must be >= 0 and below --interval")
	}
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Run.Encounters == 0 {
		cfg.Run.Encounters = 5
	}
	logger := logging.Discard()
	if simVerbose {
		logger = logging.New(cmd.ErrOrStderr())
	}
	deps := game.Deps{Log: logger}
	if simPersist {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		deps = loadDeps(cmd.Context(), st, logger)
	}

	loop, err := game.NewLoop(cfg, deps)
	if err != nil {
		return err
	}
	t := typist{
		rng:       random.New(random.Derive(cfg.Run.Seed, -1)),
		interval:  simInterval,
		jitter:    simJitter,
		errorRate: simErrorRate,
	}
	clock := game.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "seed %d · preset %s · heat %d\n", cfg.Run.Seed, loop.Build().Preset.Name, loop.Build().Heat); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := simulate(loop, clock, t); err != nil {
		return err
	}
	return printSimReport(out, loop)
}

func simulate(loop *game.Loop, clock *game.MockClock, t typist) error {
	for steps := 0; !loop.Over(); {
		if loop.Awaiting() {
			if err := loop.NextEncounter(clock.Now()); err != nil {
				return err
			}
		}
		for !loop.Resolver().State().Terminal() {
			steps++
			if steps > maxSimSteps {
				return fmt.Errorf("simulation did not finish within %d steps", maxSimSteps)
			}
			v := loop.Resolver().View(clock.Now())
			if v.State == combat.WordInProgress {
				loop.Key(t.next(v))
			}
			if err := loop.Tick(clock.Advance(t.delay())); err != nil {
				return err
			}
		}
		// flush events emitted by consumers during the final tick
		if err := loop.Tick(clock.Now()); err != nil {
			return err
		}
	}
	return nil
}

func printSimReport(w io.Writer, loop *game.Loop) error {
	for i, s := range loop.Summaries() {
		wpm, _, acc := stats.EncounterMetrics(s.Correct, s.Incorrect, s.TypingTime.Milliseconds())
		if _, err := fmt.Fprintf(w, "%2d. %-18s %-8s turns %-3d dealt %-4d taken %-4d combo %-3d %.1f wpm %.1f%%\n",
			i+1, s.Enemy, s.Outcome, s.Turns, s.DamageDealt, s.DamageTaken, s.MaxCombo, wpm, acc*100); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	balance, earned := loop.Ink()
	player := loop.Player()
	_, err := fmt.Fprintf(w, "HP %d/%d · zone %d · ink +%d (balance %d) · corruption %s %d\n",
		player.HP, player.MaxHP, loop.Zone(), earned, balance, loop.Corruption().Kind, loop.Corruption().Level)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
