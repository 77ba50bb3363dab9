// Package main provides the CLI entrypoint for inkbound.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/config"
	"github.com/verte-zerg/inkbound/internal/game"
	"github.com/verte-zerg/inkbound/internal/generator"
	"github.com/verte-zerg/inkbound/internal/logging"
	"github.com/verte-zerg/inkbound/internal/model"
	"github.com/verte-zerg/inkbound/internal/random"
	"github.com/verte-zerg/inkbound/internal/runmod"
	"github.com/verte-zerg/inkbound/internal/skill"
	"github.com/verte-zerg/inkbound/internal/stats"
	"github.com/verte-zerg/inkbound/internal/store"
	"github.com/verte-zerg/inkbound/internal/tui"
	"github.com/verte-zerg/inkbound/internal/wordlist"
)

const (
	defaultPreset     = "normal"
	defaultZone       = 1
	defaultMaxHP      = 100
	defaultAttack     = 10
	defaultRestHeal   = 0.3
	defaultCaps       = 0.0
	defaultPunct      = 0.0
	defaultWeakTop    = 8
	defaultWeakFactor = 2.0
	defaultWeakWindow = 20
)

const defaultPunctSet = ".,!?;:"

var (
	runSeed       int64
	runPreset     string
	runZone       int
	runChallenges string
	runEncounters int
	runRestHeal   float64
	playerSkills  string
	playerMaxHP   int

	wordsCaps       float64
	wordsPunct      float64
	wordsPunctSet   string
	wordsExtraFile  string
	wordsFocusWeak  bool
	wordsWeakTop    int
	wordsWeakFactor float64
	wordsWeakWindow int

	logFile string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "inkbound",
		Short:         "Typing roguelike: your keystrokes are your weapon",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.Int64Var(&runSeed, "seed", 0, "run seed (default: random)")
	flags.StringVar(&runPreset, "preset", defaultPreset, "difficulty preset: "+strings.Join(runmod.PresetNames(), ", "))
	flags.IntVar(&runZone, "zone", defaultZone, "starting zone")
	flags.StringVar(&runChallenges, "challenges", "", "comma separated challenge modifiers")
	flags.IntVar(&runEncounters, "encounters", 0, "end the run after N encounters (0: until defeat)")
	flags.Float64Var(&runRestHeal, "rest-heal", defaultRestHeal, "fraction of max HP restored after a victory (0-1)")
	flags.StringVar(&playerSkills, "skills", "", "comma separated unlocked skills")
	flags.IntVar(&playerMaxHP, "max-hp", defaultMaxHP, "player max HP")
	flags.Float64Var(&wordsCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&wordsPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	flags.StringVar(&wordsPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	flags.StringVar(&wordsExtraFile, "extra-words", "", "file with extra words, one per line")
	flags.BoolVar(&wordsFocusWeak, "focus-weak", false, "bias words toward weak characters")
	flags.IntVar(&wordsWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	flags.Float64Var(&wordsWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	flags.IntVar(&wordsWeakWindow, "weak-window", defaultWeakWindow, "number of recent encounters to compute weak chars")
	flags.StringVar(&logFile, "log-file", "", "log file (default: XDG state dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSimCmd())
	rootCmd.AddCommand(newSkillsCmd())

	return rootCmd
}

// loadRunConfig resolves flag > env > file > default into a game config.
func loadRunConfig(cmd *cobra.Command) (game.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return game.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return game.Config{}, err
	}
	envCfg.Overlay(&fileCfg)

	applyInt64Config(cmd, "seed", &runSeed, fileCfg.Run.Seed)
	applyStringConfig(cmd, "preset", &runPreset, fileCfg.Run.Preset)
	applyIntConfig(cmd, "zone", &runZone, fileCfg.Run.Zone)
	applyStringConfig(cmd, "challenges", &runChallenges, joined(fileCfg.Run.Challenges))
	applyIntConfig(cmd, "encounters", &runEncounters, fileCfg.Run.Encounters)
	applyFloatConfig(cmd, "rest-heal", &runRestHeal, fileCfg.Run.RestHeal)
	applyStringConfig(cmd, "skills", &playerSkills, joined(fileCfg.Player.Skills))
	applyIntConfig(cmd, "max-hp", &playerMaxHP, fileCfg.Player.MaxHP)
	applyFloatConfig(cmd, "caps", &wordsCaps, fileCfg.Words.CapsPct)
	applyFloatConfig(cmd, "punct", &wordsPunct, fileCfg.Words.PunctPct)
	applyStringConfig(cmd, "punct-set", &wordsPunctSet, fileCfg.Words.PunctSet)
	applyStringConfig(cmd, "extra-words", &wordsExtraFile, fileCfg.Words.ExtraFile)
	applyBoolConfig(cmd, "focus-weak", &wordsFocusWeak, fileCfg.Words.FocusWeak)
	applyIntConfig(cmd, "weak-top", &wordsWeakTop, fileCfg.Words.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &wordsWeakFactor, fileCfg.Words.WeakFactor)
	applyIntConfig(cmd, "weak-window", &wordsWeakWindow, fileCfg.Words.WeakWindow)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.LogFile)

	if err := validateFlags(); err != nil {
		return game.Config{}, err
	}

	seed := runSeed
	if !cmd.Flags().Changed("seed") && fileCfg.Run.Seed == nil {
		if seed, err = random.NewSeed(); err != nil {
			return game.Config{}, err
		}
	}

	tuning := combat.DefaultConfig()
	fileCfg.ApplyTuning(&tuning)
	if err := config.ValidateTuning(tuning); err != nil {
		return game.Config{}, err
	}

	player := model.PlayerConfig{MaxHP: playerMaxHP, Attack: defaultAttack, Skills: skill.Parse(playerSkills)}
	if fileCfg.Player.Attack != nil {
		player.Attack = *fileCfg.Player.Attack
	}
	if fileCfg.Player.Defense != nil {
		player.Defense = *fileCfg.Player.Defense
	}
	if err := skill.Validate(player.Skills); err != nil {
		return game.Config{}, fmt.Errorf("--skills: %w", err)
	}

	cfg := game.Config{
		Combat: tuning,
		Player: player,
		Run: model.RunConfig{
			Seed:       seed,
			Zone:       runZone,
			Preset:     runPreset,
			Challenges: splitList(runChallenges),
			RestHeal:   runRestHeal,
			Encounters: runEncounters,
		},
		Words: generator.Options{
			CapsPct:    wordsCaps,
			PunctPct:   wordsPunct,
			PunctSet:   []rune(wordsPunctSet),
			WeakFactor: wordsWeakFactor,
		},
	}
	if wordsExtraFile != "" {
		extra, err := wordlist.LoadWords(wordsExtraFile)
		if err != nil {
			return game.Config{}, fmt.Errorf("failed to load extra words: %w", err)
		}
		cfg.Words.Extra = wordlist.Clean(extra, wordlist.Typeable)
		if len(cfg.Words.Extra) == 0 {
			return game.Config{}, fmt.Errorf("no typeable words in %s", wordsExtraFile)
		}
	}
	return cfg, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort log file close.
			_ = cerr
		}
	}()
	logger := logging.Std()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	deps := loadDeps(cmd.Context(), st, logger)
	if wordsFocusWeak {
		cfg.Words.Weak = loadWeakSet(cmd.Context(), st, logger)
	}

	loop, err := game.NewLoop(cfg, deps)
	if err != nil {
		return err
	}
	m := tui.NewModel(loop, game.SystemClock{}, tui.DefaultTick)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	_, earned := loop.Ink()
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Run %s: %d encounters, +%d ink\n", loop.RunID(), len(loop.Summaries()), earned); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadDeps reads persisted ink and standings. Failures fall back to a fresh start.
func loadDeps(ctx context.Context, st *store.Store, logger *logging.Logger) game.Deps {
	if ctx == nil {
		ctx = context.Background()
	}
	deps := game.Deps{Store: st, Log: logger}
	ink, err := st.InkBalance(ctx)
	if err != nil {
		logger.Error("failed to load ink balance", err, nil)
	}
	deps.Ink = ink
	standings, err := st.LoadStandings(ctx)
	if err != nil {
		logger.Error("failed to load faction standings", err, nil)
	}
	deps.Standings = standings
	return deps
}

func loadWeakSet(ctx context.Context, st *store.Store, logger *logging.Logger) map[rune]struct{} {
	if ctx == nil {
		ctx = context.Background()
	}
	aggs, err := st.GetWeakChars(ctx, wordsWeakWindow)
	if err != nil {
		logger.Error("failed to load weak chars", err, nil)
		return nil
	}
	if len(aggs) == 0 {
		logger.Info("no stats available for weak-char focus yet", nil)
		return nil
	}
	return stats.SelectWeakChars(aggs, wordsWeakTop)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func splitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joined(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	s := strings.Join(values, ",")
	return &s
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# inkbound configuration
# Uncomment a value to enable it. INKBOUND_* environment variables override
# the file; CLI flags override both.

# log-file = "/path/to/inkbound.log"

[player]
# max-hp = %d
# attack = %d
# defense = 0
# skills = ["steady_hand", "quick_fingers"]

[run]
# seed = 42
# zone = %d
# preset = %q           # %s
# challenges = []       # e.g. ["tough_enemies", "sharp_quills"]
# rest-heal = %.2f      # Fraction of max HP restored after a victory
# encounters = 0        # End the run after N encounters (0: until defeat)

[words]
# caps = %.2f           # Probability of capitalized first letter (0-1)
# punct = %.2f          # Punctuation probability per word (0-1)
# punct-set = %q
# extra-file = ""       # Extra words, one per line
# focus-weak = false    # Bias words toward weak characters
# weak-top = %d
# weak-factor = %.1f
# weak-window = %d

[combat]
# time-per-char = "600ms"
# min-word-time = "4s"
# max-word-time = "20s"
# flee-chance = 0.5
# reduction-ceiling = 0.9

[rhythm]
# window = 8
# upgrade-threshold = 0.85
# upgrade-streak = 5
# outlier-tolerance = 2.0
# base-damage = 1.0
# reference-interval = "200ms"
# max-speed-factor = 2.0
# bonus-weight = 0.5

[combo]
# per-combo-bonus = 0.10
# max-multiplier = 3.0
`,
		defaultMaxHP,
		defaultAttack,
		defaultZone,
		defaultPreset,
		strings.Join(runmod.PresetNames(), ", "),
		defaultRestHeal,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateFlags() error {
	if runZone < 1 {
		return fmt.Errorf("--zone must be >= 1")
	}
	if runEncounters < 0 {
		return fmt.Errorf("--encounters must be >= 0")
	}
	if runRestHeal < 0 || runRestHeal > 1 {
		return fmt.Errorf("--rest-heal must be between 0 and 1")
	}
	if playerMaxHP <= 0 {
		return fmt.Errorf("--max-hp must be > 0")
	}
	if wordsCaps < 0 || wordsCaps > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if wordsPunct < 0 || wordsPunct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if wordsPunct > 0 && wordsPunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if wordsWeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if wordsWeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if wordsWeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
