// Package tui provides the Bubble Tea combat interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/game"
	"github.com/verte-zerg/inkbound/internal/stats"
)

// DefaultTick is the game loop interval.
const DefaultTick = 50 * time.Millisecond

type tickMsg time.Time

// Model implements the Bubble Tea combat UI. Key presses are queued on the
// game loop and processed on its next tick.
type Model struct {
	loop  *game.Loop
	clock game.Clock
	every time.Duration
	feed  *Feed

	playerBar progress.Model
	enemyBar  progress.Model
	timerBar  progress.Model

	width  int
	height int
	err    error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	hotStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD666"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	feedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

// NewModel constructs the combat UI around a run.
func NewModel(loop *game.Loop, clock game.Clock, every time.Duration) *Model {
	if clock == nil {
		clock = game.SystemClock{}
	}
	if every <= 0 {
		every = DefaultTick
	}
	feed := NewFeed(6)
	loop.Register(feed)
	return &Model{
		loop:      loop,
		clock:     clock,
		every:     every,
		feed:      feed,
		playerBar: progress.New(progress.WithSolidFill("#52C41A"), progress.WithoutPercentage()),
		enemyBar:  progress.New(progress.WithSolidFill("#FF4D4F"), progress.WithoutPercentage()),
		timerBar:  progress.New(progress.WithGradient("#FF4D4F", "#C89A3A"), progress.WithoutPercentage()),
	}
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width / 3
		if barWidth < 10 {
			barWidth = 10
		}
		m.playerBar.Width = barWidth
		m.enemyBar.Width = barWidth
		m.timerBar.Width = barWidth
		return m, nil
	case tickMsg:
		return m, m.step()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) step() tea.Cmd {
	now := m.clock.Now()
	if m.loop.Resolver() == nil && m.loop.Awaiting() {
		if err := m.loop.NextEncounter(now); err != nil {
			m.err = err
			return tea.Quit
		}
	}
	if err := m.loop.Tick(now); err != nil {
		m.err = err
		return tea.Quit
	}
	return m.tick()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.quit()
		return tea.Quit
	}
	if m.loop.Over() {
		return tea.Quit
	}
	if m.loop.Awaiting() {
		switch msg.Type {
		case tea.KeyEnter:
			if err := m.loop.NextEncounter(m.clock.Now()); err != nil {
				m.err = err
				return tea.Quit
			}
		case tea.KeyEsc:
			m.quit()
		}
		return nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.loop.Key(game.Input{Kind: game.KeyBackspace})
	case tea.KeyEnter:
		m.loop.Key(game.Input{Kind: game.KeySubmit})
	case tea.KeyEsc:
		m.loop.Key(game.Input{Kind: game.KeyFlee})
	case tea.KeySpace:
		m.loop.Key(game.Input{Kind: game.KeyRune, Rune: ' '})
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.loop.Key(game.Input{Kind: game.KeyRune, Rune: r})
		}
	}
	return nil
}

// quit ends the run and flushes the abandon event through one tick.
func (m *Model) quit() {
	m.loop.Key(game.Input{Kind: game.KeyQuit})
	if err := m.loop.Tick(m.clock.Now()); err != nil {
		m.err = err
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	r := m.loop.Resolver()
	if r == nil {
		return ""
	}
	v := r.View(m.clock.Now())
	sections := []string{m.renderHeader(v), m.renderBars(v)}
	switch {
	case m.loop.Over():
		sections = append(sections, m.renderRunOver())
	case v.State.Terminal():
		sections = append(sections, m.renderSummary(r.Summary()))
	default:
		sections = append(sections, m.renderWord(v), m.renderStatus(v))
	}
	if lines := m.feed.Lines(); len(lines) > 0 {
		sections = append(sections, feedStyle.Render(strings.Join(lines, "\n")))
	}
	sections = append(sections, footerStyle.Render(m.help(v)))
	content := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderHeader(v combat.View) string {
	name := v.Enemy.Name
	if v.Enemy.Boss {
		name += " (boss)"
	}
	c := m.loop.Corruption()
	header := fmt.Sprintf("Zone %d · Turn %d · %s", m.loop.Zone(), v.Turn, name)
	if c.Active() {
		header += fmt.Sprintf(" · %s %d", c.Kind, c.Level)
	}
	return titleStyle.Render(header)
}

func (m *Model) renderBars(v combat.View) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%-12s %s %d/%d", "You", m.playerBar.ViewAs(v.Player.Ratio()), v.Player.HP, v.Player.MaxHP),
		fmt.Sprintf("%-12s %s %d/%d", truncate(v.Enemy.Name, 12), m.enemyBar.ViewAs(v.Enemy.Ratio()), v.Enemy.HP, v.Enemy.MaxHP),
	)
}

func (m *Model) renderWord(v combat.View) string {
	glyphs := wordGlyphs([]rune(v.Word), []rune(v.Typed), v.Intensity, v.VisualError)
	width := m.width * 2 / 3
	if width <= 0 {
		width = 60
	}
	left := 0.0
	if v.Limit > 0 {
		left = float64(v.Remaining) / float64(v.Limit)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		wrapGlyphs(glyphs, width),
		m.timerBar.ViewAs(left),
		"",
	)
}

func (m *Model) renderStatus(v combat.View) string {
	segments := []string{
		fmt.Sprintf("Flow %s", v.Flow),
		fmt.Sprintf("Rhythm %.0f%%", v.Consistency*100),
		fmt.Sprintf("Combo %d x%.1f", v.Combo.Streak, v.Combo.Multiplier),
	}
	if v.Modifiers.Transcendent {
		segments = append(segments, "TRANSCENDENT")
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderSummary(s combat.Summary) string {
	wpm, _, acc := stats.EncounterMetrics(s.Correct, s.Incorrect, s.TypingTime.Milliseconds())
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		titleStyle.Render(strings.ToUpper(s.Outcome.String())),
		fmt.Sprintf("Turns %d · Words %d (%d clean, %d failed)", s.Turns, s.WordsCompleted, s.WordsClean, s.WordsFailed),
		fmt.Sprintf("%.1f WPM · %.1f%% · best combo %d", wpm, acc*100, s.MaxCombo),
		fmt.Sprintf("Dealt %d · Taken %d · Crits %d · Evasions %d", s.DamageDealt, s.DamageTaken, s.Crits, s.Evasions),
		"",
	)
}

func (m *Model) renderRunOver() string {
	title := "THE INK RUNS DRY"
	if m.loop.Won() {
		title = "THE LAST PAGE IS WRITTEN"
	}
	balance, earned := m.loop.Ink()
	lines := []string{"", titleStyle.Render(title),
		fmt.Sprintf("Encounters %d · Ink +%d (balance %d)", len(m.loop.Summaries()), earned, balance)}
	for _, f := range m.loop.Lore() {
		lines = append(lines, "Lore: "+f.Title)
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, "")...)
}

func (m *Model) help(v combat.View) string {
	switch {
	case m.loop.Over():
		return "any key: exit"
	case v.State.Terminal():
		return "enter: next encounter · esc: end run"
	case v.Enemy.Boss:
		return "type the sentence · enter: submit · ctrl+c: quit"
	default:
		return "type the word · enter: submit · esc: flee · ctrl+c: quit"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
