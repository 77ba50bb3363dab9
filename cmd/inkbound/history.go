package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/inkbound/internal/config"
	"github.com/verte-zerg/inkbound/internal/faction"
	"github.com/verte-zerg/inkbound/internal/model"
	"github.com/verte-zerg/inkbound/internal/stats"
	"github.com/verte-zerg/inkbound/internal/statsui"
	"github.com/verte-zerg/inkbound/internal/store"
)

const defaultCurveWindow = 10

var (
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyInteractive bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past encounters",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N encounters")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVarP(&historyInteractive, "interactive", "i", false, "browse history in a full-screen view")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg := model.HistoryConfig{
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}
	if historyInteractive {
		if _, err := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("failed to run history view: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	w := cmd.OutOrStdout()
	if err := stats.RenderSummary(w, report.Encounters); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Encounters, historyCurveWindow, 0, stats.UseColor()); err != nil {
		return err
	}
	if err := stats.RenderEncounterTable(w, report.Encounters, 5); err != nil {
		return err
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow); err != nil {
		return err
	}
	if top := stats.TopCharsByFrequency(report.CharAggsAll, 10); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "Most typed: %s\n\n", strings.Join(top, " ")); err != nil {
			return err
		}
	}
	lines := []string{fmt.Sprintf("Ink: %d", report.Ink), "Standings:"}
	names := append([]string(nil), faction.All...)
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %-15s %+4d", name, report.Standings[name]))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
