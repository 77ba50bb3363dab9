// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verte-zerg/inkbound/internal/model"
)

const sparkChars = " .:-=+*#%@"

var printer = message.NewPrinter(language.English)

// EncounterMetrics computes WPM, CPM, and accuracy for an encounter's typing time.
func EncounterMetrics(correct, incorrect int, typingMs int64) (wpm, cpm, accuracy float64) {
	if typingMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(typingMs) / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[clampIndex(idx, len(sparkChars))])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// RenderSummary prints a summary of past encounters.
func RenderSummary(w io.Writer, encounters []model.EncounterAggregate) error {
	if len(encounters) == 0 {
		_, err := fmt.Fprintln(w, "No encounters found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestWPM := 0.0
	bestCombo := 0
	victories := 0
	damage := 0
	for _, e := range encounters {
		wpm, _, acc := EncounterMetrics(e.Correct, e.Incorrect, e.TypingMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		if e.MaxCombo > bestCombo {
			bestCombo = e.MaxCombo
		}
		if e.Outcome == "victory" {
			victories++
		}
		damage += e.DamageDealt
	}
	count := float64(len(encounters))
	lines := []string{
		"Summary",
		printer.Sprintf("Encounters: %d (%d won)", len(encounters), victories),
		printer.Sprintf("Avg WPM: %.2f", totalWPM/count),
		printer.Sprintf("Best WPM: %.2f", bestWPM),
		printer.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		printer.Sprintf("Best Combo: %d", bestCombo),
		printer.Sprintf("Damage Dealt: %d", damage),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for WPM, accuracy and combo.
func RenderCurves(w io.Writer, encounters []model.EncounterAggregate, window, totalWidth int, useColor bool) error {
	if len(encounters) == 0 {
		return nil
	}
	wpms := make([]float64, len(encounters))
	accs := make([]float64, len(encounters))
	combos := make([]float64, len(encounters))
	for i, e := range encounters {
		wpm, _, acc := EncounterMetrics(e.Correct, e.Incorrect, e.TypingMs)
		wpms[i] = wpm
		accs[i] = acc * 100
		combos[i] = float64(e.MaxCombo)
	}
	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
		{Name: "Combo", Values: MovingAverage(combos, window)},
	}, PlotWidthFor(totalWidth), useColor)
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := accuracy(sorted[i]), accuracy(sorted[j])
		if ai == aj {
			return sorted[i].Char < sorted[j].Char
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	tbl := newTable(
		column{title: "Char"},
		column{title: "Accuracy", numeric: true},
		column{title: "Avg Latency (ms)", numeric: true},
		column{title: "Correct", numeric: true},
		column{title: "Incorrect", numeric: true},
	)
	for _, agg := range sorted {
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		tbl.add(
			label,
			fmt.Sprintf("%.2f%%", accuracy(agg)*100),
			fmt.Sprintf("%.1f", lat),
			printer.Sprintf("%d", agg.Correct),
			printer.Sprintf("%d", agg.Incorrect),
		)
	}
	if err := tbl.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderEncounterTable prints the most recent encounters, newest last.
func RenderEncounterTable(w io.Writer, encounters []model.EncounterAggregate, limit int) error {
	if len(encounters) == 0 {
		return nil
	}
	if limit > 0 && len(encounters) > limit {
		encounters = encounters[len(encounters)-limit:]
	}
	if _, err := fmt.Fprintln(w, "Recent Encounters"); err != nil {
		return err
	}
	tbl := newTable(
		column{title: "Ended"},
		column{title: "Enemy"},
		column{title: "Outcome"},
		column{title: "WPM", numeric: true},
		column{title: "Accuracy", numeric: true},
		column{title: "Combo", numeric: true},
		column{title: "Damage", numeric: true},
	)
	for _, e := range encounters {
		wpm, _, acc := EncounterMetrics(e.Correct, e.Incorrect, e.TypingMs)
		tbl.add(
			e.EndedAt.Local().Format("Jan 02 15:04"),
			e.Enemy,
			e.Outcome,
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.2f%%", acc*100),
			printer.Sprintf("%d", e.MaxCombo),
			printer.Sprintf("%d", e.DamageDealt),
		)
	}
	if err := tbl.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
