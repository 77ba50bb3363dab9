package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	minPlotWidth        = 10
	labelWidth          = 10
	terminalWidthBackup = 80
)

var blockChars = []rune(" ▁▂▃▄▅▆▇█")

var seriesColors = []lipgloss.Color{"6", "5", "3", "2", "4"}

// PlotSeries renders one bar row per series, each scaled to its own range.
func PlotSeries(w io.Writer, title string, series []Series, width int, useColor bool) error {
	if width < minPlotWidth {
		width = minPlotWidth
	}
	var rows []string
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		values := resampleSeries(s.Values, width)
		lo, hi := minMax(s.Values)
		bar := blockRow(values, lo, hi)
		if useColor {
			bar = lipgloss.NewStyle().Foreground(seriesColors[i%len(seriesColors)]).Render(bar)
		}
		rows = append(rows, fmt.Sprintf("%-*s %s  %.1f..%.1f", labelWidth, s.Name, bar, lo, hi))
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
// A non-positive total uses the terminal width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	// label, bar, and a range suffix of roughly twenty columns
	plotWidth := totalWidth - labelWidth - 1 - 20
	if plotWidth < minPlotWidth {
		return minPlotWidth
	}
	return plotWidth
}

// UseColor reports whether stdout is an interactive terminal.
func UseColor() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func blockRow(values []float64, lo, hi float64) string {
	var b strings.Builder
	span := hi - lo
	for _, v := range values {
		idx := len(blockChars) / 2
		if span > 1e-9 {
			idx = int(math.Round((v - lo) / span * float64(len(blockChars)-1)))
		}
		b.WriteRune(blockChars[clampIndex(idx, len(blockChars))])
	}
	return b.String()
}

// resampleSeries averages buckets when shrinking and repeats samples when stretching.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
