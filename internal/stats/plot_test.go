package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
		{Name: "Empty"},
	}, 10, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected title and 2 rows, got %d: %q", len(lines), lines)
	}
	if lines[0] != "Test Plot" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.Contains(lines[1], " ▄█▄ ") {
		t.Fatalf("unexpected bar row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "1.0..4.0") {
		t.Fatalf("expected range suffix, got %q", lines[2])
	}
}

func TestResampleSeriesAverages(t *testing.T) {
	got := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected resample %v", got)
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 49 {
		t.Fatalf("expected width 49, got %d", got)
	}
	if got := PlotWidthFor(20); got != minPlotWidth {
		t.Fatalf("expected min width, got %d", got)
	}
}
