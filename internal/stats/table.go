package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is one table column. Numeric columns are right aligned.
type column struct {
	title   string
	numeric bool
}

// table lays out rows under a header, sizing every column to its widest
// cell in terminal cells rather than bytes.
type table struct {
	cols   []column
	rows   [][]string
	widths []int
}

func newTable(cols ...column) *table {
	t := &table{cols: cols, widths: make([]int, len(cols))}
	for i, c := range cols {
		t.widths[i] = runewidth.StringWidth(c.title)
	}
	return t
}

// add appends a row. Missing cells render empty, extra cells are dropped.
func (t *table) add(cells ...string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	for i, cell := range row {
		if w := runewidth.StringWidth(cell); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = c.title
	}
	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.line(header))
	for _, row := range t.rows {
		out = append(out, t.line(row))
	}
	return out
}

func (t *table) line(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := strings.Repeat(" ", t.widths[i]-runewidth.StringWidth(cell))
		if t.cols[i].numeric {
			b.WriteString(pad + cell)
			continue
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(pad)
		}
	}
	return b.String()
}

func (t *table) render(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
