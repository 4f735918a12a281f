// Package report renders scored layouts as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/layopt/internal/anneal"
	"github.com/verte-zerg/layopt/internal/geometry"
	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/model"
	"github.com/verte-zerg/layopt/internal/penalty"
)

// Options controls report output.
type Options struct {
	Title string
	// All includes the categories hidden by default.
	All   bool
	Color bool
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	layerStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			Padding(0, 1)
)

// fingerOrder lists fingers from the outside of the hand in.
var fingerOrder = []geometry.Finger{
	geometry.Pinky,
	geometry.Ring,
	geometry.Middle,
	geometry.Index,
	geometry.Thumb,
	geometry.ThumbBottom,
}

// Render writes the key grid, totals, category table and usage shares for e.
func Render(w io.Writer, e anneal.Entry, opts Options) error {
	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, style(opts.Color, titleStyle, opts.Title)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, Grid(e.Layout)); err != nil {
		return err
	}
	r := e.Result
	if _, err := fmt.Fprintf(w, "Total: %s  Scaled: %.4f  Keystrokes: %d\n\n",
		signed(opts.Color, r.Total, "%.2f"), r.Scaled(), r.Length); err != nil {
		return err
	}
	if err := writeLines(w, categoryTable(r, opts)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := writeLines(w, fingerTable(r, opts)); err != nil {
		return err
	}
	left, right := percent(r.HandUsage[geometry.Left], r.Length), percent(r.HandUsage[geometry.Right], r.Length)
	if _, err := fmt.Fprintf(w, "Hands: left %.2f%%  right %.2f%%\n\n", left, right); err != nil {
		return err
	}
	return nil
}

// RenderRanking writes one summary line per entry, best first.
func RenderRanking(w io.Writer, entries []anneal.Entry, opts Options) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No layouts.")
		return err
	}
	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, style(opts.Color, titleStyle, opts.Title)); err != nil {
			return err
		}
	}
	best := entries[0].Total()
	headers := []string{"Rank", "Total", "Scaled", "vs best", "Home row"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", e.Total()),
			fmt.Sprintf("%.4f", e.Result.Scaled()),
			fmt.Sprintf("%+.2f", e.Total()-best),
			homeRow(e.Layout),
		})
	}
	paint := func(row, col int, cell string) string {
		if row < 0 {
			return style(opts.Color, headerStyle, cell)
		}
		return cell
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true}, paint)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func categoryTable(r penalty.Result, opts Options) []string {
	headers := []string{"Category", "Count %", "Average", "% Total", "Total"}
	rows := make([][]string, 0, len(r.Categories))
	var totals []float64
	for _, c := range r.Categories {
		if !c.Visible && !opts.All {
			continue
		}
		avg := 0.0
		if c.Count > 0 {
			avg = c.Total / float64(c.Count)
		}
		share := 0.0
		if r.Total != 0 {
			share = c.Total / r.Total * 100
		}
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%.2f%%", percent(c.Count, r.Length)),
			fmt.Sprintf("%.3f", avg),
			fmt.Sprintf("%.2f%%", share),
			fmt.Sprintf("%.2f", c.Total),
		})
		totals = append(totals, c.Total)
	}
	paint := func(row, col int, cell string) string {
		switch {
		case row < 0:
			return style(opts.Color, headerStyle, cell)
		case col == 4 && totals[row] > 0:
			return style(opts.Color, badStyle, cell)
		case col == 4 && totals[row] < 0:
			return style(opts.Color, goodStyle, cell)
		}
		return cell
	}
	return formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}, paint)
}

func fingerTable(r penalty.Result, opts Options) []string {
	headers := []string{"Finger", "Left", "Right"}
	rows := make([][]string, 0, len(fingerOrder))
	for _, f := range fingerOrder {
		rows = append(rows, []string{
			f.String(),
			fmt.Sprintf("%.2f%%", percent(r.FingerUsage[geometry.Left][f], r.Length)),
			fmt.Sprintf("%.2f%%", percent(r.FingerUsage[geometry.Right][f], r.Length)),
		})
	}
	paint := func(row, col int, cell string) string {
		if row < 0 {
			return style(opts.Color, headerStyle, cell)
		}
		return cell
	}
	return formatTable(headers, rows, map[int]bool{1: true, 2: true}, paint)
}

// Grid renders both layers of l side by side.
func Grid(l layout.Layout) string {
	lower := layerStyle.Render(layerGrid(&l.Lower))
	upper := layerStyle.Render(layerGrid(&l.Upper))
	return lipgloss.JoinHorizontal(lipgloss.Top, lower, " ", upper)
}

func layerGrid(layer *[geometry.KeyCount]rune) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 10; col++ {
			if col == 5 {
				b.WriteString("  ")
			} else if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(keyLabel(layer[row*10+col]))
		}
		b.WriteByte('\n')
	}
	// The cluster sits under the inner columns: pinky, thumb, thumb-bottom on
	// each side.
	b.WriteString(strings.Repeat(" ", 4))
	for i := 30; i < geometry.KeyCount; i++ {
		switch {
		case i == 33:
			b.WriteString("  ")
		case i > 30:
			b.WriteByte(' ')
		}
		b.WriteString(keyLabel(layer[i]))
	}
	return b.String()
}

func keyLabel(r rune) string {
	switch r {
	case layout.Null:
		return "·"
	case ' ':
		return "␣"
	case '\n':
		return "⏎"
	case '\t':
		return "⇥"
	}
	s := string(r)
	if runewidth.StringWidth(s) != 1 {
		return "?"
	}
	return s
}

func homeRow(l layout.Layout) string {
	var b strings.Builder
	for _, r := range l.Lower[10:20] {
		b.WriteString(keyLabel(r))
	}
	return b.String()
}

func percent(n, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func signed(color bool, v float64, format string) string {
	s := fmt.Sprintf(format, v)
	switch {
	case v > 0:
		return style(color, badStyle, s)
	case v < 0:
		return style(color, goodStyle, s)
	}
	return s
}

func style(color bool, st lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return st.Render(s)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGrams writes an n-gram frequency table.
func RenderGrams(w io.Writer, grams []model.GramCount) error {
	if len(grams) == 0 {
		_, err := fmt.Fprintln(w, "No n-grams.")
		return err
	}
	rows := make([][]string, 0, len(grams))
	for _, g := range grams {
		var label strings.Builder
		for _, r := range g.Gram {
			label.WriteString(keyLabel(r))
		}
		rows = append(rows, []string{
			label.String(),
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.3f%%", g.Share*100),
		})
	}
	return writeLines(w, formatTable([]string{"Gram", "Count", "Share"}, rows, map[int]bool{1: true, 2: true}, nil))
}
