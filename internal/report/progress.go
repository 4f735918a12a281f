package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/verte-zerg/layopt/internal/anneal"
)

const sparkChars = " .:-=+*#%@"

// Progress renders one status line per finished search round.
type Progress struct {
	bar        progress.Model
	history    []float64
	sparkWidth int
}

// NewProgress returns a progress line with a bar of barWidth columns.
func NewProgress(barWidth int) *Progress {
	if barWidth < minPlotWidth {
		barWidth = minPlotWidth
	}
	return &Progress{
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		sparkWidth: 24,
	}
}

// Line records rs and renders the status line for it.
func (p *Progress) Line(rs anneal.RoundStats) string {
	p.history = append(p.history, rs.Best)
	fraction := 1.0
	if rs.Rounds > 0 {
		fraction = float64(rs.Round) / float64(rs.Rounds)
	}
	spark := p.history
	if len(spark) > p.sparkWidth {
		spark = spark[len(spark)-p.sparkWidth:]
	}
	return fmt.Sprintf("round %d/%d %s best %.2f mean %.2f accepts %d %s",
		rs.Round, rs.Rounds, p.bar.ViewAs(fraction), rs.Best, rs.Accepted, rs.Accepts, Sparkline(spark))
}

// Sparkline renders values as a one-line ASCII sparkline.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
