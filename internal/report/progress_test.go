package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/layopt/internal/anneal"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{1, 1, 1}))
	assert.Equal(t, " @", Sparkline([]float64{0, 1}))
}

func TestProgressLine(t *testing.T) {
	p := NewProgress(20)
	p.Line(anneal.RoundStats{Round: 1, Rounds: 4, Best: 10, Accepted: 12})
	line := p.Line(anneal.RoundStats{Round: 2, Rounds: 4, Best: 8, Accepted: 9, Accepts: 31})

	assert.Contains(t, line, "round 2/4")
	assert.Contains(t, line, "best 8.00")
	assert.Contains(t, line, "mean 9.00")
	assert.Contains(t, line, "accepts 31")
	assert.Contains(t, line, "50%")
	assert.Len(t, p.history, 2)
}
