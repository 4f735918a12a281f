package anneal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureCools(t *testing.T) {
	s := DefaultSchedule(1000)
	assert.InDelta(t, 0.02, s.Temperature(0), 1e-12)
	assert.InDelta(t, 0.02*math.Exp(-7), s.Temperature(1000), 1e-12)
	prev := s.Temperature(0)
	for c := 1; c <= 1000; c += 50 {
		cur := s.Temperature(c)
		assert.Less(t, cur, prev)
		prev = cur
	}
}

func TestTemperatureWithoutCycles(t *testing.T) {
	s := DefaultSchedule(0)
	assert.Equal(t, s.T0, s.Temperature(10))
}

func TestAcceptanceProbability(t *testing.T) {
	s := DefaultSchedule(100)
	assert.Equal(t, 1.0, s.AcceptanceProbability(-0.5, 10))
	assert.Equal(t, 1.0, s.AcceptanceProbability(0, 10))

	p := s.AcceptanceProbability(0.01, 0)
	assert.InDelta(t, math.Exp(-0.5), p, 1e-12)
	assert.Less(t, s.AcceptanceProbability(0.01, 90), p)
}

func TestAcceptImprovementAlways(t *testing.T) {
	s := DefaultSchedule(100)
	assert.True(t, s.Accept(-1, 99, 0.999999))
	assert.False(t, s.Accept(10, 99, 0.5))
}

func TestRelativeDelta(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		accepted  float64
		want      float64
	}{
		{name: "worse", candidate: 110, accepted: 100, want: 0.1},
		{name: "better", candidate: 90, accepted: 100, want: -0.1},
		{name: "negative accepted", candidate: -90, accepted: -100, want: 0.1},
		{name: "zero accepted", candidate: 3, accepted: 0, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RelativeDelta(tt.candidate, tt.accepted), 1e-12)
		})
	}
}
