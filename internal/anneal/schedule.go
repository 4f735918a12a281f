// Package anneal searches the layout space with simulated annealing.
//
// A Worker walks from one starting layout, mutating it with random swaps and
// accepting worse candidates with a probability that cools as cycles pass.
// A Searcher runs one worker per retained layout each round and merges their
// results into a bounded, sorted set of the best layouts seen.
package anneal

import "math"

// Schedule is the cooling schedule: temperature(c) = T0 * exp(-K * c / Cycles).
type Schedule struct {
	T0     float64
	K      float64
	Cycles int
}

const (
	defaultT0 = 0.02
	defaultK  = 7.0
)

// DefaultSchedule returns the standard schedule over cycles.
func DefaultSchedule(cycles int) Schedule {
	return Schedule{T0: defaultT0, K: defaultK, Cycles: cycles}
}

// Temperature returns the temperature at cycle.
func (s Schedule) Temperature(cycle int) float64 {
	if s.Cycles <= 0 {
		return s.T0
	}
	return s.T0 * math.Exp(-s.K*float64(cycle)/float64(s.Cycles))
}

// AcceptanceProbability returns the probability of moving to a candidate
// whose relative change against the accepted layout is delta.
func (s Schedule) AcceptanceProbability(delta float64, cycle int) float64 {
	if delta <= 0 {
		return 1
	}
	t := s.Temperature(cycle)
	if t <= 0 {
		return 0
	}
	return math.Exp(-delta / t)
}

// Accept decides a transition given a uniform draw in [0, 1).
func (s Schedule) Accept(delta float64, cycle int, draw float64) bool {
	return draw < s.AcceptanceProbability(delta, cycle)
}

// RelativeDelta returns (candidate - accepted) / |accepted|. A zero accepted
// total makes the change absolute.
func RelativeDelta(candidate, accepted float64) float64 {
	if accepted == 0 {
		return candidate
	}
	return (candidate - accepted) / math.Abs(accepted)
}
