package anneal

import (
	"math/rand"

	"github.com/verte-zerg/layopt/internal/ngram"
	"github.com/verte-zerg/layopt/internal/penalty"
)

// Worker runs one annealing walk. A worker owns its random source and must
// not be shared between goroutines; the table is only read.
type Worker struct {
	engine   *penalty.Engine
	table    *ngram.Table
	schedule Schedule
	maxSwaps int
	rng      *rand.Rand
	trace    bool
}

// Walk is the outcome of one worker run.
type Walk struct {
	Best     Entry
	Accepted Entry
	// Trace holds the best total after every cycle when tracing is on.
	Trace        []float64
	Accepts      int
	Improvements int
}

// NewWorker returns a worker. maxSwaps below one is treated as one.
func NewWorker(engine *penalty.Engine, table *ngram.Table, schedule Schedule, maxSwaps int, rng *rand.Rand, trace bool) *Worker {
	if maxSwaps < 1 {
		maxSwaps = 1
	}
	return &Worker{
		engine:   engine,
		table:    table,
		schedule: schedule,
		maxSwaps: maxSwaps,
		rng:      rng,
		trace:    trace,
	}
}

// Run anneals from start for the schedule's cycle count.
func (w *Worker) Run(start Entry) Walk {
	walk := Walk{Best: start, Accepted: start}
	if w.trace {
		walk.Trace = make([]float64, 0, w.schedule.Cycles)
	}
	for cycle := 0; cycle < w.schedule.Cycles; cycle++ {
		candidate := walk.Accepted.Layout.Clone()
		candidate.Shuffle(w.rng, 1+w.rng.Intn(w.maxSwaps))
		scored := Entry{Layout: candidate, Result: w.engine.Score(w.table, candidate)}

		if scored.Result.Total < walk.Best.Result.Total {
			walk.Best = scored
			walk.Improvements++
		}
		delta := RelativeDelta(scored.Result.Total, walk.Accepted.Result.Total)
		if w.schedule.Accept(delta, cycle, w.rng.Float64()) {
			walk.Accepted = scored
			walk.Accepts++
		}
		if w.trace {
			walk.Trace = append(walk.Trace, walk.Best.Result.Total)
		}
	}
	return walk
}
