package anneal

import (
	"math/rand"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/ngram"
	"github.com/verte-zerg/layopt/internal/penalty"
)

// Config holds the search parameters.
type Config struct {
	Top      int
	MaxSwaps int
	Cycles   int
	Rounds   int
	Workers  int
	// Seed 0 seeds from the clock.
	Seed  int64
	T0    float64
	K     float64
	Trace bool
}

// DefaultConfig returns the standard search parameters.
func DefaultConfig() Config {
	return Config{
		Top:      8,
		MaxSwaps: 3,
		Cycles:   5000,
		Rounds:   10,
		Workers:  runtime.NumCPU(),
		T0:       defaultT0,
		K:        defaultK,
	}
}

// RoundStats summarizes one finished round.
type RoundStats struct {
	Round  int
	Rounds int
	// Best is the lowest total retained after the merge.
	Best float64
	// Accepted is the mean total of the layouts the workers ended on.
	Accepted     float64
	Accepts      int
	Improvements int
	Elapsed      time.Duration
}

// Outcome is the result of a full search.
type Outcome struct {
	Best   []Entry
	Rounds []RoundStats
	// Traces holds, per round, the per-cycle best totals of the worker that
	// started from the best retained layout. Only filled when tracing.
	Traces [][]float64
}

// Searcher coordinates rounds of parallel workers.
type Searcher struct {
	cfg     Config
	engine  *penalty.Engine
	table   *ngram.Table
	logger  *zap.Logger
	rng     *rand.Rand
	onRound func(RoundStats)
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Searcher) { s.logger = logger }
}

// WithRoundHook registers fn to be called after every round's merge.
func WithRoundHook(fn func(RoundStats)) Option {
	return func(s *Searcher) { s.onRound = fn }
}

// NewSearcher returns a searcher over table. Zero config values fall back to
// DefaultConfig.
func NewSearcher(cfg Config, engine *penalty.Engine, table *ngram.Table, opts ...Option) *Searcher {
	def := DefaultConfig()
	if cfg.Top < 1 {
		cfg.Top = def.Top
	}
	if cfg.MaxSwaps < 1 {
		cfg.MaxSwaps = def.MaxSwaps
	}
	if cfg.Cycles < 0 {
		cfg.Cycles = def.Cycles
	}
	if cfg.Rounds < 0 {
		cfg.Rounds = def.Rounds
	}
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.T0 <= 0 {
		cfg.T0 = def.T0
	}
	if cfg.K <= 0 {
		cfg.K = def.K
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Searcher{
		cfg:    cfg,
		engine: engine,
		table:  table,
		logger: zap.NewNop(),
		rng:    rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective configuration.
func (s *Searcher) Config() Config {
	return s.cfg
}

// Score evaluates a single layout.
func (s *Searcher) Score(l layout.Layout) Entry {
	return Entry{Layout: l, Result: s.engine.Score(s.table, l)}
}

// Run searches from initial and returns the retained layouts, best first.
func (s *Searcher) Run(initial layout.Layout) Outcome {
	top := NewTopK(s.cfg.Top)
	top.Merge(s.Score(initial))
	s.logger.Info("search started",
		zap.Int("top", s.cfg.Top),
		zap.Int("rounds", s.cfg.Rounds),
		zap.Int("cycles", s.cfg.Cycles),
		zap.Int("max_swaps", s.cfg.MaxSwaps),
		zap.Int("workers", s.cfg.Workers),
		zap.Int("ngrams", s.table.Len()),
		zap.Float64("initial", top.entries[0].Result.Total),
	)

	var out Outcome
	for round := 0; round < s.cfg.Rounds; round++ {
		started := time.Now()
		walks := s.round(round, top.Entries())

		stats := RoundStats{Round: round + 1, Rounds: s.cfg.Rounds}
		bests := make([]Entry, len(walks))
		for i, w := range walks {
			bests[i] = w.Best
			stats.Accepted += w.Accepted.Result.Total
			stats.Accepts += w.Accepts
			stats.Improvements += w.Improvements
		}
		if len(walks) > 0 {
			stats.Accepted /= float64(len(walks))
			if s.cfg.Trace {
				out.Traces = append(out.Traces, walks[0].Trace)
			}
		}
		top.Merge(bests...)
		best, _ := top.Best()
		stats.Best = best.Result.Total
		stats.Elapsed = time.Since(started)
		out.Rounds = append(out.Rounds, stats)

		s.logger.Debug("round complete",
			zap.Int("round", stats.Round),
			zap.Float64("best", stats.Best),
			zap.Float64("accepted_mean", stats.Accepted),
			zap.Int("accepts", stats.Accepts),
			zap.Int("improvements", stats.Improvements),
			zap.Duration("elapsed", stats.Elapsed),
		)
		if s.onRound != nil {
			s.onRound(stats)
		}
	}
	out.Best = top.Entries()
	return out
}

// round runs one worker per slot, starting slot i from retained[i mod len],
// and waits for all of them.
func (s *Searcher) round(round int, retained []Entry) []Walk {
	slots := s.cfg.Top
	walks := make([]Walk, slots)
	schedule := Schedule{T0: s.cfg.T0, K: s.cfg.K, Cycles: s.cfg.Cycles}

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i := 0; i < slots; i++ {
		i := i
		start := retained[i%len(retained)]
		w := NewWorker(s.engine, s.table, schedule, s.cfg.MaxSwaps,
			deriveRNG(s.rng, uint64(round*slots+i)), s.cfg.Trace)
		g.Go(func() error {
			walks[i] = w.Run(start)
			return nil
		})
	}
	_ = g.Wait()
	return walks
}
