package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/layopt/internal/anneal"
	"github.com/verte-zerg/layopt/internal/config"
	"github.com/verte-zerg/layopt/internal/corpus"
	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/model"
	"github.com/verte-zerg/layopt/internal/ngram"
	"github.com/verte-zerg/layopt/internal/penalty"
	"github.com/verte-zerg/layopt/internal/report"
	"github.com/verte-zerg/layopt/internal/snapshot"
	"github.com/verte-zerg/layopt/internal/store"
)

var (
	runTop      string
	runSwaps    string
	runCycles   string
	runRounds   string
	runWorkers  string
	runNGram    string
	runSeed     int64
	runExtra    []string
	runNoCache  bool
	runSnapshot string
	runPlot     bool
	runAll      bool

	refNGram   string
	refExtra   []string
	refNoCache bool
	refAll     bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <corpus> [layout]",
		Short: "Search for low-penalty layouts",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSearchCmd,
	}
	cmd.Flags().StringVarP(&runTop, "top", "t", strconv.Itoa(defaultTop), "number of layouts kept between rounds")
	cmd.Flags().StringVarP(&runSwaps, "swaps", "s", strconv.Itoa(defaultSwaps), "maximum swaps per mutation")
	cmd.Flags().StringVar(&runCycles, "cycles", strconv.Itoa(defaultCycles), "annealing cycles per worker")
	cmd.Flags().StringVar(&runRounds, "rounds", strconv.Itoa(defaultRounds), "search rounds")
	cmd.Flags().StringVar(&runWorkers, "workers", strconv.Itoa(runtime.NumCPU()), "concurrent workers")
	cmd.Flags().StringVar(&runNGram, "ngram", strconv.Itoa(defaultNGram), "n-gram length")
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 seeds from the clock)")
	cmd.Flags().StringArrayVar(&runExtra, "extra-corpus", nil, "additional corpus merged into the table (repeatable)")
	cmd.Flags().BoolVar(&runNoCache, "no-cache", false, "do not read or write the n-gram cache")
	cmd.Flags().StringVar(&runSnapshot, "snapshot", "", "write a TOML snapshot of the results")
	cmd.Flags().BoolVar(&runPlot, "plot", false, "plot convergence after the search")
	cmd.Flags().BoolVar(&runAll, "all", false, "show every penalty category")
	return cmd
}

func newRunRefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-ref <corpus>",
		Short: "Score the built-in reference layout",
		Args:  cobra.ExactArgs(1),
		RunE:  runRefCmd,
	}
	cmd.Flags().StringVar(&refNGram, "ngram", strconv.Itoa(defaultNGram), "n-gram length")
	cmd.Flags().StringArrayVar(&refExtra, "extra-corpus", nil, "additional corpus merged into the table (repeatable)")
	cmd.Flags().BoolVar(&refNoCache, "no-cache", false, "do not read or write the n-gram cache")
	cmd.Flags().BoolVar(&refAll, "all", false, "show every penalty category")
	return cmd
}

func resolveRunConfig(cmd *cobra.Command, args []string) model.RunConfig {
	s := fileCfg.Search
	cfg := model.RunConfig{
		CorpusPath: args[0],
		ExtraPaths: append(append([]string(nil), fileCfg.Corpus.Extra...), runExtra...),
		Top:        lenientInt(cmd, "top", runTop, defaultTop, 1, s.Top),
		Swaps:      lenientInt(cmd, "swaps", runSwaps, defaultSwaps, 1, s.Swaps),
		Cycles:     lenientInt(cmd, "cycles", runCycles, defaultCycles, 0, s.Cycles),
		Rounds:     lenientInt(cmd, "rounds", runRounds, defaultRounds, 0, s.Rounds),
		Workers:    lenientInt(cmd, "workers", runWorkers, runtime.NumCPU(), 1, s.Workers),
		NGram:      lenientInt(cmd, "ngram", runNGram, defaultNGram, 1, s.NGram),
		Seed:       runSeed,
		Cache:      !runNoCache,
		Snapshot:   runSnapshot,
		Plot:       runPlot,
		All:        runAll,
	}
	def := anneal.DefaultSchedule(cfg.Cycles)
	cfg.T0, cfg.K = def.T0, def.K
	applyInt64Config(cmd, "seed", &cfg.Seed, s.Seed)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		logger.Info("seeded from clock", zap.Int64("seed", cfg.Seed))
	}
	applyFloatConfig(cmd, "", &cfg.T0, s.T0)
	applyFloatConfig(cmd, "", &cfg.K, s.K)
	applyBoolConfig(cmd, "plot", &cfg.Plot, s.Plot)
	if !cmd.Flags().Changed("no-cache") {
		applyBoolConfig(cmd, "", &cfg.Cache, fileCfg.Corpus.Cache)
	}
	if len(args) > 1 {
		cfg.LayoutPath = args[1]
	} else {
		applyStringConfig(cmd, "", &cfg.LayoutPath, s.Layout)
	}
	return cfg
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg := resolveRunConfig(cmd, args)
	subs, err := resolveSubstitutions()
	if err != nil {
		return err
	}
	table, err := loadTable(cmd.Context(), cfg.CorpusPaths(), cfg.NGram, subs, cfg.Cache)
	if err != nil {
		return err
	}
	initial := loadStartLayout(cfg.LayoutPath)

	out := cmd.OutOrStdout()
	progress := report.NewProgress(30)
	engine := penalty.NewEngine(penalty.DefaultWeights())
	searcher := anneal.NewSearcher(anneal.Config{
		Top:      cfg.Top,
		MaxSwaps: cfg.Swaps,
		Cycles:   cfg.Cycles,
		Rounds:   cfg.Rounds,
		Workers:  cfg.Workers,
		Seed:     cfg.Seed,
		T0:       cfg.T0,
		K:        cfg.K,
		Trace:    cfg.Plot,
	}, engine, table,
		anneal.WithLogger(logger.Named("search")),
		anneal.WithRoundHook(func(rs anneal.RoundStats) {
			logErrln(progress.Line(rs))
		}),
	)

	started := time.Now()
	outcome := searcher.Run(initial)
	elapsed := time.Since(started)
	logger.Info("search finished", zap.Duration("elapsed", elapsed), zap.Int("retained", len(outcome.Best)))

	color := report.IsTerminal(os.Stdout)
	if len(outcome.Best) > 0 {
		if err := report.Render(out, outcome.Best[0], report.Options{Title: "Best layout", All: cfg.All, Color: color}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := report.RenderRanking(out, outcome.Best, report.Options{Title: "Retained layouts", Color: color}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Plot {
		if err := plotOutcome(out, outcome, color); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if cfg.Snapshot != "" {
		writeSnapshot(cfg, searcher.Config(), outcome, started, elapsed)
	}
	return nil
}

func runRefCmd(cmd *cobra.Command, args []string) error {
	n := lenientInt(cmd, "ngram", refNGram, defaultNGram, 1, fileCfg.Search.NGram)
	cache := !refNoCache
	if !cmd.Flags().Changed("no-cache") {
		applyBoolConfig(cmd, "", &cache, fileCfg.Corpus.Cache)
	}
	subs, err := resolveSubstitutions()
	if err != nil {
		return err
	}
	paths := append([]string{args[0]}, append(append([]string(nil), fileCfg.Corpus.Extra...), refExtra...)...)
	table, err := loadTable(cmd.Context(), paths, n, subs, cache)
	if err != nil {
		return err
	}
	ref := layout.Reference()
	entry := anneal.Entry{Layout: ref, Result: penalty.NewEngine(penalty.DefaultWeights()).Score(table, ref)}
	opts := report.Options{Title: "Reference layout", All: refAll, Color: report.IsTerminal(os.Stdout)}
	if err := report.Render(cmd.OutOrStdout(), entry, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveSubstitutions() (ngram.Substitutions, error) {
	extra, err := ngram.ParseSubstitutions(fileCfg.Corpus.Substitutions)
	if err != nil {
		return nil, fmt.Errorf("invalid [corpus.substitutions]: %w", err)
	}
	if fileCfg.Corpus.NoDefaultSubstitutions != nil && *fileCfg.Corpus.NoDefaultSubstitutions {
		return extra, nil
	}
	return ngram.DefaultSubstitutions().With(extra), nil
}

// loadTable builds the merged n-gram table for paths, reading and filling the
// cache when enabled. Cache problems are logged and never fatal.
func loadTable(ctx context.Context, paths []string, n int, subs ngram.Substitutions, useCache bool) (*ngram.Table, error) {
	corpora, err := corpus.LoadAll(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	var st *store.Store
	if useCache {
		st, err = store.Open(config.DefaultCachePath())
		if err != nil {
			logger.Warn("n-gram cache unavailable", zap.Error(err))
			st = nil
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logger.Warn("failed to close n-gram cache", zap.Error(cerr))
				}
			}()
		}
	}

	tables := make([]*ngram.Table, 0, len(corpora))
	for _, c := range corpora {
		log := logger.With(zap.String("corpus", c.Path), zap.String("encoding", string(c.Encoding)))
		key := store.Key{Digest: c.Digest, N: n, Subs: subs.Fingerprint()}
		if st != nil {
			tbl, ok, err := st.Load(ctx, key)
			switch {
			case err != nil:
				log.Warn("failed to read n-gram cache", zap.Error(err))
			case ok:
				log.Debug("n-gram cache hit", zap.Stringer("key", key), zap.Int("grams", tbl.Len()))
				tables = append(tables, tbl)
				continue
			}
		}
		tbl := ngram.BuildParallel(c.Text, subs, n, runtime.NumCPU())
		log.Debug("n-grams extracted", zap.Int("grams", tbl.Len()), zap.Uint64("total", tbl.Total()))
		if st != nil {
			if err := st.Save(ctx, key, tbl); err != nil {
				log.Warn("failed to write n-gram cache", zap.Error(err))
			}
		}
		tables = append(tables, tbl)
	}
	if len(tables) == 1 {
		return tables[0], nil
	}
	return ngram.Merge(tables...), nil
}

// loadStartLayout returns the layout at path, or the built-in default when
// path is empty or unusable.
func loadStartLayout(path string) layout.Layout {
	if path == "" {
		return layout.Default()
	}
	l, err := layout.Load(path)
	if err != nil {
		logger.Warn("using default layout", zap.String("path", path), zap.Error(err))
		return layout.Default()
	}
	return l
}

func plotOutcome(w io.Writer, outcome anneal.Outcome, color bool) error {
	var cycles, accepted []float64
	for _, trace := range outcome.Traces {
		cycles = append(cycles, trace...)
	}
	for _, rs := range outcome.Rounds {
		accepted = append(accepted, rs.Accepted)
	}
	return report.PlotTrace(w, "Convergence", []report.Series{
		{Name: "best per cycle", Values: cycles},
		{Name: "accepted mean per round", Values: accepted},
	}, 0, 0, color)
}

func writeSnapshot(cfg model.RunConfig, eff anneal.Config, outcome anneal.Outcome, started time.Time, elapsed time.Duration) {
	snap := snapshot.New(snapshot.RunInfo{
		StartedAt: started.UTC(),
		Duration:  elapsed.Round(time.Millisecond).String(),
		Corpus:    cfg.CorpusPaths(),
		NGram:     cfg.NGram,
		Top:       eff.Top,
		Swaps:     eff.MaxSwaps,
		Cycles:    eff.Cycles,
		Rounds:    eff.Rounds,
		Workers:   eff.Workers,
		Seed:      cfg.Seed,
	}, outcome.Best)
	if err := snapshot.Write(cfg.Snapshot, snap); err != nil {
		if errors.Is(err, snapshot.ErrDisabled) {
			logger.Warn("snapshot not written", zap.String("path", cfg.Snapshot), zap.Error(err))
			return
		}
		logger.Error("failed to write snapshot", zap.String("path", cfg.Snapshot), zap.Error(err))
		return
	}
	logger.Info("snapshot written", zap.String("path", cfg.Snapshot), zap.String("run_id", snap.Run.ID))
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
