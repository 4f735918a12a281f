package main

import (
	"fmt"
	"strconv"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/layopt/internal/config"
	"github.com/verte-zerg/layopt/internal/model"
	"github.com/verte-zerg/layopt/internal/ngram"
	"github.com/verte-zerg/layopt/internal/report"
	"github.com/verte-zerg/layopt/internal/store"
)

var (
	ngramsN       string
	ngramsLimit   string
	ngramsJSON    bool
	ngramsNoCache bool

	cacheKeep  int
	cachePrune bool
)

func newNGramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ngrams <corpus>",
		Short: "Print the most frequent n-grams of a corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  runNGramsCmd,
	}
	cmd.Flags().StringVar(&ngramsN, "ngram", strconv.Itoa(defaultNGram), "n-gram length")
	cmd.Flags().StringVar(&ngramsLimit, "limit", strconv.Itoa(defaultLimit), "number of n-grams to print")
	cmd.Flags().BoolVar(&ngramsJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&ngramsNoCache, "no-cache", false, "do not read or write the n-gram cache")
	return cmd
}

func runNGramsCmd(cmd *cobra.Command, args []string) error {
	cfg := model.NGramsConfig{
		CorpusPath: args[0],
		NGram:      lenientInt(cmd, "ngram", ngramsN, defaultNGram, 1, fileCfg.Search.NGram),
		Limit:      lenientInt(cmd, "limit", ngramsLimit, defaultLimit, 1, nil),
		JSON:       ngramsJSON,
		Cache:      !ngramsNoCache,
	}
	subs, err := resolveSubstitutions()
	if err != nil {
		return err
	}
	table, err := loadTable(cmd.Context(), []string{cfg.CorpusPath}, cfg.NGram, subs, cfg.Cache)
	if err != nil {
		return err
	}
	grams := gramCounts(table, cfg.Limit)

	out := cmd.OutOrStdout()
	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(grams); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := report.RenderGrams(out, grams); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func gramCounts(table *ngram.Table, limit int) []model.GramCount {
	top := table.Top(limit)
	grams := make([]model.GramCount, 0, len(top))
	for _, e := range top {
		share := 0.0
		if table.Total() > 0 {
			share = float64(e.Count) / float64(table.Total())
		}
		grams = append(grams, model.GramCount{Gram: e.Gram, Count: e.Count, Share: share})
	}
	return grams
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List or prune cached n-gram tables",
		Args:  cobra.NoArgs,
		RunE:  runCacheCmd,
	}
	cmd.Flags().BoolVar(&cachePrune, "prune", false, "drop cached tables beyond --keep")
	cmd.Flags().IntVar(&cacheKeep, "keep", 5, "number of most recent tables kept by --prune")
	return cmd
}

func runCacheCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultCachePath()
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrln("failed to close cache:", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if cachePrune {
		removed, err := st.Prune(cmd.Context(), cacheKeep)
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Removed %d cached tables.\n", removed); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	sets, err := st.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Cache: %s\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, s := range sets {
		if _, err := fmt.Fprintf(out, "%s  %s  grams=%d total=%d\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Key, s.Grams, s.Total); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
