// Package main provides the CLI entrypoint for layopt.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/layopt/internal/anneal"
	"github.com/verte-zerg/layopt/internal/config"
	"github.com/verte-zerg/layopt/internal/logging"
	"github.com/verte-zerg/layopt/internal/report"
)

const (
	defaultTop    = 8
	defaultSwaps  = 3
	defaultCycles = 5000
	defaultRounds = 10
	defaultNGram  = 4
	defaultLimit  = 30
)

var (
	fileCfg config.FileConfig
	logger  = zap.NewNop()

	logLevel string
	verbose  bool
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "layopt",
		Short:             "Score keyboard layouts and search for better ones",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newRunRefCmd())
	rootCmd.AddCommand(newNGramsCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// setup loads the config file and builds the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Color = report.IsTerminal(os.Stderr)
	applyStringConfig(cmd, "log-level", &logCfg.Level, cfg.Log.Level)
	applyStringConfig(cmd, "", &logCfg.Format, cfg.Log.Format)
	applyStringConfig(cmd, "", &logCfg.File, cfg.Log.File)
	applyIntConfig(cmd, "", &logCfg.MaxSizeMB, cfg.Log.MaxSizeMB)
	applyIntConfig(cmd, "", &logCfg.MaxBackups, cfg.Log.MaxBackups)
	applyIntConfig(cmd, "", &logCfg.MaxAgeDays, cfg.Log.MaxAgeDays)
	if cmd.Flags().Changed("log-level") {
		logCfg.Level = logLevel
	}
	if verbose {
		logCfg.Level = "debug"
	}

	l, err := logging.New(logCfg, zapcore.Lock(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger = l
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	def := anneal.DefaultSchedule(defaultCycles)
	return fmt.Sprintf(`# layopt configuration
# Uncomment a value to enable it. CLI flags override config values.

[search]
# top = %d                # Layouts kept between rounds
# swaps = %d              # Maximum swaps per mutation
# cycles = %d          # Annealing cycles per worker
# rounds = %d            # Search rounds
# workers = %d            # Concurrent workers (default: CPU count)
# ngram = %d              # N-gram length
# seed = 0               # 0 seeds from the clock
# t0 = %g              # Starting temperature
# k = %g                  # Cooling rate
# layout = "start.txt"   # Starting layout file
# plot = false           # Plot convergence after the search

[corpus]
# extra = []             # More corpus files merged into the table
# cache = true           # Cache n-gram tables between runs
# no-default-substitutions = false

[corpus.substitutions]
# "é" = "e"

[log]
# level = "warn"
# format = "console"     # console or json
# file = %q
# max-size-mb = 10
# max-backups = 3
# max-age-days = 28
`,
		defaultTop,
		defaultSwaps,
		defaultCycles,
		defaultRounds,
		runtime.NumCPU(),
		defaultNGram,
		def.T0,
		def.K,
		config.DefaultLogPath(),
	)
}

// lenientInt resolves a numeric flag given as text. An unset flag takes the
// config value or def; a malformed or out-of-range value takes def and logs a
// warning.
func lenientInt(cmd *cobra.Command, name, raw string, def, minValue int, value *int) int {
	if !cmd.Flags().Changed(name) {
		if value != nil && *value >= minValue {
			return *value
		}
		if value != nil {
			logger.Warn("invalid config value, using default",
				zap.String("key", name), zap.Int("value", *value), zap.Int("default", def))
		}
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < minValue {
		logger.Warn("invalid numeric option, using default",
			zap.String("flag", "--"+name), zap.String("value", raw), zap.Int("default", def))
		return def
	}
	return v
}

// applyXConfig helpers copy a config value into target unless the named flag
// was set on the command line. An empty name always applies.

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if name != "" && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if name != "" && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if name != "" && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if name != "" && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if name != "" && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
