// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Nil fields are unset.
type FileConfig struct {
	Search SearchConfig `toml:"search"`
	Corpus CorpusConfig `toml:"corpus"`
	Log    LogConfig    `toml:"log"`
}

// SearchConfig maps search settings.
type SearchConfig struct {
	Top     *int     `toml:"top"`
	Swaps   *int     `toml:"swaps"`
	Cycles  *int     `toml:"cycles"`
	Rounds  *int     `toml:"rounds"`
	Workers *int     `toml:"workers"`
	NGram   *int     `toml:"ngram"`
	Seed    *int64   `toml:"seed"`
	T0      *float64 `toml:"t0"`
	K       *float64 `toml:"k"`
	Layout  *string  `toml:"layout"`
	Plot    *bool    `toml:"plot"`
}

// CorpusConfig maps corpus preprocessing settings.
type CorpusConfig struct {
	Extra []string `toml:"extra"`
	// Substitutions maps a single character to its replacement, applied on top
	// of the built-in folding table.
	Substitutions          map[string]string `toml:"substitutions"`
	NoDefaultSubstitutions *bool             `toml:"no-default-substitutions"`
	Cache                  *bool             `toml:"cache"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level      *string `toml:"level"`
	Format     *string `toml:"format"`
	File       *string `toml:"file"`
	MaxSizeMB  *int    `toml:"max-size-mb"`
	MaxBackups *int    `toml:"max-backups"`
	MaxAgeDays *int    `toml:"max-age-days"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
