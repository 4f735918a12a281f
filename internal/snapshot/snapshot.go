// Package snapshot writes and reads flat TOML records of search results.
//
// Writing is only compiled in with the snapshot build tag; without it Write
// returns ErrDisabled. Reading is always available.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/verte-zerg/layopt/internal/anneal"
	"github.com/verte-zerg/layopt/internal/layout"
)

// ErrDisabled is returned by Write when snapshots are not compiled in.
var ErrDisabled = errors.New("snapshots are disabled in this build (rebuild with -tags snapshot)")

// Snapshot is one persisted search result.
type Snapshot struct {
	Build   BuildInfo `toml:"build"`
	Run     RunInfo   `toml:"run"`
	Layouts []Ranked  `toml:"layout"`
}

// BuildInfo identifies the binary that produced a snapshot.
type BuildInfo struct {
	GoVersion string `toml:"go-version"`
	Module    string `toml:"module"`
	Version   string `toml:"version"`
	Revision  string `toml:"revision,omitempty"`
	Modified  bool   `toml:"modified"`
}

// RunInfo records the search parameters.
type RunInfo struct {
	ID        string    `toml:"id"`
	StartedAt time.Time `toml:"started-at"`
	Duration  string    `toml:"duration"`
	Corpus    []string  `toml:"corpus"`
	NGram     int       `toml:"ngram"`
	Top       int       `toml:"top"`
	Swaps     int       `toml:"swaps"`
	Cycles    int       `toml:"cycles"`
	Rounds    int       `toml:"rounds"`
	Workers   int       `toml:"workers"`
	Seed      int64     `toml:"seed"`
}

// Ranked is one retained layout.
type Ranked struct {
	Rank       int                `toml:"rank"`
	Total      float64            `toml:"total"`
	Scaled     float64            `toml:"scaled"`
	Layout     string             `toml:"layout"`
	Categories map[string]float64 `toml:"categories"`
}

// New builds a snapshot of entries. A missing run ID is generated.
func New(run RunInfo, entries []anneal.Entry) Snapshot {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	s := Snapshot{Build: readBuildInfo(), Run: run}
	for i, e := range entries {
		cats := make(map[string]float64)
		for _, c := range e.Result.Categories {
			if c.Total != 0 {
				cats[c.Name] = c.Total
			}
		}
		s.Layouts = append(s.Layouts, Ranked{
			Rank:       i + 1,
			Total:      e.Result.Total,
			Scaled:     e.Result.Scaled(),
			Layout:     e.Layout.Format(),
			Categories: cats,
		})
	}
	return s
}

func readBuildInfo() BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return BuildInfo{Version: "unknown"}
	}
	b := BuildInfo{
		GoVersion: info.GoVersion,
		Module:    info.Main.Path,
		Version:   info.Main.Version,
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// Write stores s at path, replacing any existing file atomically.
func Write(path string, s Snapshot) error {
	if !Enabled {
		return ErrDisabled
	}
	return write(path, s)
}

func write(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "snapshot-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := toml.NewEncoder(writer).Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot written by Write.
func Read(path string) (Snapshot, error) {
	var s Snapshot
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// ParseLayout parses the stored layout text.
func (r Ranked) ParseLayout() (layout.Layout, error) {
	return layout.Parse(r.Layout)
}
