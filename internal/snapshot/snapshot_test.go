package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/layopt/internal/anneal"
	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/ngram"
	"github.com/verte-zerg/layopt/internal/penalty"
)

func sampleEntries(t *testing.T) []anneal.Entry {
	t.Helper()
	tbl := ngram.Build("the quick brown fox jumps over the lazy dog\n", nil, 3)
	engine := penalty.NewEngine(penalty.DefaultWeights())
	var out []anneal.Entry
	for _, l := range []layout.Layout{layout.Reference(), layout.Default()} {
		out = append(out, anneal.Entry{Layout: l, Result: engine.Score(tbl, l)})
	}
	return out
}

func TestNewFillsMetadata(t *testing.T) {
	s := New(RunInfo{NGram: 3, Top: 2}, sampleEntries(t))
	assert.Len(t, s.Run.ID, 36)
	require.Len(t, s.Layouts, 2)
	assert.Equal(t, 1, s.Layouts[0].Rank)
	assert.Equal(t, 2, s.Layouts[1].Rank)
	assert.NotEmpty(t, s.Layouts[0].Categories)
	assert.NotEmpty(t, s.Build.GoVersion)

	again := New(RunInfo{ID: "fixed"}, nil)
	assert.Equal(t, "fixed", again.Run.ID)
	assert.Empty(t, again.Layouts)
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.toml")
	entries := sampleEntries(t)
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(RunInfo{StartedAt: started, Corpus: []string{"a.txt"}, NGram: 3, Seed: 9}, entries)

	require.NoError(t, write(path, s))
	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, s.Run.ID, got.Run.ID)
	assert.True(t, started.Equal(got.Run.StartedAt))
	assert.Equal(t, []string{"a.txt"}, got.Run.Corpus)
	assert.Equal(t, int64(9), got.Run.Seed)
	require.Len(t, got.Layouts, len(entries))
	for i, r := range got.Layouts {
		assert.Equal(t, s.Layouts[i].Total, r.Total)
		l, err := r.ParseLayout()
		require.NoError(t, err)
		assert.True(t, l.Equal(entries[i].Layout), "rank %d", r.Rank)
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "snapshot-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWriteRespectsBuildTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	err := Write(path, New(RunInfo{}, nil))
	if Enabled {
		require.NoError(t, err)
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
		return
	}
	assert.ErrorIs(t, err, ErrDisabled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
