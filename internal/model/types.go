// Package model defines shared data structures.
package model

// RunConfig defines the settings of a search run.
type RunConfig struct {
	CorpusPath string
	ExtraPaths []string
	LayoutPath string
	NGram      int
	Top        int
	Swaps      int
	Cycles     int
	Rounds     int
	Workers    int
	Seed       int64
	T0         float64
	K          float64
	Cache      bool
	Snapshot   string
	Plot       bool
	All        bool
}

// CorpusPaths returns the main corpus followed by the extra corpora.
func (c RunConfig) CorpusPaths() []string {
	paths := make([]string, 0, 1+len(c.ExtraPaths))
	paths = append(paths, c.CorpusPath)
	return append(paths, c.ExtraPaths...)
}

// NGramsConfig defines options for n-gram inspection.
type NGramsConfig struct {
	CorpusPath string
	NGram      int
	Limit      int
	JSON       bool
	Cache      bool
}

// GramCount is one n-gram in inspection output.
type GramCount struct {
	Gram  string  `json:"gram"`
	Count uint64  `json:"count"`
	Share float64 `json:"share"`
}
