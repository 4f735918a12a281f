// Package ngram extracts weighted fixed-length character windows from corpus
// text.
package ngram

import (
	"sort"
	"strings"
)

// MaxRune is the largest code point a counted window may contain.
const MaxRune = 128

// Entry is one n-gram with its occurrence count. Runes holds the decoded gram.
type Entry struct {
	Gram  string
	Runes []rune
	Count uint64
}

// Table maps n-grams to counts. A Table is immutable once built and safe to
// share between goroutines.
type Table struct {
	size    int
	counts  map[string]uint64
	entries []Entry
	total   uint64
}

func newTable(size int, counts map[string]uint64) *Table {
	t := &Table{size: size, counts: counts}
	t.entries = make([]Entry, 0, len(counts))
	for gram, count := range counts {
		t.entries = append(t.entries, Entry{Gram: gram, Runes: []rune(gram), Count: count})
		t.total += count
	}
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Gram < t.entries[j].Gram
	})
	return t
}

// Empty returns a table without entries.
func Empty(size int) *Table {
	return newTable(size, map[string]uint64{})
}

// FromCounts builds a table from raw counts. Zero counts are dropped.
func FromCounts(size int, counts map[string]uint64) *Table {
	c := make(map[string]uint64, len(counts))
	for gram, n := range counts {
		if n > 0 {
			c[gram] = n
		}
	}
	return newTable(size, c)
}

// Size returns the window width. Merged tables of mixed widths report 0.
func (t *Table) Size() int { return t.size }

// Len returns the number of distinct n-grams.
func (t *Table) Len() int { return len(t.entries) }

// Total returns the sum of all counts.
func (t *Table) Total() uint64 { return t.total }

// Count returns the count of gram.
func (t *Table) Count(gram string) uint64 { return t.counts[gram] }

// Entries returns the entries sorted by gram. Callers must not modify them.
func (t *Table) Entries() []Entry { return t.entries }

// Top returns the k most frequent entries, ties broken by gram.
func (t *Table) Top(k int) []Entry {
	if k <= 0 || len(t.entries) == 0 {
		return nil
	}
	items := make([]Entry, len(t.entries))
	copy(items, t.entries)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if k > len(items) {
		k = len(items)
	}
	return items[:k]
}

// Normalize converts CRLF line endings and applies subs.
func Normalize(text string, subs Substitutions) []rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	runes := []rune(text)
	if len(subs) == 0 {
		return runes
	}
	for i, r := range runes {
		if s, ok := subs[r]; ok {
			runes[i] = s
		}
	}
	return runes
}

// Build counts the windows of n runes in text whose runes are all within
// MaxRune. Windows start at offsets 0 through len-n-1, so the window ending on
// the final rune is not counted and text no longer than n yields an empty
// table.
func Build(text string, subs Substitutions, n int) *Table {
	runes := Normalize(text, subs)
	return FromCounts(n, countWindows(runes, n, 0, windowCount(runes, n)))
}

func windowCount(runes []rune, n int) int {
	if n < 1 || len(runes) <= n {
		return 0
	}
	return len(runes) - n
}

// countWindows counts the clean windows starting in [from, to).
func countWindows(runes []rune, n, from, to int) map[string]uint64 {
	counts := map[string]uint64{}
	for i := from; i < to; i++ {
		if clean(runes[i : i+n]) {
			counts[string(runes[i:i+n])]++
		}
	}
	return counts
}

func clean(window []rune) bool {
	for _, r := range window {
		if r > MaxRune {
			return false
		}
	}
	return true
}

// Merge sums the counts of identical n-grams across tables.
func Merge(tables ...*Table) *Table {
	size := -1
	counts := map[string]uint64{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		if size == -1 {
			size = t.size
		} else if size != t.size {
			size = 0
		}
		for _, e := range t.entries {
			counts[e.Gram] += e.Count
		}
	}
	if size == -1 {
		size = 0
	}
	return newTable(size, counts)
}
