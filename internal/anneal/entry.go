package anneal

import (
	"sort"

	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/penalty"
)

// Entry pairs a layout with its score.
type Entry struct {
	Layout layout.Layout
	Result penalty.Result
}

// Total returns the total penalty of the entry.
func (e Entry) Total() float64 {
	return e.Result.Total
}

// TopK keeps the k lowest-penalty distinct layouts, sorted ascending.
type TopK struct {
	k       int
	entries []Entry
}

// NewTopK returns an empty set bounded at k (at least one).
func NewTopK(k int) *TopK {
	if k < 1 {
		k = 1
	}
	return &TopK{k: k}
}

// Cap returns the bound.
func (t *TopK) Cap() int { return t.k }

// Len returns the number of retained entries.
func (t *TopK) Len() int { return len(t.entries) }

// Entries returns a copy of the retained entries, best first.
func (t *TopK) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Best returns the lowest-penalty entry.
func (t *TopK) Best() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[0], true
}

// Merge adds candidates to the set. Equal totals keep their arrival order and
// a layout already present is kept only once, with its lowest total.
func (t *TopK) Merge(candidates ...Entry) {
	all := make([]Entry, 0, len(t.entries)+len(candidates))
	all = append(all, t.entries...)
	all = append(all, candidates...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Result.Total < all[j].Result.Total
	})
	kept := all[:0]
	for _, e := range all {
		if len(kept) == t.k {
			break
		}
		if containsLayout(kept, e.Layout) {
			continue
		}
		kept = append(kept, e)
	}
	t.entries = append([]Entry(nil), kept...)
}

func containsLayout(entries []Entry, l layout.Layout) bool {
	for i := range entries {
		if entries[i].Layout.Equal(l) {
			return true
		}
	}
	return false
}
