package anneal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/penalty"
)

func entryWith(total float64, swapWith int) Entry {
	l := layout.Default()
	if swapWith > 0 {
		l.Swap(0, swapWith)
	}
	return Entry{Layout: l, Result: penalty.Result{Total: total}}
}

func totals(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Total()
	}
	return out
}

func TestTopKKeepsLowest(t *testing.T) {
	top := NewTopK(3)
	top.Merge(entryWith(5, 1), entryWith(2, 2), entryWith(9, 3), entryWith(1, 4), entryWith(7, 5))

	assert.Equal(t, 3, top.Len())
	assert.Equal(t, []float64{1, 2, 5}, totals(top.Entries()))
	best, ok := top.Best()
	require.True(t, ok)
	assert.Equal(t, 1.0, best.Total())
}

func TestTopKDropsDuplicateLayouts(t *testing.T) {
	top := NewTopK(4)
	top.Merge(entryWith(3, 1), entryWith(3, 1), entryWith(4, 2))
	top.Merge(entryWith(3, 1))

	assert.Equal(t, []float64{3, 4}, totals(top.Entries()))
}

func TestTopKStableOnTies(t *testing.T) {
	top := NewTopK(2)
	first := entryWith(1, 1)
	second := entryWith(1, 2)
	top.Merge(first, second, entryWith(1, 3))

	got := top.Entries()
	require.Len(t, got, 2)
	assert.True(t, got[0].Layout.Equal(first.Layout))
	assert.True(t, got[1].Layout.Equal(second.Layout))
}

func TestTopKEmpty(t *testing.T) {
	top := NewTopK(0)
	assert.Equal(t, 1, top.Cap())
	_, ok := top.Best()
	assert.False(t, ok)
	assert.Empty(t, top.Entries())
}

func TestTopKEntriesIsCopy(t *testing.T) {
	top := NewTopK(2)
	top.Merge(entryWith(1, 1))
	got := top.Entries()
	got[0].Result.Total = 100

	best, _ := top.Best()
	assert.Equal(t, 1.0, best.Total())
}
