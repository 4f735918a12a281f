package ngram

import (
	"golang.org/x/sync/errgroup"
)

// minChunkWindows keeps small corpora on a single goroutine.
const minChunkWindows = 1 << 16

// BuildParallel produces the same table as Build, counting disjoint ranges of
// window offsets concurrently and merging the partial tables.
func BuildParallel(text string, subs Substitutions, n, chunks int) *Table {
	runes := Normalize(text, subs)
	total := windowCount(runes, n)
	if chunks < 1 {
		chunks = 1
	}
	if per := total / chunks; per < minChunkWindows {
		chunks = max(1, total/minChunkWindows)
	}
	if chunks == 1 {
		return FromCounts(n, countWindows(runes, n, 0, total))
	}

	parts := make([]*Table, chunks)
	var g errgroup.Group
	for c := 0; c < chunks; c++ {
		c := c
		from := total * c / chunks
		to := total * (c + 1) / chunks
		g.Go(func() error {
			parts[c] = FromCounts(n, countWindows(runes, n, from, to))
			return nil
		})
	}
	_ = g.Wait()
	return Merge(parts...)
}
