package ngram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuickBrownFox(t *testing.T) {
	corpus := "the quick brown fox"
	require.Len(t, corpus, 19)
	tbl := Build(corpus, nil, 4)
	assert.NotZero(t, tbl.Len())
	assert.Equal(t, uint64(15), tbl.Total())
	assert.Equal(t, uint64(1), tbl.Count("the "))
	assert.Equal(t, 4, tbl.Size())
}

func TestBuildShortCorpus(t *testing.T) {
	for _, corpus := range []string{"", "a", "abc", "abcd"} {
		tbl := Build(corpus, nil, 4)
		assert.Zero(t, tbl.Len(), "corpus %q", corpus)
		assert.Zero(t, tbl.Total(), "corpus %q", corpus)
	}
}

func TestBuildDropsNonASCIIWindows(t *testing.T) {
	tbl := Build("abcédefgh", nil, 3)
	for _, e := range tbl.Entries() {
		assert.NotContains(t, e.Gram, "é")
	}
	// 9 runes -> 6 attempts; the three windows covering é are dropped.
	assert.Equal(t, uint64(3), tbl.Total())
	assert.Equal(t, uint64(1), tbl.Count("abc"))
	assert.Equal(t, uint64(1), tbl.Count("def"))
}

func TestBuildNormalizesLineEndings(t *testing.T) {
	tbl := Build("ab\r\ncd\r\nef", nil, 2)
	assert.Zero(t, tbl.Count("\r\n"))
	assert.Equal(t, uint64(1), tbl.Count("b\n"))
	assert.Equal(t, uint64(1), tbl.Count("\nc"))
}

func TestBuildAppliesSubstitutions(t *testing.T) {
	tbl := Build("café au lait", DefaultSubstitutions(), 4)
	assert.Equal(t, uint64(1), tbl.Count("cafe"))
	assert.Equal(t, uint64(8), tbl.Total())
}

func TestMergeSumsCounts(t *testing.T) {
	a := FromCounts(2, map[string]uint64{"ab": 2, "bc": 1})
	b := FromCounts(2, map[string]uint64{"ab": 3, "cd": 4})
	m := Merge(a, b)
	assert.Equal(t, uint64(5), m.Count("ab"))
	assert.Equal(t, uint64(1), m.Count("bc"))
	assert.Equal(t, uint64(4), m.Count("cd"))
	assert.Equal(t, uint64(10), m.Total())
	assert.Equal(t, 2, m.Size())
}

func TestMergeAssociative(t *testing.T) {
	a := Build("the quick brown fox jumps", nil, 3)
	b := Build("over the lazy dog", nil, 3)
	c := Build("the end of the quick story", nil, 3)

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	flat := Merge(a, b, c)

	assert.Equal(t, left.Entries(), right.Entries())
	assert.Equal(t, left.Entries(), flat.Entries())
}

func TestMergeMixedSizes(t *testing.T) {
	m := Merge(Empty(3), Empty(4))
	assert.Equal(t, 0, m.Size())
	assert.Equal(t, 0, Merge().Len())
}

func TestEntriesSorted(t *testing.T) {
	tbl := Build("zyxwvutsrq", nil, 2)
	entries := tbl.Entries()
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Gram, entries[i].Gram)
	}
	assert.Equal(t, []rune(entries[0].Gram), entries[0].Runes)
}

func TestTop(t *testing.T) {
	tbl := FromCounts(2, map[string]uint64{"ab": 1, "bc": 5, "cd": 5, "de": 0})
	top := tbl.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "bc", top[0].Gram)
	assert.Equal(t, "cd", top[1].Gram)
	assert.Len(t, tbl.Top(10), 3)
	assert.Nil(t, tbl.Top(0))
}

func TestBuildParallelMatchesBuild(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog.\r\nNaïve café. ", 6000)
	subs := DefaultSubstitutions()
	serial := Build(text, subs, 3)
	parallel := BuildParallel(text, subs, 3, 4)
	assert.Equal(t, serial.Total(), parallel.Total())
	assert.Equal(t, serial.Entries(), parallel.Entries())
}

func TestParseSubstitutions(t *testing.T) {
	subs, err := ParseSubstitutions(map[string]string{"ß": "s"})
	require.NoError(t, err)
	assert.Equal(t, 's', subs['ß'])

	_, err = ParseSubstitutions(map[string]string{"ab": "c"})
	require.Error(t, err)
}

func TestFingerprintStable(t *testing.T) {
	a := Substitutions{'x': 'y', 'a': 'b'}
	b := Substitutions{'a': 'b', 'x': 'y'}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, "abxy", a.Fingerprint())
	merged := a.With(Substitutions{'a': 'c'})
	assert.Equal(t, 'c', merged['a'])
	assert.Equal(t, 'b', a['a'])
}
