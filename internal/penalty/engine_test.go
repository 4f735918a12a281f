package penalty

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/layopt/internal/geometry"
	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/ngram"
)

const sampleText = `The quick brown fox jumps over the lazy dog.
Pack my box with five dozen liquor jugs; how vexingly quick daft zebras jump!
`

func scoreGrams(t *testing.T, n int, grams map[string]uint64) Result {
	t.Helper()
	return NewEngine(DefaultWeights()).Score(ngram.FromCounts(n, grams), layout.Default())
}

func TestScoreEmptyTable(t *testing.T) {
	r := NewEngine(DefaultWeights()).Score(ngram.Empty(4), layout.Default())
	assert.Equal(t, 0.0, r.Total)
	assert.Equal(t, 0.0, r.Bad)
	assert.Equal(t, 0.0, r.Good)
	assert.Zero(t, r.Length)
	for _, c := range r.Categories {
		assert.Equal(t, 0.0, c.Total, c.Name)
		assert.Zero(t, c.Count, c.Name)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	tbl := ngram.Build(sampleText, nil, 3)
	e := NewEngine(DefaultWeights())
	first := e.Score(tbl, layout.Reference())
	second := e.Score(tbl, layout.Reference())
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first, second)
	assert.NotZero(t, first.Total)
}

func TestScoreSkipsUnmapped(t *testing.T) {
	r := scoreGrams(t, 3, map[string]uint64{"ab1": 5, "~ab": 2})
	assert.Zero(t, r.Length)
	assert.Equal(t, 0.0, r.Total)
}

func TestScoreSingleKeystroke(t *testing.T) {
	r := scoreGrams(t, 1, map[string]uint64{"f": 10})
	require.Equal(t, uint64(10), r.Length)
	assert.InDelta(t, 1.0, r.Category(Base).Total, 1e-12)
	assert.Equal(t, uint64(10), r.FingerUsage[geometry.Left][geometry.Index])
	assert.Equal(t, uint64(10), r.HandUsage[geometry.Left])

	// One finger carries everything: deviation 1.75 of Bad 1.0.
	assert.InDelta(t, 0.0875, r.Category(UnbalancedFingers).Total, 1e-12)
	assert.InDelta(t, 0.10875, r.Category(UnbalancedHands).Total, 1e-12)
	assert.Equal(t, 0.0, r.Category(RightHandReduction).Total)
	assert.InDelta(t, 1.19625, r.Bad, 1e-12)
	assert.Equal(t, 0.0, r.Good)
	assert.InDelta(t, 1.19625, r.Total, 1e-12)
	assert.InDelta(t, r.Total/10, r.Scaled(), 1e-12)
}

func TestScoreSingleRightKeystroke(t *testing.T) {
	// j mirrors f, so every penalty before the reduction matches.
	r := scoreGrams(t, 1, map[string]uint64{"j": 10})
	require.Equal(t, uint64(10), r.HandUsage[geometry.Right])
	assert.InDelta(t, 1.0, r.Category(Base).Total, 1e-12)
	assert.InDelta(t, 0.0875, r.Category(UnbalancedFingers).Total, 1e-12)
	assert.InDelta(t, 0.10875, r.Category(UnbalancedHands).Total, 1e-12)
	assert.InDelta(t, -0.0598125, r.Category(RightHandReduction).Total, 1e-12)
	assert.InDelta(t, 1.19625, r.Bad, 1e-12)
	assert.InDelta(t, -0.0598125, r.Good, 1e-12)
	assert.InDelta(t, r.Bad+r.Good, r.Total, 1e-12)
}

func TestBigramRules(t *testing.T) {
	tests := []struct {
		name  string
		gram  string
		id    CategoryID
		total float64
	}{
		{"alternation", "fj", Alternation, -0.4},
		{"same finger", "fr", SameFinger, 5},
		{"long jump same finger", "rv", LongJump, 8},
		{"long jump consecutive", "cr", LongJumpConsecutive, 4},
		{"long jump hand", "qv", LongJumpHand, 1},
		{"roll in same row", "sf", RollIn, -2},
		{"roll in across rows", "cr", RollIn, -0.5},
		{"roll out same row", "fs", RollOut, 1},
		{"pinky above ring", "qx", PinkyRingTwist, 4},
		{"lateral stretch", "dg", LateralStretch, 1.5},
		{"same key", "ff", SameKey, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scoreGrams(t, 2, map[string]uint64{tt.gram: 1})
			c := r.Category(tt.id)
			assert.Equal(t, uint64(1), c.Count)
			assert.InDelta(t, tt.total, c.Total, 1e-12)
		})
	}
}

func TestLongJumpCarveOut(t *testing.T) {
	// Middle finger on the top row down to the index finger.
	r := scoreGrams(t, 2, map[string]uint64{"ev": 1})
	assert.Zero(t, r.Category(LongJumpConsecutive).Count)
	assert.Zero(t, r.Category(LongJumpHand).Count)
}

var trigramCategories = []CategoryID{RollReversal, Twist, SameFingerTrigram, Sandwich, HandSwap, DoubleHandSwap}

func TestTrigramRules(t *testing.T) {
	tests := []struct {
		name  string
		gram  string
		id    CategoryID
		total float64
		also  []CategoryID
	}{
		{"reversal", "sfd", RollReversal, 2, nil},
		{"reversal with pinky", "fas", RollReversal, 4, nil},
		{"reversal back to same finger", "dfd", RollReversal, 6, nil},
		{"reversal back to pinky", "asa", RollReversal, 7, nil},
		{"twist", "qdv", Twist, 4, nil},
		{"same finger trigram", "frv", SameFingerTrigram, 5, nil},
		{"sandwich", "rjv", Sandwich, 3, []CategoryID{DoubleHandSwap}},
		{"hand swap", "fjk", HandSwap, 5, nil},
		{"double hand swap", "rjv", DoubleHandSwap, 9, []CategoryID{Sandwich}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scoreGrams(t, 3, map[string]uint64{tt.gram: 1})
			c := r.Category(tt.id)
			assert.Equal(t, uint64(1), c.Count)
			assert.InDelta(t, tt.total, c.Total, 1e-12)
			for _, id := range trigramCategories {
				if id == tt.id || slices.Contains(tt.also, id) {
					continue
				}
				assert.Zero(t, r.Category(id).Count, id.String())
				assert.Equal(t, 0.0, r.Category(id).Total, id.String())
			}
		})
	}
}

func TestTwistSpan(t *testing.T) {
	// e and d share the middle finger, so the rows never twist.
	r := scoreGrams(t, 3, map[string]uint64{"edb": 1})
	assert.Zero(t, r.Category(Twist).Count)

	// Index on the top row, ring on the home row, pinky on the bottom cluster.
	r = scoreGrams(t, 3, map[string]uint64{"rs-": 1})
	assert.InDelta(t, 7.0, r.Category(Twist).Total, 1e-12)
}

func TestSameFingerTrigramSameKey(t *testing.T) {
	r := scoreGrams(t, 3, map[string]uint64{"fff": 4})
	assert.Zero(t, r.Category(SameFingerTrigram).Count)
	assert.Equal(t, uint64(4), r.Category(SameKey).Count)
}

func TestCountWeightsPenalties(t *testing.T) {
	one := scoreGrams(t, 3, map[string]uint64{"sfd": 1})
	many := scoreGrams(t, 3, map[string]uint64{"sfd": 7})
	assert.InDelta(t, 7*one.Category(RollReversal).Total, many.Category(RollReversal).Total, 1e-9)
	assert.InDelta(t, 7*one.Category(Base).Total, many.Category(Base).Total, 1e-9)
}

func TestHandBalanceBound(t *testing.T) {
	oneHand := scoreGrams(t, 1, map[string]uint64{"a": 5, "s": 5, "d": 5, "f": 5})
	split := scoreGrams(t, 1, map[string]uint64{"a": 5, "s": 5, "k": 5, "l": 5})
	assert.Greater(t, oneHand.Category(UnbalancedHands).Total, split.Category(UnbalancedHands).Total)
	assert.Equal(t, 0.0, split.Category(UnbalancedHands).Total)
}

func TestRightHandReductionOnlyForRightBias(t *testing.T) {
	left := scoreGrams(t, 1, map[string]uint64{"f": 3})
	assert.Equal(t, 0.0, left.Category(RightHandReduction).Total)
	right := scoreGrams(t, 1, map[string]uint64{"j": 3})
	assert.Less(t, right.Category(RightHandReduction).Total, 0.0)
	even := scoreGrams(t, 1, map[string]uint64{"f": 3, "j": 3})
	assert.Equal(t, 0.0, even.Category(RightHandReduction).Total)

	// Scaled by the gap between the hand shares.
	mostlyRight := scoreGrams(t, 1, map[string]uint64{"f": 1, "j": 3})
	gap := 0.75 - 0.25
	bad := mostlyRight.Bad
	assert.InDelta(t, -0.05*bad*gap, mostlyRight.Category(RightHandReduction).Total, 1e-12)
}

func TestTotalsAddUp(t *testing.T) {
	r := NewEngine(DefaultWeights()).Score(ngram.Build(sampleText, nil, 3), layout.Default())
	var sum, bad, good float64
	for _, c := range r.Categories {
		sum += c.Total
		if c.Total > 0 {
			bad += c.Total
		} else {
			good += c.Total
		}
	}
	assert.InDelta(t, sum, r.Total, 1e-9)
	assert.InDelta(t, bad, r.Bad, 1e-9)
	assert.InDelta(t, good, r.Good, 1e-9)
	assert.InDelta(t, r.Bad+r.Good, r.Total, 1e-9)
	assert.Greater(t, r.Bad, 0.0)
	assert.Less(t, r.Good, 0.0)

	var usage uint64
	for h := range r.HandUsage {
		usage += r.HandUsage[h]
	}
	assert.Equal(t, r.Length, usage)
}

func TestCategoryNames(t *testing.T) {
	r := newResult()
	require.Len(t, r.Categories, CategoryCount)
	for i, c := range r.Categories {
		assert.Equal(t, CategoryID(i), c.ID)
		assert.NotEmpty(t, c.Name)
	}
	assert.Equal(t, "roll in", RollIn.String())
}
