// Package penalty scores a layout against an n-gram table with a hand and
// finger penalty model.
//
// Each n-gram contributes the keystroke at its last position, weighted by
// the n-gram count. The two keystrokes before it are context for the
// transition and three-key rules. N-grams containing a character the layout
// cannot type are skipped entirely. Once every n-gram is scored, balance
// penalties derived from the accumulated Bad total are appended.
package penalty

import (
	"math"

	"github.com/verte-zerg/layopt/internal/geometry"
	"github.com/verte-zerg/layopt/internal/layout"
	"github.com/verte-zerg/layopt/internal/ngram"
)

// Engine scores layouts. It holds no mutable state and may be shared.
type Engine struct {
	geom *geometry.Geometry
	w    Weights
}

// NewEngine returns an engine over the default geometry.
func NewEngine(w Weights) *Engine {
	return &Engine{geom: geometry.Default(), w: w}
}

// Weights returns the engine weights.
func (e *Engine) Weights() Weights {
	return e.w
}

// Score evaluates l against tbl. The result depends only on its inputs.
func (e *Engine) Score(tbl *ngram.Table, l layout.Layout) Result {
	pm := l.PositionMap()
	r := newResult()
	for _, entry := range tbl.Entries() {
		var ctx [3]geometry.Key
		seen := 0
		mapped := true
		for _, ch := range entry.Runes {
			pos := pm.Pos(ch)
			if pos == layout.NoPosition {
				mapped = false
				break
			}
			ctx[0], ctx[1], ctx[2] = ctx[1], ctx[2], e.geom.Key(pos)
			seen++
		}
		if !mapped || seen == 0 || entry.Count == 0 {
			continue
		}
		c := entry.Count
		e.keystroke(&r, ctx[2], c)
		if seen >= 2 {
			e.bigram(&r, ctx[1], ctx[2], c)
		}
		if seen >= 3 {
			e.trigram(&r, ctx[0], ctx[1], ctx[2], c)
		}
	}
	e.balance(&r)
	r.sumTotal()
	return r
}

func (e *Engine) keystroke(r *Result, k geometry.Key, c uint64) {
	r.add(Base, c, k.BaseCost/e.w.BaseDivisor)
	r.FingerUsage[k.Hand][k.Finger] += c
	r.HandUsage[k.Hand] += c
	r.Length += c
}

func (e *Engine) bigram(r *Result, a, b geometry.Key, c uint64) {
	if a.Hand != b.Hand {
		r.add(Alternation, c, e.w.Alternation)
		return
	}
	if a.Pos == b.Pos {
		r.add(SameKey, c, e.w.SameKey)
		return
	}
	rowDist := geometry.RowDistance(a, b)
	if a.Finger == b.Finger {
		r.add(SameFinger, c, e.w.SameFinger)
	}
	if rowDist >= 2 {
		switch {
		case a.Finger == b.Finger:
			r.add(LongJump, c, e.w.LongJump)
		case adjacent(a.Finger, b.Finger):
			// Middle finger on the top row down to the index finger is a
			// natural motion.
			if !(a.Finger == geometry.Middle && a.Row == geometry.Top && b.Finger == geometry.Index) {
				r.add(LongJumpConsecutive, c, e.w.LongJumpConsecutive)
			}
		default:
			r.add(LongJumpHand, c, e.w.LongJumpHand)
		}
	}
	if pinkyAboveRing(a, b) || pinkyAboveRing(b, a) {
		r.add(PinkyRingTwist, c, e.w.PinkyRingTwist)
	}
	if (a.Center && b.Finger == geometry.Middle) || (b.Center && a.Finger == geometry.Middle) {
		r.add(LateralStretch, c, e.w.LateralStretch)
	}
	if a.Finger == b.Finger || a.Finger.IsThumb() || b.Finger.IsThumb() {
		return
	}
	d := min(rowDist, 3)
	if b.Finger > a.Finger {
		r.add(RollOut, c, e.w.RollOut[d])
	} else {
		r.add(RollIn, c, e.w.RollIn[d])
	}
}

func (e *Engine) trigram(r *Result, a, b, k geometry.Key, c uint64) {
	if a.Hand == k.Hand && a.Finger == k.Finger &&
		!(b.Hand == a.Hand && b.Finger == a.Finger) &&
		geometry.RowDistance(a, k) > 1 {
		r.add(Sandwich, c, e.w.Sandwich)
	}

	changes := 0
	if a.Hand != b.Hand {
		changes++
	}
	if b.Hand != k.Hand {
		changes++
	}
	switch changes {
	case 1:
		r.add(HandSwap, c, e.w.HandSwap)
		return
	case 2:
		r.add(DoubleHandSwap, c, e.w.DoubleHandSwap)
		return
	}

	if a.Finger == b.Finger && b.Finger == k.Finger {
		if !(a.Pos == b.Pos && b.Pos == k.Pos) {
			r.add(SameFingerTrigram, c, e.w.SameFingerTrigram)
		}
		return
	}

	d1 := direction(a.Finger, b.Finger)
	d2 := direction(b.Finger, k.Finger)
	if d1 != 0 && d2 != 0 && d1 != d2 {
		edge := isEdge(a.Finger) || isEdge(b.Finger) || isEdge(k.Finger)
		switch {
		case a.Finger == k.Finger && edge:
			r.add(RollReversal, c, e.w.ReversalSameFingerEdge)
		case a.Finger == k.Finger:
			r.add(RollReversal, c, e.w.ReversalSameFinger)
		case edge:
			r.add(RollReversal, c, e.w.ReversalEdge)
		default:
			r.add(RollReversal, c, e.w.Reversal)
		}
	}

	if a.Finger.IsThumb() || b.Finger.IsThumb() || k.Finger.IsThumb() {
		return
	}
	if a.Finger == b.Finger || b.Finger == k.Finger || a.Finger == k.Finger {
		return
	}
	monotonic := (a.Row < b.Row && b.Row < k.Row) || (a.Row > b.Row && b.Row > k.Row)
	if !monotonic {
		return
	}
	if geometry.RowDistance(a, k) > 2 {
		r.add(Twist, c, e.w.TwistLong)
	} else {
		r.add(Twist, c, e.w.TwistShort)
	}
}

// balance appends the usage balance penalties. Each one is a fraction of the
// Bad total accumulated so far, including the balance penalties before it.
func (e *Engine) balance(r *Result) {
	if r.Length == 0 {
		return
	}
	total := float64(r.Length)

	var shares [8]float64
	i := 0
	var mean float64
	for h := 0; h < geometry.HandCount; h++ {
		for f := geometry.Index; f <= geometry.Pinky; f++ {
			shares[i] = float64(r.FingerUsage[h][f]) / total
			mean += shares[i]
			i++
		}
	}
	mean /= float64(len(shares))
	var fingerDev float64
	for _, s := range shares {
		fingerDev += math.Abs(s - mean)
	}
	r.addTotal(UnbalancedFingers, fingerDev*e.w.FingerBalance*r.Bad)

	left := float64(r.HandUsage[geometry.Left]) / total
	right := float64(r.HandUsage[geometry.Right]) / total
	handDev := math.Abs(left-0.5) + math.Abs(right-0.5)
	r.addTotal(UnbalancedHands, handDev*e.w.HandBalance*r.Bad)

	if right > left {
		r.addTotal(RightHandReduction, -e.w.RightHandReduction*r.Bad*(right-left))
	}
}

func adjacent(a, b geometry.Finger) bool {
	if a.IsThumb() || b.IsThumb() {
		return false
	}
	return a == b+1 || b == a+1
}

func pinkyAboveRing(p, q geometry.Key) bool {
	return p.Finger == geometry.Pinky && q.Finger == geometry.Ring &&
		p.Row != geometry.ThumbRow && p.Row < q.Row
}

func isEdge(f geometry.Finger) bool {
	return f == geometry.Pinky || f.IsThumb()
}

func direction(from, to geometry.Finger) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}
