// Package geometry describes the fixed physical key arrangement shared by every
// layout: which hand, finger and row presses each of the 36 key positions, and
// what a single press of that position costs.
package geometry

import "fmt"

// KeyCount is the number of key positions on the board.
const KeyCount = 36

// Hand identifies the hand pressing a key.
type Hand uint8

const (
	Left Hand = iota
	Right
)

// HandCount is the number of hands.
const HandCount = 2

func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// Finger identifies a finger. The numeric order is the roll order: moving to a
// lower value rolls inward, toward the thumb.
type Finger uint8

const (
	ThumbBottom Finger = iota
	Thumb
	Index
	Middle
	Ring
	Pinky
)

// FingerCount is the number of fingers per hand, counting both thumb variants.
const FingerCount = 6

var fingerNames = [FingerCount]string{"thumb-bottom", "thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if int(f) < len(fingerNames) {
		return fingerNames[f]
	}
	return fmt.Sprintf("finger(%d)", uint8(f))
}

// IsThumb reports whether f is either thumb variant.
func (f Finger) IsThumb() bool {
	return f == Thumb || f == ThumbBottom
}

// Row identifies a physical row. The numeric value is the row height used for
// row distances.
type Row uint8

const (
	Top Row = iota
	MiddleTop
	MiddleBottom
	Bottom
	ThumbRow
)

var rowNames = [...]string{"top", "middle-top", "middle-bottom", "bottom", "thumb"}

func (r Row) String() string {
	if int(r) < len(rowNames) {
		return rowNames[r]
	}
	return fmt.Sprintf("row(%d)", uint8(r))
}

// Key holds the static description of one position.
type Key struct {
	Pos      int
	Hand     Hand
	Finger   Finger
	Row      Row
	Center   bool
	BaseCost float64
}

// Geometry is the immutable description of all positions. Obtain it with
// Default; the zero value is not usable.
type Geometry struct {
	keys      [KeyCount]Key
	swappable [KeyCount]bool
}

// Key returns the description of position pos.
func (g *Geometry) Key(pos int) Key {
	return g.keys[pos]
}

// Swappable reports whether pos may be exchanged during a search.
func (g *Geometry) Swappable(pos int) bool {
	return g.swappable[pos]
}

// SwappableCount returns the number of swappable positions.
func (g *Geometry) SwappableCount() int {
	n := 0
	for _, ok := range g.swappable {
		if ok {
			n++
		}
	}
	return n
}

// RowDistance returns the vertical distance between two keys. Thumb keys sit
// outside the finger rows and never form a row distance.
func RowDistance(a, b Key) int {
	if a.Finger.IsThumb() || b.Finger.IsThumb() {
		return 0
	}
	d := int(a.Row) - int(b.Row)
	if d < 0 {
		d = -d
	}
	return d
}

var defaultGeometry = build()

// Default returns the process-wide geometry.
func Default() *Geometry {
	return defaultGeometry
}

// Letter rows, left to right.
var columnFingers = [10]Finger{Pinky, Ring, Middle, Index, Index, Index, Index, Middle, Ring, Pinky}

var letterRows = [3]Row{Top, MiddleTop, MiddleBottom}

var baseCosts = [KeyCount]float64{
	3.0, 2.0, 1.6, 1.8, 3.2, 3.2, 1.8, 1.6, 2.0, 3.0,
	1.2, 0.8, 0.6, 0.5, 2.2, 2.2, 0.5, 0.6, 0.8, 1.2,
	3.4, 2.6, 2.2, 1.6, 3.0, 3.0, 1.6, 2.2, 2.6, 3.4,
	4.2, 1.0, 0.4, 0.4, 1.0, 4.2,
}

type clusterKey struct {
	hand   Hand
	finger Finger
	row    Row
}

// Bottom cluster: outer pinky keys and two thumb keys per hand.
var cluster = [6]clusterKey{
	{Left, Pinky, Bottom},
	{Left, Thumb, ThumbRow},
	{Left, ThumbBottom, ThumbRow},
	{Right, ThumbBottom, ThumbRow},
	{Right, Thumb, ThumbRow},
	{Right, Pinky, Bottom},
}

func build() *Geometry {
	g := &Geometry{}
	for r, row := range letterRows {
		for c, finger := range columnFingers {
			pos := r*10 + c
			hand := Left
			if c >= 5 {
				hand = Right
			}
			g.keys[pos] = Key{
				Pos:      pos,
				Hand:     hand,
				Finger:   finger,
				Row:      row,
				Center:   c == 4 || c == 5,
				BaseCost: baseCosts[pos],
			}
			g.swappable[pos] = true
		}
	}
	for i, ck := range cluster {
		pos := 30 + i
		g.keys[pos] = Key{
			Pos:      pos,
			Hand:     ck.hand,
			Finger:   ck.finger,
			Row:      ck.row,
			BaseCost: baseCosts[pos],
		}
		g.swappable[pos] = !ck.finger.IsThumb()
	}
	return g
}
