package penalty

import "github.com/verte-zerg/layopt/internal/geometry"

// Result is the score of one layout against one n-gram table. Positive totals
// are ergonomic cost, negative totals are ergonomic benefit.
type Result struct {
	Categories  [CategoryCount]Category
	Total       float64
	Bad         float64
	Good        float64
	Length      uint64
	FingerUsage [geometry.HandCount][geometry.FingerCount]uint64
	HandUsage   [geometry.HandCount]uint64
}

func newResult() Result {
	var r Result
	for i := range r.Categories {
		r.Categories[i] = Category{
			ID:      CategoryID(i),
			Name:    categoryInfo[i].name,
			Visible: categoryInfo[i].visible,
		}
	}
	return r
}

// Category returns the accumulated category id.
func (r *Result) Category(id CategoryID) Category {
	return r.Categories[id]
}

// Scaled returns the total penalty per scored keystroke.
func (r *Result) Scaled() float64 {
	if r.Length == 0 {
		return 0
	}
	return r.Total / float64(r.Length)
}

// add records value for count keystrokes.
func (r *Result) add(id CategoryID, count uint64, value float64) {
	c := &r.Categories[id]
	c.Count += count
	r.addTotal(id, value*float64(count))
}

// addTotal records an already weighted amount without touching the count.
func (r *Result) addTotal(id CategoryID, v float64) {
	r.Categories[id].Total += v
	switch {
	case v > 0:
		r.Bad += v
	case v < 0:
		r.Good += v
	}
}

func (r *Result) sumTotal() {
	r.Total = 0
	for i := range r.Categories {
		r.Total += r.Categories[i].Total
	}
}
