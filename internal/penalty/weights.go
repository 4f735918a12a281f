package penalty

// Weights holds the per-occurrence magnitudes of every rule. Roll tables are
// indexed by row distance.
type Weights struct {
	BaseDivisor         float64
	SameKey             float64
	SameFinger          float64
	LongJumpHand        float64
	LongJump            float64
	LongJumpConsecutive float64
	PinkyRingTwist      float64
	LateralStretch      float64
	RollOut             [4]float64
	RollIn              [4]float64
	Alternation         float64

	ReversalSameFingerEdge float64
	ReversalSameFinger     float64
	ReversalEdge           float64
	Reversal               float64
	TwistShort             float64
	TwistLong              float64
	SameFingerTrigram      float64
	Sandwich               float64
	HandSwap               float64
	DoubleHandSwap         float64

	// Post-pass fractions of the accumulated Bad total.
	FingerBalance      float64
	HandBalance        float64
	RightHandReduction float64
}

// DefaultWeights returns the standard weights.
func DefaultWeights() Weights {
	return Weights{
		BaseDivisor:         5,
		SameKey:             0,
		SameFinger:          5,
		LongJumpHand:        1,
		LongJump:            8,
		LongJumpConsecutive: 4,
		PinkyRingTwist:      4,
		LateralStretch:      1.5,
		RollOut:             [4]float64{1, 1.5, 2.5, 3.5},
		RollIn:              [4]float64{-2, -1.5, -0.5, 0},
		Alternation:         -0.4,

		ReversalSameFingerEdge: 7,
		ReversalSameFinger:     6,
		ReversalEdge:           4,
		Reversal:               2,
		TwistShort:             4,
		TwistLong:              7,
		SameFingerTrigram:      5,
		Sandwich:               3,
		HandSwap:               5,
		DoubleHandSwap:         9,

		FingerBalance:      0.05,
		HandBalance:        0.1,
		RightHandReduction: 0.05,
	}
}
