package penalty

// CategoryID indexes a penalty category. The order is fixed and is also the
// order category totals are summed in.
type CategoryID int

const (
	Base CategoryID = iota
	SameKey
	SameFinger
	LongJumpHand
	LongJump
	LongJumpConsecutive
	PinkyRingTwist
	LateralStretch
	RollOut
	RollIn
	Alternation
	RollReversal
	Twist
	SameFingerTrigram
	Sandwich
	HandSwap
	DoubleHandSwap
	UnbalancedFingers
	UnbalancedHands
	RightHandReduction
)

// CategoryCount is the number of categories.
const CategoryCount = int(RightHandReduction) + 1

var categoryInfo = [CategoryCount]struct {
	name    string
	visible bool
}{
	Base:                {"base", false},
	SameKey:             {"same key", false},
	SameFinger:          {"same finger", true},
	LongJumpHand:        {"long jump hand", true},
	LongJump:            {"long jump", true},
	LongJumpConsecutive: {"long jump consecutive", true},
	PinkyRingTwist:      {"pinky/ring twist", true},
	LateralStretch:      {"lateral stretch", true},
	RollOut:             {"roll out", true},
	RollIn:              {"roll in", true},
	Alternation:         {"alternation", true},
	RollReversal:        {"roll reversal", true},
	Twist:               {"twist", true},
	SameFingerTrigram:   {"same finger trigram", true},
	Sandwich:            {"long jump sandwich", true},
	HandSwap:            {"hand swap", false},
	DoubleHandSwap:      {"double hand swap", false},
	UnbalancedFingers:   {"unbalanced fingers", true},
	UnbalancedHands:     {"unbalanced hands", true},
	RightHandReduction:  {"right hand reduction", true},
}

func (id CategoryID) String() string {
	return categoryInfo[id].name
}

// Category accumulates one kind of penalty.
type Category struct {
	ID      CategoryID
	Name    string
	Visible bool
	// Count is the number of keystrokes the penalty applied to. Post-pass
	// categories have no count.
	Count uint64
	Total float64
}
