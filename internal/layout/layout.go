// Package layout holds key layouts: two parallel character layers over the
// fixed board geometry, plus the swap operations the search mutates them with.
package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"unicode"

	"github.com/verte-zerg/layopt/internal/geometry"
)

// Null marks a position without a character.
const Null rune = 0

// File format: three letter rows of ten keys and a six-key cluster, each line
// terminated by a newline, so a layer occupies 40 runes. An optional upper
// layer follows at the same offsets shifted by upperOffset.
const (
	rowStride   = 11
	clusterBase = 33
	upperOffset = 40
)

// ErrEmptyLayout is returned by Parse when the input holds no characters.
var ErrEmptyLayout = errors.New("layout is empty")

// Layout is a pair of character layers indexed by geometry position.
type Layout struct {
	Lower [geometry.KeyCount]rune
	Upper [geometry.KeyCount]rune
}

// Swap is a transposition of two positions.
type Swap struct {
	I, J int
}

// offset returns the file offset of position pos within a layer.
func offset(pos int) int {
	if pos < 30 {
		return (pos/10)*rowStride + pos%10
	}
	return clusterBase + pos - 30
}

// shifted holds the US shifted pairs for keys unicode.ToUpper leaves alone.
var shifted = map[rune]rune{
	';': ':', ',': '<', '.': '>', '/': '?', '-': '_', '\'': '"',
	'[': '{', ']': '}', '=': '+', '\\': '|', '`': '~',
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
}

// UpperOf derives the shifted character for a lower-layer character.
func UpperOf(r rune) rune {
	if s, ok := shifted[r]; ok {
		return s
	}
	return unicode.ToUpper(r)
}

// FromLowerString reads the lower layer from the fixed offsets of text and
// derives the upper layer by case folding. Missing offsets stay Null.
func FromLowerString(text string) Layout {
	runes := []rune(text)
	var l Layout
	for pos := 0; pos < geometry.KeyCount; pos++ {
		off := offset(pos)
		if off < len(runes) {
			l.Lower[pos] = runes[off]
		}
		l.Upper[pos] = UpperOf(l.Lower[pos])
	}
	return l
}

// Parse reads a layout file. Upper-layer characters present in the file
// replace the derived ones; everything else degrades to FromLowerString.
func Parse(text string) (Layout, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return Layout{}, ErrEmptyLayout
	}
	l := FromLowerString(text)
	runes := []rune(text)
	if len(runes) <= upperOffset {
		return l, nil
	}
	for pos := 0; pos < geometry.KeyCount; pos++ {
		off := upperOffset + offset(pos)
		if off < len(runes) && runes[off] != Null {
			l.Upper[pos] = runes[off]
		}
	}
	return l, nil
}

// Load reads and parses a layout file.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}
	l, err := Parse(string(data))
	if err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}
	return l, nil
}

// Format renders the layout in the file format, both layers included.
func (l Layout) Format() string {
	var b strings.Builder
	writeLayer(&b, &l.Lower)
	writeLayer(&b, &l.Upper)
	return b.String()
}

func writeLayer(b *strings.Builder, layer *[geometry.KeyCount]rune) {
	for pos := 0; pos < geometry.KeyCount; pos++ {
		b.WriteRune(layer[pos])
		if pos == 9 || pos == 19 || pos == 29 || pos == 35 {
			b.WriteByte('\n')
		}
	}
}

// Clone returns an independent copy.
func (l Layout) Clone() Layout {
	return l
}

// Equal reports whether both layers match.
func (l Layout) Equal(other Layout) bool {
	return l.Lower == other.Lower && l.Upper == other.Upper
}

// Swap exchanges positions i and j on both layers.
func (l *Layout) Swap(i, j int) {
	l.Lower[i], l.Lower[j] = l.Lower[j], l.Lower[i]
	l.Upper[i], l.Upper[j] = l.Upper[j], l.Upper[i]
}

// Shuffle performs n random transpositions of swappable positions and returns
// them in the order applied.
func (l *Layout) Shuffle(rng *rand.Rand, n int) []Swap {
	g := geometry.Default()
	swaps := make([]Swap, 0, n)
	for k := 0; k < n; k++ {
		i, j := 0, 0
		for !g.Swappable(i) || !g.Swappable(j) || i == j {
			i = rng.Intn(geometry.KeyCount)
			j = rng.Intn(geometry.KeyCount)
		}
		l.Swap(i, j)
		swaps = append(swaps, Swap{I: i, J: j})
	}
	return swaps
}

// Undo reverts swaps previously returned by Shuffle.
func (l *Layout) Undo(swaps []Swap) {
	for k := len(swaps) - 1; k >= 0; k-- {
		l.Swap(swaps[k].I, swaps[k].J)
	}
}
