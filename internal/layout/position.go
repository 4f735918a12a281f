package layout

import "github.com/verte-zerg/layopt/internal/geometry"

// MaxMappedRune is the largest rune a position map resolves; n-grams never
// carry anything above it.
const MaxMappedRune = 128

// NoPosition is returned for runes without a key.
const NoPosition = -1

// PositionMap resolves characters to key positions for one layout.
type PositionMap struct {
	geom *geometry.Geometry
	pos  [MaxMappedRune + 1]int8
}

// PositionMap builds the lookup for l. The lower layer wins when a character
// appears on both layers.
func (l Layout) PositionMap() *PositionMap {
	m := &PositionMap{geom: geometry.Default()}
	for i := range m.pos {
		m.pos[i] = NoPosition
	}
	for _, layer := range [2]*[geometry.KeyCount]rune{&l.Lower, &l.Upper} {
		for p, r := range layer {
			if r == Null || r > MaxMappedRune || m.pos[r] != NoPosition {
				continue
			}
			m.pos[r] = int8(p)
		}
	}
	return m
}

// Pos returns the position of r or NoPosition.
func (m *PositionMap) Pos(r rune) int {
	if r < 0 || r > MaxMappedRune {
		return NoPosition
	}
	return int(m.pos[r])
}

// Lookup returns the key description of r.
func (m *PositionMap) Lookup(r rune) (geometry.Key, bool) {
	p := m.Pos(r)
	if p == NoPosition {
		return geometry.Key{}, false
	}
	return m.geom.Key(p), true
}
