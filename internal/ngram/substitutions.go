package ngram

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Substitutions replaces single characters before windows are counted.
type Substitutions map[rune]rune

// DefaultSubstitutions folds common accented Latin letters and typographic
// punctuation to their ASCII counterparts.
func DefaultSubstitutions() Substitutions {
	subs := Substitutions{
		'‘': '\'', '’': '\'', '‚': '\'', '“': '"', '”': '"', '„': '"',
		'–': '-', '—': '-', '…': '.', '\u00a0': ' ', '\t': ' ',
	}
	folds := map[rune]string{
		'a': "àáâãäå", 'c': "ç", 'e': "èéêë", 'i': "ìíîï", 'n': "ñ",
		'o': "òóôõöø", 'u': "ùúûü", 'y': "ýÿ",
		'A': "ÀÁÂÃÄÅ", 'C': "Ç", 'E': "ÈÉÊË", 'I': "ÌÍÎÏ", 'N': "Ñ",
		'O': "ÒÓÔÕÖØ", 'U': "ÙÚÛÜ", 'Y': "Ý",
	}
	for to, from := range folds {
		for _, r := range from {
			subs[r] = to
		}
	}
	return subs
}

// ParseSubstitutions converts a string map (as found in config files) into
// Substitutions. Keys and values must be single characters.
func ParseSubstitutions(raw map[string]string) (Substitutions, error) {
	subs := make(Substitutions, len(raw))
	for from, to := range raw {
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			return nil, fmt.Errorf("substitution %q -> %q: both sides must be one character", from, to)
		}
		f, _ := utf8.DecodeRuneInString(from)
		t, _ := utf8.DecodeRuneInString(to)
		subs[f] = t
	}
	return subs, nil
}

// With returns a copy of s overlaid with other.
func (s Substitutions) With(other Substitutions) Substitutions {
	out := make(Substitutions, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Fingerprint returns a stable textual form, used to key cached tables.
func (s Substitutions) Fingerprint() string {
	keys := make([]rune, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var b strings.Builder
	for _, k := range keys {
		b.WriteRune(k)
		b.WriteRune(s[k])
	}
	return b.String()
}
