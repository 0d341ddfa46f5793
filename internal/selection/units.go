// Package selection decides which subtitle lines to test and which tokens
// within a line to blank.
package selection

import (
	"github.com/abhisek/studyplay/internal/token"
)

// Blank is one answer slot: a content token plus, when conjugations are
// included, the inflectional continuation parts merged into it.
type Blank struct {
	Indices []int
}

// Head returns the index of the content token that starts the blank.
func (b Blank) Head() int {
	if len(b.Indices) == 0 {
		return -1
	}
	return b.Indices[0]
}

// Parts returns the parts covered by the blank.
func (b Blank) Parts(parts []token.Part) []token.Part {
	out := make([]token.Part, 0, len(b.Indices))
	for _, i := range b.Indices {
		if i >= 0 && i < len(parts) {
			out = append(out, parts[i])
		}
	}
	return out
}

// BlankedIndices flattens blanks into the ordered list of hidden part indices.
func BlankedIndices(blanks []Blank) []int {
	var out []int
	for _, b := range blanks {
		out = append(out, b.Indices...)
	}
	return out
}

// Eligible reports whether parts[i] may start a blank.
func Eligible(parts []token.Part, i int, includeConjugations bool) bool {
	p := parts[i]
	if p.IsPunctuation() || !p.Classified() || p.IsFunctionWord() {
		return false
	}
	if includeConjugations && i > 0 && token.ContinuesConjugation(parts[i-1], p) {
		return false
	}
	return true
}

// Units groups parts into candidate blanks. Each unit starts at an eligible
// part; with includeConjugations the continuation parts that follow it are
// merged in.
func Units(parts []token.Part, includeConjugations bool) []Blank {
	var units []Blank
	for i := 0; i < len(parts); {
		if !Eligible(parts, i, includeConjugations) {
			i++
			continue
		}
		unit := Blank{Indices: []int{i}}
		j := i + 1
		if includeConjugations {
			for j < len(parts) && token.ContinuesConjugation(parts[j-1], parts[j]) {
				unit.Indices = append(unit.Indices, j)
				j++
			}
		}
		units = append(units, unit)
		i = j
	}
	return units
}
