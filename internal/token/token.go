// Package token defines the morphological token model shared by tokenizer
// backends and the study engine.
package token

import (
	"context"
	"strings"
	"unicode"
)

// WordType is the analyzer's classification of a part.
type WordType string

const (
	WordTypeKnown   WordType = "KNOWN"
	WordTypeUnknown WordType = "UNKNOWN"
)

// Part is a single analysed piece of a line. Parts are immutable once a
// tokenizer has produced them.
type Part struct {
	Text      string
	Reading   string
	POS       string // comma-joined hierarchy, e.g. "動詞,自立,*,*"
	WordType  WordType
	BasicForm string
}

// Group is one morphological unit as reported by a tokenizer backend.
type Group []Part

// Tokenizer turns a line of text into grouped token parts.
type Tokenizer interface {
	// Tokenize analyses text. It may block on dictionary loading or I/O.
	Tokenize(ctx context.Context, text string) ([]Group, error)

	// IsReady reports whether Tokenize can be called.
	IsReady() bool

	// ResetCache drops any memoised analysis results.
	ResetCache()

	// Dispose releases backend resources. The tokenizer is unusable afterwards.
	Dispose() error
}

// Flatten joins groups into a single ordered sequence indexed 0..n-1.
func Flatten(groups []Group) []Part {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	parts := make([]Part, 0, n)
	for _, g := range groups {
		parts = append(parts, g...)
	}
	return parts
}

// Lemma returns the dictionary form, falling back to the surface text.
func (p Part) Lemma() string {
	if p.BasicForm == "" || p.BasicForm == "*" {
		return p.Text
	}
	return p.BasicForm
}

// POSLevel returns the n-th level of the part-of-speech hierarchy, or "".
func (p Part) POSLevel(n int) string {
	levels := strings.Split(p.POS, ",")
	if n < 0 || n >= len(levels) || levels[n] == "*" {
		return ""
	}
	return levels[n]
}

// Classified reports whether the analyzer gave the part a meaningful word type.
func (p Part) Classified() bool {
	return p.WordType == WordTypeKnown || p.WordType == WordTypeUnknown
}

// IsPunctuation reports whether the part is punctuation, a symbol or blank.
func (p Part) IsPunctuation() bool {
	switch p.POSLevel(0) {
	case "記号", "補助記号", "空白":
		return true
	}
	if strings.TrimSpace(p.Text) == "" {
		return true
	}
	for _, r := range p.Text {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsFunctionWord reports whether the part is a particle, auxiliary or filler.
func (p Part) IsFunctionWord() bool {
	switch p.POSLevel(0) {
	case "助詞", "助動詞", "フィラー", "感動詞":
		return true
	}
	return false
}

// Inflects reports whether the part can take conjugation endings.
func (p Part) Inflects() bool {
	switch p.POSLevel(0) {
	case "動詞", "形容詞", "形状詞":
		return true
	case "名詞":
		return p.POSLevel(1) == "形容動詞語幹" || p.POSLevel(1) == "サ変接続"
	}
	return false
}

// ContinuesConjugation reports whether p is an inflectional continuation of
// the part before it (auxiliaries, non-independent verbs, verbal suffixes and
// the connective て/で).
func ContinuesConjugation(prev, p Part) bool {
	if !prev.Inflects() && prev.POSLevel(0) != "助動詞" && !continuationPOS(prev) {
		return false
	}
	return continuationPOS(p)
}

func continuationPOS(p Part) bool {
	switch p.POSLevel(0) {
	case "助動詞":
		return true
	case "動詞", "形容詞":
		sub := p.POSLevel(1)
		return sub == "非自立" || sub == "接尾" || sub == "非自立可能"
	case "接尾辞":
		return p.POSLevel(1) == "動詞的" || p.POSLevel(1) == "形容詞的"
	case "助詞":
		if p.POSLevel(1) != "接続助詞" {
			return false
		}
		switch p.Text {
		case "て", "で", "ちゃ", "じゃ":
			return true
		}
	}
	return false
}
