package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ToHiragana maps katakana to the matching hiragana. Other runes pass through.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'ァ' && r <= 'ヶ':
			return r - 0x60
		case r == 'ヽ' || r == 'ヾ':
			return r - 0x60
		}
		return r
	}, s)
}

// Normalize folds width variants (full-width ASCII, half-width katakana),
// applies NFKC and trims surrounding space.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	return strings.TrimSpace(s)
}

// FoldReading reduces a reading to a single comparable script: width and
// compatibility forms are normalised, katakana becomes hiragana and inner
// whitespace is dropped.
func FoldReading(s string) string {
	s = ToHiragana(Normalize(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ReadingOf joins the folded readings of parts, using the surface text for
// parts that carry no reading.
func ReadingOf(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		if p.Reading != "" && p.Reading != "*" {
			b.WriteString(p.Reading)
		} else {
			b.WriteString(p.Text)
		}
	}
	return FoldReading(b.String())
}

// TextOf joins the surface text of parts.
func TextOf(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
