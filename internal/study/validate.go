package study

import (
	"context"
	"strings"

	"github.com/abhisek/studyplay/internal/token"
)

// CheckAnswer validates a free-text answer for the parts behind one blank.
//
// Checks, in order:
//   - the normalised answer equals the surface text
//   - the answer folded to hiragana equals the folded reading
//   - the answer re-analysed by tok has the same folded reading
//
// tok may be nil, in which case the last check is skipped.
func CheckAnswer(ctx context.Context, tok token.Tokenizer, expected []token.Part, answer string) AnswerResult {
	res := AnswerResult{
		Answer:          answer,
		Expected:        token.TextOf(expected),
		ExpectedReading: token.ReadingOf(expected),
	}

	in := token.Normalize(answer)
	if in == "" {
		return res
	}

	switch {
	case in == token.Normalize(res.Expected):
		res.Tier = MatchSurface
	case token.FoldReading(in) == res.ExpectedReading:
		res.Tier = MatchReading
	case retokenizedReading(ctx, tok, in) == res.ExpectedReading:
		res.Tier = MatchRetokenized
	}
	res.Correct = res.Tier != MatchNone
	return res
}

func retokenizedReading(ctx context.Context, tok token.Tokenizer, text string) string {
	if tok == nil || !tok.IsReady() {
		return ""
	}
	groups, err := tok.Tokenize(ctx, text)
	if err != nil {
		return ""
	}
	reading := token.ReadingOf(token.Flatten(groups))
	if strings.TrimSpace(reading) == "" {
		return ""
	}
	return reading
}
