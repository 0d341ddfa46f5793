package selection

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/priority"
	"github.com/abhisek/studyplay/internal/token"
)

// LineStrategy picks which displayed lines are tested.
type LineStrategy string

const (
	// LineSelectionRandom tests every Nth displayed line.
	LineSelectionRandom LineStrategy = "random"
	// LineSelectionPrioritizeUnknown tests lines whose score reaches the
	// intensity threshold.
	LineSelectionPrioritizeUnknown LineStrategy = "prioritize_unknown"
)

// ParseLineStrategy validates a line strategy name.
func ParseLineStrategy(s string) (LineStrategy, error) {
	switch LineStrategy(s) {
	case LineSelectionRandom, LineSelectionPrioritizeUnknown:
		return LineStrategy(s), nil
	}
	return "", fmt.Errorf("unknown line selection strategy %q", s)
}

// Decision is the outcome of a knowledge-driven line evaluation.
type Decision struct {
	Score      float64
	Threshold  float64
	TokenCount int
	Trigger    bool

	// Reason explains a decline that happened before scoring.
	Reason string

	// Parts is the tokenized line, when tokenization ran.
	Parts []token.Part
}

// LineSelector makes knowledge-driven test decisions.
type LineSelector struct {
	Tokenizer token.Tokenizer
	Scorer    *Scorer
	Decks     []knowledge.DeckConfig
	Intensity priority.Intensity
	Log       logrus.FieldLogger
}

// Ready reports whether a tokenizer, a knowledge source and at least one
// enabled deck are all available.
func (l *LineSelector) Ready() bool {
	return l.readiness() == ""
}

func (l *LineSelector) readiness() string {
	switch {
	case l.Tokenizer == nil || !l.Tokenizer.IsReady():
		return "tokenizer unavailable"
	case l.Scorer == nil || l.Scorer.Knowledge == nil:
		return "knowledge source unavailable"
	case len(knowledge.EnabledDecks(l.Decks)) == 0:
		return "no enabled decks"
	}
	if hd, ok := l.Scorer.Knowledge.(interface{ HasDecks() bool }); ok && !hd.HasDecks() {
		return "deck source unavailable"
	}
	return ""
}

// Decide evaluates a line. It declines without scoring when any dependency
// is missing; there is no fallback to cadence.
func (l *LineSelector) Decide(ctx context.Context, text string) Decision {
	if reason := l.readiness(); reason != "" {
		l.logger().WithField("reason", reason).Debug("knowledge selection declined")
		return Decision{Reason: reason}
	}

	d, err := l.Score(ctx, text)
	if err != nil {
		l.logger().WithError(err).Warn("knowledge selection tokenize failed")
		return Decision{Reason: "tokenize failed"}
	}

	d.Threshold, d.Trigger = priority.ShouldTrigger(d.Score, l.Intensity)
	l.logger().WithFields(logrus.Fields{
		"score":     d.Score,
		"threshold": d.Threshold,
		"tokens":    d.TokenCount,
		"trigger":   d.Trigger,
	}).Debug("knowledge selection decision")
	return d
}

// Score tokenizes and scores a line without the readiness gate or threshold.
func (l *LineSelector) Score(ctx context.Context, text string) (Decision, error) {
	if l.Tokenizer == nil {
		return Decision{}, fmt.Errorf("score line: no tokenizer")
	}
	groups, err := l.Tokenizer.Tokenize(ctx, text)
	if err != nil {
		return Decision{}, fmt.Errorf("score line: %w", err)
	}
	parts := token.Flatten(groups)

	d := Decision{Parts: parts}
	if l.Scorer != nil {
		d.Score, d.TokenCount = l.Scorer.ScoreLine(ctx, parts)
	}
	return d, nil
}

// Ranked is one line's score in a ranking.
type Ranked struct {
	Index    int
	Text     string
	Decision Decision
}

// Rank scores every line and returns them most study-worthy first. Lines
// that fail to tokenize are skipped.
func (l *LineSelector) Rank(ctx context.Context, lines []string) []Ranked {
	ranked := make([]Ranked, 0, len(lines))
	for i, text := range lines {
		if err := ctx.Err(); err != nil {
			break
		}
		d, err := l.Score(ctx, text)
		if err != nil {
			l.logger().WithError(err).WithField("line", i).Warn("rank: skipping line")
			continue
		}
		d.Threshold, d.Trigger = priority.ShouldTrigger(d.Score, l.Intensity)
		ranked = append(ranked, Ranked{Index: i, Text: text, Decision: d})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Decision.Score > ranked[j].Decision.Score
	})
	return ranked
}

func (l *LineSelector) logger() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}
