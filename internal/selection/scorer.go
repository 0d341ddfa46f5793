package selection

import (
	"context"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/priority"
	"github.com/abhisek/studyplay/internal/store"
	"github.com/abhisek/studyplay/internal/token"
)

// Scorer prices individual tokens from knowledge status and recognition history.
type Scorer struct {
	Knowledge   knowledge.Getter
	Recognition store.RecognitionRepo
	Calc        *priority.Calculator
	Mode        priority.FocusMode
	Log         logrus.FieldLogger
}

// Scorable reports whether a part counts toward a line score: not
// punctuation and classified by the analyzer.
func Scorable(p token.Part) bool {
	return !p.IsPunctuation() && p.Classified()
}

// Candidates returns the forms under which a part may appear in a deck:
// lemma, surface when different, and the folded reading.
func Candidates(p token.Part) []string {
	cands := []string{p.Lemma()}
	if p.Text != p.Lemma() {
		cands = append(cands, p.Text)
	}
	if p.Reading != "" && p.Reading != "*" {
		cands = append(cands, token.FoldReading(p.Reading))
	}
	return lo.Uniq(lo.Compact(cands))
}

// ScorePart computes the priority of a single part. Lookup failures degrade
// to empty recognition stats.
func (s *Scorer) ScorePart(ctx context.Context, p token.Part) priority.Result {
	status := knowledge.StatusUncollected
	if s.Knowledge != nil {
		status = s.Knowledge.Get(ctx, Candidates(p))
	}

	var stats store.RecognitionStats
	if s.Recognition != nil {
		var err error
		stats, err = s.Recognition.Stats(ctx, p.Lemma())
		if err != nil {
			s.logger().WithError(err).WithField("lemma", p.Lemma()).Warn("recognition stats lookup failed")
			stats = store.RecognitionStats{}
		}
	}

	calc := s.Calc
	if calc == nil {
		calc = priority.NewCalculator()
	}
	return calc.Calculate(status, stats, s.Mode)
}

// ScoreLine scores every scorable part and sums the results.
func (s *Scorer) ScoreLine(ctx context.Context, parts []token.Part) (score float64, counted int) {
	var results []priority.Result
	for _, p := range parts {
		if !Scorable(p) {
			continue
		}
		results = append(results, s.ScorePart(ctx, p))
	}
	return priority.LineScore(results), len(results)
}

func (s *Scorer) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
