package selection

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/studyplay/internal/token"
)

// TokenStrategy picks how blanks are chosen among eligible units.
type TokenStrategy string

const (
	// TokenRandom picks uniformly.
	TokenRandom TokenStrategy = "random"
	// TokenKnowledge biases toward the least known words.
	TokenKnowledge TokenStrategy = "knowledge"
)

// ParseTokenStrategy validates a token strategy name.
func ParseTokenStrategy(s string) (TokenStrategy, error) {
	switch TokenStrategy(s) {
	case TokenRandom, TokenKnowledge:
		return TokenStrategy(s), nil
	}
	return "", fmt.Errorf("unknown token selection strategy %q", s)
}

// minKnowledgeWeight keeps fully known words selectable.
const minKnowledgeWeight = 0.05

// TokenSelector chooses which units of a line to blank.
type TokenSelector struct {
	Strategy            TokenStrategy
	MaxBlanks           int
	IncludeConjugations bool

	// Scorer weighs units under TokenKnowledge. Nil means uniform weights.
	Scorer *Scorer

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTokenSelector returns a selector. A nil rnd is seeded from the clock.
func NewTokenSelector(strategy TokenStrategy, maxBlanks int, includeConjugations bool, scorer *Scorer, rnd *rand.Rand) *TokenSelector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TokenSelector{
		Strategy:            strategy,
		MaxBlanks:           maxBlanks,
		IncludeConjugations: includeConjugations,
		Scorer:              scorer,
		rnd:                 rnd,
	}
}

// SelectTokensToBlank returns up to MaxBlanks blanks in line order, or nil
// when the line has no eligible units.
func (s *TokenSelector) SelectTokensToBlank(ctx context.Context, parts []token.Part) []Blank {
	units := Units(parts, s.IncludeConjugations)
	if len(units) == 0 {
		return nil
	}

	count := s.MaxBlanks
	if count < 1 {
		count = 1
	}
	if count > len(units) {
		count = len(units)
	}

	weights := s.weights(ctx, parts, units)
	picked := s.sample(weights, count)

	blanks := make([]Blank, 0, len(picked))
	for _, i := range picked {
		blanks = append(blanks, units[i])
	}
	sort.Slice(blanks, func(i, j int) bool {
		return blanks[i].Head() < blanks[j].Head()
	})
	return blanks
}

func (s *TokenSelector) weights(ctx context.Context, parts []token.Part, units []Blank) []float64 {
	weights := make([]float64, len(units))
	for i, u := range units {
		if s.Strategy == TokenKnowledge && s.Scorer != nil {
			weights[i] = s.Scorer.ScorePart(ctx, parts[u.Head()]).FinalPriority + minKnowledgeWeight
		} else {
			weights[i] = 1.0
		}
	}
	return weights
}

// sample draws count distinct indices with probability proportional to weight.
func (s *TokenSelector) sample(weights []float64, count int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := make([]int, len(weights))
	total := 0.0
	for i, w := range weights {
		remaining[i] = i
		total += w
	}

	picked := make([]int, 0, count)
	for len(picked) < count && len(remaining) > 0 {
		r := s.rnd.Float64() * total
		acc := 0.0
		pos := len(remaining) - 1
		for j, idx := range remaining {
			acc += weights[idx]
			if r < acc {
				pos = j
				break
			}
		}
		idx := remaining[pos]
		picked = append(picked, idx)
		total -= weights[idx]
		remaining = append(remaining[:pos], remaining[pos+1:]...)
	}
	return picked
}
