package knowledge

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/studyplay/internal/store"
)

// Getter reports the combined knowledge status over a set of candidate forms
// of one word. Any match counts as prior exposure; lookup failures degrade to
// StatusUncollected.
type Getter interface {
	Get(ctx context.Context, candidates []string) Status
}

// DeckSource looks up the best card status for any of the candidates within
// the named decks.
type DeckSource interface {
	Status(ctx context.Context, decks []string, candidates []string) (Status, error)
}

// StudyStatsSource reports locally recorded study attempts for a lemma.
type StudyStatsSource interface {
	Stats(ctx context.Context, lemma string) (store.StudyStats, error)
}

// Service is the default Getter. Concurrent lookups for the same candidate
// set share a single round trip.
type Service struct {
	deck  DeckSource
	study StudyStatsSource
	decks []string
	log   logrus.FieldLogger
	group singleflight.Group
}

// NewService creates a Service. deck and study may be nil.
func NewService(deck DeckSource, study StudyStatsSource, decks []DeckConfig, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		deck:  deck,
		study: study,
		decks: EnabledDecks(decks),
		log:   log,
	}
}

// HasDecks reports whether a deck source and at least one enabled deck exist.
func (s *Service) HasDecks() bool {
	return s.deck != nil && len(s.decks) > 0
}

func (s *Service) Get(ctx context.Context, candidates []string) Status {
	if len(candidates) == 0 {
		return StatusUncollected
	}
	key := strings.Join(candidates, "\x00")
	v, _, _ := s.group.Do(key, func() (any, error) {
		return s.lookup(ctx, candidates), nil
	})
	return v.(Status)
}

func (s *Service) lookup(ctx context.Context, candidates []string) Status {
	best := StatusUncollected

	if s.HasDecks() {
		st, err := s.deck.Status(ctx, s.decks, candidates)
		if err != nil {
			s.log.WithError(err).WithField("candidates", candidates).Warn("deck lookup failed")
		} else {
			best = Max(best, st)
		}
	}

	if s.study == nil || best >= StatusNew {
		return best
	}
	for _, c := range candidates {
		stats, err := s.study.Stats(ctx, c)
		if err != nil {
			s.log.WithError(err).WithField("lemma", c).Warn("study stats lookup failed")
			continue
		}
		if stats.Attempts > 0 {
			return StatusNew
		}
	}
	return best
}
