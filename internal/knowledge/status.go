// Package knowledge reports how well the learner knows a word, combining an
// external flashcard deck with locally recorded study history.
package knowledge

import (
	"fmt"

	"github.com/samber/lo"
)

// Status is an ordered knowledge classification. Higher values mean better known.
type Status int

const (
	StatusUncollected Status = iota
	StatusNew
	StatusLearning
	StatusYoung
	StatusMature
)

// Young cards graduate to mature at this review interval.
const matureIntervalDays = 21

var statusNames = map[Status]string{
	StatusUncollected: "uncollected",
	StatusNew:         "new",
	StatusLearning:    "learning",
	StatusYoung:       "young",
	StatusMature:      "mature",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Max returns the better known of two statuses.
func Max(a, b Status) Status {
	if a > b {
		return a
	}
	return b
}

// DeckConfig identifies a flashcard deck that counts as the learner's vocabulary.
type DeckConfig struct {
	Name    string `mapstructure:"name"`
	Enabled bool   `mapstructure:"enabled"`
}

// EnabledDecks returns the names of enabled decks, in order.
func EnabledDecks(decks []DeckConfig) []string {
	return lo.FilterMap(decks, func(d DeckConfig, _ int) (string, bool) {
		return d.Name, d.Enabled && d.Name != ""
	})
}
