package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/priority"
	"github.com/abhisek/studyplay/internal/selection"
)

// Config holds the study-mode settings.
type Config struct {
	Enabled bool `mapstructure:"enabled"`

	// Frequency tests every Nth line under the cadence strategy.
	Frequency int `mapstructure:"frequency"`

	LineSelection       selection.LineStrategy  `mapstructure:"line_selection"`
	TokenSelection      selection.TokenStrategy `mapstructure:"token_selection"`
	IncludeConjugations bool                    `mapstructure:"include_conjugations"`

	// TrackResults persists study records and recognition attempts.
	TrackResults bool `mapstructure:"track_results"`

	Intensity priority.Intensity `mapstructure:"intensity"`
	FocusMode priority.FocusMode `mapstructure:"focus_mode"`

	// RateLimitSeconds is the minimum gap between two tests. Zero disables it.
	RateLimitSeconds int `mapstructure:"rate_limit_seconds"`

	MaxBlanks int                    `mapstructure:"max_blanks"`
	Decks     []knowledge.DeckConfig `mapstructure:"decks"`

	// Locale selects the language of host notifications ("en" or "ja").
	Locale string `mapstructure:"locale"`
}

// DefaultConfig returns cadence testing every 10th line.
func DefaultConfig() Config {
	return Config{
		Enabled:             true,
		Frequency:           10,
		LineSelection:       selection.LineSelectionRandom,
		TokenSelection:      selection.TokenRandom,
		IncludeConjugations: true,
		TrackResults:        true,
		Intensity:           priority.IntensityMedium,
		FocusMode:           priority.FocusBalanced,
		RateLimitSeconds:    20,
		MaxBlanks:           1,
		Locale:              "en",
	}
}

// RateLimit returns RateLimitSeconds as a duration.
func (c Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitSeconds) * time.Second
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Frequency < 1 {
		errs = append(errs, fmt.Errorf("frequency must be at least 1, got %d", c.Frequency))
	}
	if _, err := selection.ParseLineStrategy(string(c.LineSelection)); err != nil {
		errs = append(errs, err)
	}
	if _, err := selection.ParseTokenStrategy(string(c.TokenSelection)); err != nil {
		errs = append(errs, err)
	}
	if _, err := priority.ParseIntensity(string(c.Intensity)); err != nil {
		errs = append(errs, err)
	}
	if _, err := priority.ParseFocusMode(string(c.FocusMode)); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimitSeconds < 0 {
		errs = append(errs, fmt.Errorf("rate_limit_seconds must not be negative, got %d", c.RateLimitSeconds))
	}
	if c.MaxBlanks < 1 {
		errs = append(errs, fmt.Errorf("max_blanks must be at least 1, got %d", c.MaxBlanks))
	}
	if _, ok := notifications[c.Locale]; !ok {
		errs = append(errs, fmt.Errorf("unsupported locale %q", c.Locale))
	}
	return errors.Join(errs...)
}
