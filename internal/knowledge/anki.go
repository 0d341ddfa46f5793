package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// AnkiConfig configures the AnkiConnect deck source.
type AnkiConfig struct {
	// URL of the AnkiConnect endpoint. Empty disables the deck source.
	URL string `mapstructure:"url"`

	// Field restricts matches to a note field (e.g. "Expression").
	// Empty searches all fields.
	Field string `mapstructure:"field"`

	// Rate is the maximum number of requests per second.
	Rate float64 `mapstructure:"rate"`

	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultAnkiConfig returns settings for a local AnkiConnect install.
func DefaultAnkiConfig() AnkiConfig {
	return AnkiConfig{
		URL:     "http://127.0.0.1:8765",
		Field:   "",
		Rate:    20,
		Timeout: 2 * time.Second,
	}
}

const ankiConnectVersion = 6

// Anki queries card status through the AnkiConnect add-on.
type Anki struct {
	cfg     AnkiConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewAnki creates an AnkiConnect client.
func NewAnki(cfg AnkiConfig) *Anki {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	return &Anki{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

type ankiRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type ankiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

type ankiCard struct {
	CardID   int64 `json:"cardId"`
	Type     int   `json:"type"`
	Queue    int   `json:"queue"`
	Interval int   `json:"interval"`
}

// Status returns the best status among cards in decks matching any candidate.
func (a *Anki) Status(ctx context.Context, decks []string, candidates []string) (Status, error) {
	if len(decks) == 0 || len(candidates) == 0 {
		return StatusUncollected, nil
	}

	var ids []int64
	query := buildQuery(decks, a.cfg.Field, candidates)
	if err := a.call(ctx, "findCards", map[string]any{"query": query}, &ids); err != nil {
		return StatusUncollected, fmt.Errorf("finding cards: %w", err)
	}
	if len(ids) == 0 {
		return StatusUncollected, nil
	}

	var cards []ankiCard
	if err := a.call(ctx, "cardsInfo", map[string]any{"cards": ids}, &cards); err != nil {
		return StatusUncollected, fmt.Errorf("reading cards: %w", err)
	}

	best := StatusUncollected
	for _, c := range cards {
		best = Max(best, cardStatus(c))
	}
	return best, nil
}

// cardStatus maps Anki's card type (0 new, 1 learning, 2 review,
// 3 relearning) and interval onto the status ladder.
func cardStatus(c ankiCard) Status {
	switch c.Type {
	case 0:
		return StatusNew
	case 1, 3:
		return StatusLearning
	case 2:
		if c.Interval >= matureIntervalDays {
			return StatusMature
		}
		return StatusYoung
	}
	return StatusNew
}

func buildQuery(decks []string, field string, candidates []string) string {
	deckTerms := make([]string, len(decks))
	for i, d := range decks {
		deckTerms[i] = quoteTerm("deck:" + d)
	}
	wordTerms := make([]string, len(candidates))
	for i, c := range candidates {
		if field != "" {
			wordTerms[i] = quoteTerm(field + ":" + c)
		} else {
			wordTerms[i] = quoteTerm(c)
		}
	}
	return "(" + strings.Join(deckTerms, " OR ") + ") (" + strings.Join(wordTerms, " OR ") + ")"
}

func quoteTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func (a *Anki) call(ctx context.Context, action string, params any, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(ankiRequest{Action: action, Version: ankiConnectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki %s: unexpected status %s", action, resp.Status)
	}

	var ar ankiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if ar.Error != nil {
		return fmt.Errorf("anki %s: %s", action, *ar.Error)
	}
	if err := json.Unmarshal(ar.Result, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", action, err)
	}
	return nil
}
