package tokenizer

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/studyplay/internal/token"
)

// Cached memoises Tokenize results per line text. Subtitle lines repeat on
// rewinds and answers are re-tokenized during validation, so most calls hit.
type Cached struct {
	inner token.Tokenizer
	cache *lru.Cache[string, []token.Group]
}

// NewCached wraps inner with an LRU cache holding up to size lines.
func NewCached(inner token.Tokenizer, size int) (*Cached, error) {
	c, err := lru.New[string, []token.Group](size)
	if err != nil {
		return nil, fmt.Errorf("creating tokenizer cache: %w", err)
	}
	return &Cached{inner: inner, cache: c}, nil
}

func (c *Cached) Tokenize(ctx context.Context, text string) ([]token.Group, error) {
	if groups, ok := c.cache.Get(text); ok {
		return cloneGroups(groups), nil
	}
	groups, err := c.inner.Tokenize(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, cloneGroups(groups))
	return groups, nil
}

func (c *Cached) IsReady() bool { return c.inner.IsReady() }

// ResetCache purges memoised lines and forwards to the wrapped tokenizer.
func (c *Cached) ResetCache() {
	c.cache.Purge()
	c.inner.ResetCache()
}

func (c *Cached) Dispose() error {
	c.cache.Purge()
	return c.inner.Dispose()
}

// Len returns the number of memoised lines.
func (c *Cached) Len() int { return c.cache.Len() }

func cloneGroups(groups []token.Group) []token.Group {
	out := make([]token.Group, len(groups))
	for i, g := range groups {
		out[i] = append(token.Group(nil), g...)
	}
	return out
}
