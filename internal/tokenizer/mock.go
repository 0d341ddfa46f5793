package tokenizer

import (
	"context"
	"sync"

	"github.com/abhisek/studyplay/internal/token"
)

// Mock is a deterministic tokenizer for tests and dry runs. Lines registered
// with Set return their canned groups; any other text comes back as a single
// unknown noun whose reading is the text itself.
type Mock struct {
	mu       sync.Mutex
	lines    map[string][]token.Group
	ready    bool
	err      error
	resets   int
	disposed bool
	Calls    []string
}

// NewMock creates a ready Mock with no canned lines.
func NewMock() *Mock {
	return &Mock{lines: make(map[string][]token.Group), ready: true}
}

// Set registers the analysis returned for text.
func (m *Mock) Set(text string, groups ...token.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[text] = groups
}

// SetReady toggles IsReady.
func (m *Mock) SetReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
}

// FailWith makes every subsequent Tokenize call return err. Pass nil to clear.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mock) Tokenize(_ context.Context, text string) ([]token.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, text)
	if !m.ready || m.disposed {
		return nil, ErrNotReady
	}
	if m.err != nil {
		return nil, m.err
	}
	if groups, ok := m.lines[text]; ok {
		return cloneGroups(groups), nil
	}
	return []token.Group{{{
		Text:      text,
		Reading:   text,
		POS:       "名詞,一般,*,*",
		WordType:  token.WordTypeUnknown,
		BasicForm: text,
	}}}, nil
}

func (m *Mock) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready && !m.disposed
}

func (m *Mock) ResetCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
}

func (m *Mock) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
	return nil
}

// Resets returns the number of ResetCache calls.
func (m *Mock) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// CallCount returns the number of Tokenize calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
