package tokenizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/abhisek/studyplay/internal/token"
)

// Dictionary names understood by NewKagome.
const (
	DictIPA = "ipa"
	DictUni = "uni"
)

// Kagome is a token.Tokenizer backed by the kagome morphological analyzer.
// The dictionary is loaded by Load; until then IsReady reports false.
type Kagome struct {
	dictName string

	mu       sync.RWMutex
	t        *tokenizer.Tokenizer
	disposed bool

	loadOnce sync.Once
	loaded   chan struct{}
	loadErr  error
}

// NewKagome creates an unloaded tokenizer for the named dictionary.
func NewKagome(dictName string) (*Kagome, error) {
	switch dictName {
	case DictIPA, DictUni:
	default:
		return nil, fmt.Errorf("%w: kagome dictionary %q", ErrUnknownBackend, dictName)
	}
	return &Kagome{dictName: dictName, loaded: make(chan struct{})}, nil
}

// Load reads the embedded dictionary and builds the analyzer. It is safe to
// call more than once; every caller waits for the first load to finish or
// for ctx to be done.
func (k *Kagome) Load(ctx context.Context) error {
	k.loadOnce.Do(func() {
		go k.load()
	})
	select {
	case <-k.loaded:
		return k.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *Kagome) load() {
	defer close(k.loaded)

	var d *dict.Dict
	switch k.dictName {
	case DictUni:
		d = uni.Dict()
	default:
		d = ipa.Dict()
	}

	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		k.loadErr = fmt.Errorf("building kagome tokenizer: %w", err)
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.disposed {
		k.t = t
	}
}

// IsReady reports whether the dictionary has loaded.
func (k *Kagome) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.t != nil
}

// Tokenize analyses text in normal mode. Each morpheme becomes its own group.
func (k *Kagome) Tokenize(ctx context.Context, text string) ([]token.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.RLock()
	t := k.t
	k.mu.RUnlock()
	if t == nil {
		return nil, ErrNotReady
	}

	toks := t.Tokenize(text)
	groups := make([]token.Group, 0, len(toks))
	for _, tk := range toks {
		if tk.Class == tokenizer.DUMMY {
			continue
		}
		groups = append(groups, token.Group{convertToken(tk)})
	}
	return groups, nil
}

func convertToken(tk tokenizer.Token) token.Part {
	part := token.Part{
		Text: tk.Surface,
		POS:  strings.Join(tk.POS(), ","),
	}
	if r, ok := tk.Reading(); ok {
		part.Reading = r
	}
	if b, ok := tk.BaseForm(); ok {
		part.BasicForm = b
	}
	switch tk.Class {
	case tokenizer.KNOWN, tokenizer.USER:
		part.WordType = token.WordTypeKnown
	case tokenizer.UNKNOWN:
		part.WordType = token.WordTypeUnknown
	}
	return part
}

// ResetCache is a no-op; kagome keeps no per-line state.
func (k *Kagome) ResetCache() {}

// Dispose drops the analyzer. Subsequent calls to Tokenize fail with ErrNotReady.
func (k *Kagome) Dispose() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.t = nil
	k.disposed = true
	return nil
}
