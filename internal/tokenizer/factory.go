package tokenizer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/token"
)

// New creates a tokenizer from configuration. Kagome dictionaries start
// loading in the background; the returned tokenizer reports IsReady once
// they are available. The result is wrapped as caller → cache → logging → base.
func New(ctx context.Context, cfg Config, log logrus.FieldLogger) (token.Tokenizer, error) {
	var base token.Tokenizer

	switch cfg.Backend {
	case BackendKagomeIPA, BackendKagomeUni:
		dictName := DictIPA
		if cfg.Backend == BackendKagomeUni {
			dictName = DictUni
		}
		k, err := NewKagome(dictName)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := k.Load(context.WithoutCancel(ctx)); err != nil {
				log.WithError(err).Error("loading dictionary")
			}
		}()
		base = k
	case BackendMock:
		base = NewMock()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	logged := WithLogging(base, log.WithField("tokenizer", cfg.Backend))
	if cfg.CacheSize <= 0 {
		return logged, nil
	}
	return NewCached(logged, cfg.CacheSize)
}

// WaitReady blocks until t reports ready or ctx is done. It returns
// immediately for backends that load synchronously.
func WaitReady(ctx context.Context, t token.Tokenizer) error {
	if l, ok := unwrap(t).(interface{ Load(context.Context) error }); ok {
		return l.Load(ctx)
	}
	if !t.IsReady() {
		return ErrNotReady
	}
	return nil
}

func unwrap(t token.Tokenizer) token.Tokenizer {
	for {
		switch v := t.(type) {
		case *Cached:
			t = v.inner
		case *LoggingTokenizer:
			t = v.inner
		default:
			return t
		}
	}
}
