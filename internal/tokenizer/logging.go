package tokenizer

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/token"
)

// LoggingTokenizer is a decorator that logs every Tokenize call.
type LoggingTokenizer struct {
	inner token.Tokenizer
	log   logrus.FieldLogger
}

// WithLogging wraps a tokenizer with debug logging of latency and size.
func WithLogging(t token.Tokenizer, log logrus.FieldLogger) token.Tokenizer {
	return &LoggingTokenizer{inner: t, log: log}
}

func (l *LoggingTokenizer) Tokenize(ctx context.Context, text string) ([]token.Group, error) {
	start := time.Now()
	groups, err := l.inner.Tokenize(ctx, text)

	entry := l.log.WithFields(logrus.Fields{
		"runes":      utf8.RuneCountInString(text),
		"latency_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("tokenize failed")
		return nil, err
	}
	entry.WithField("groups", len(groups)).Debug("tokenized")
	return groups, nil
}

func (l *LoggingTokenizer) IsReady() bool { return l.inner.IsReady() }

func (l *LoggingTokenizer) ResetCache() { l.inner.ResetCache() }

func (l *LoggingTokenizer) Dispose() error {
	l.log.Debug("disposing tokenizer")
	return l.inner.Dispose()
}
