// Package tokenizer provides the morphological analyzer backends behind
// token.Tokenizer.
package tokenizer

import "errors"

// Backend names accepted by New.
const (
	BackendKagomeIPA = "kagome-ipa"
	BackendKagomeUni = "kagome-uni"
	BackendMock      = "mock"
)

var (
	// ErrNotReady is returned by Tokenize before the dictionary has loaded
	// or after the tokenizer was disposed.
	ErrNotReady = errors.New("tokenizer not ready")

	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown tokenizer backend")
)

// Config selects and tunes a tokenizer backend.
type Config struct {
	// Backend is one of "kagome-ipa", "kagome-uni" or "mock".
	Backend string `mapstructure:"backend"`

	// CacheSize is the number of lines memoised by the LRU cache.
	// Zero disables caching.
	CacheSize int `mapstructure:"cache_size"`
}

// DefaultConfig returns the IPA dictionary with a 512 line cache.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendKagomeIPA,
		CacheSize: 512,
	}
}
