// Package config loads studyplay settings from defaults, an optional config
// file and STUDYPLAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/study"
	"github.com/abhisek/studyplay/internal/tokenizer"
)

// EnvPrefix is prepended to every environment override, e.g.
// STUDYPLAY_STUDY_FREQUENCY.
const EnvPrefix = "STUDYPLAY"

// Config holds all configuration for the application.
type Config struct {
	Study     study.Config         `mapstructure:"study"`
	Tokenizer tokenizer.Config     `mapstructure:"tokenizer"`
	Anki      knowledge.AnkiConfig `mapstructure:"anki"`
	Log       LogConfig            `mapstructure:"log"`
	DB        DBConfig             `mapstructure:"db"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// File receives log output. Empty means stderr.
	File string `mapstructure:"file"`
}

// DBConfig holds database configuration.
type DBConfig struct {
	// Path of the SQLite file. Empty selects the default data directory.
	Path string `mapstructure:"path"`
}

// Load reads configuration. When file is non-empty it must exist; otherwise
// studyplay.{toml,yaml} is looked up in the user config directory and the
// working directory, and a missing file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("studyplay")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so that environment overrides apply even
// when no config file mentions it.
func setDefaults(v *viper.Viper) {
	s := study.DefaultConfig()
	v.SetDefault("study.enabled", s.Enabled)
	v.SetDefault("study.frequency", s.Frequency)
	v.SetDefault("study.line_selection", string(s.LineSelection))
	v.SetDefault("study.token_selection", string(s.TokenSelection))
	v.SetDefault("study.include_conjugations", s.IncludeConjugations)
	v.SetDefault("study.track_results", s.TrackResults)
	v.SetDefault("study.intensity", string(s.Intensity))
	v.SetDefault("study.focus_mode", string(s.FocusMode))
	v.SetDefault("study.rate_limit_seconds", s.RateLimitSeconds)
	v.SetDefault("study.max_blanks", s.MaxBlanks)
	v.SetDefault("study.decks", []map[string]any{})
	v.SetDefault("study.locale", s.Locale)

	t := tokenizer.DefaultConfig()
	v.SetDefault("tokenizer.backend", t.Backend)
	v.SetDefault("tokenizer.cache_size", t.CacheSize)

	a := knowledge.DefaultAnkiConfig()
	v.SetDefault("anki.url", a.URL)
	v.SetDefault("anki.field", a.Field)
	v.SetDefault("anki.rate", a.Rate)
	v.SetDefault("anki.timeout", a.Timeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("db.path", "")
}

// Validate checks enumerations and ranges across all sections.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Study.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("study: %w", err))
	}
	switch c.Tokenizer.Backend {
	case tokenizer.BackendKagomeIPA, tokenizer.BackendKagomeUni, tokenizer.BackendMock:
	default:
		errs = append(errs, fmt.Errorf("tokenizer: %w: %q", tokenizer.ErrUnknownBackend, c.Tokenizer.Backend))
	}
	if c.Tokenizer.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("tokenizer: cache_size must not be negative, got %d", c.Tokenizer.CacheSize))
	}
	if c.Anki.Rate < 0 {
		errs = append(errs, fmt.Errorf("anki: rate must not be negative, got %v", c.Anki.Rate))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// configDir returns $XDG_CONFIG_HOME/studyplay or ~/.config/studyplay.
func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "studyplay")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "studyplay")
}
