package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplay/internal/config"
	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/logging"
	"github.com/abhisek/studyplay/internal/store"
	"github.com/abhisek/studyplay/internal/token"
	"github.com/abhisek/studyplay/internal/tokenizer"
)

// env is what every subcommand needs: validated config, a logger and the
// resources to release on exit.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	closers []io.Closer
}

// newEnv loads and validates configuration and builds the logger. A TUI
// command logs to a file so that log lines do not tear the screen.
func newEnv(cmd *cobra.Command, tui bool) (*env, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if tui && cfg.Log.File == "" {
		if cfg.Log.File, err = logging.DefaultFile(); err != nil {
			return nil, err
		}
	}
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, closers: []io.Closer{closer}}, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}

func (e *env) openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, e.cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.closers = append(e.closers, st)
	e.log.WithField("path", dbPath).Debug("store opened")
	return st, nil
}

// tokenizer builds the configured backend. With wait set it blocks until
// the dictionary has loaded.
func (e *env) tokenizer(ctx context.Context, wait bool) (token.Tokenizer, error) {
	tok, err := tokenizer.New(ctx, e.cfg.Tokenizer, e.log)
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	e.closers = append(e.closers, disposer{tok})
	if wait {
		if err := tokenizer.WaitReady(ctx, tok); err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
	}
	return tok, nil
}

// knowledge builds the status getter over AnkiConnect and the local study
// log. An empty anki.url leaves only the study log.
func (e *env) knowledge(studyRepo store.StudyRepo) *knowledge.Service {
	var deck knowledge.DeckSource
	if e.cfg.Anki.URL != "" {
		deck = knowledge.NewAnki(e.cfg.Anki)
	}
	return knowledge.NewService(deck, studyRepo, e.cfg.Study.Decks, e.log)
}

type disposer struct {
	tok token.Tokenizer
}

func (d disposer) Close() error {
	return d.tok.Dispose()
}
