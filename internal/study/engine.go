// Package study runs the in-video study mode: it decides which subtitle
// lines to turn into fill-in-the-blank tests, shows them through the host's
// overlay, validates answers and resumes playback.
package study

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/priority"
	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/store"
	"github.com/abhisek/studyplay/internal/token"
)

// Deps are the external capabilities the engine calls. Any may be nil; the
// engine degrades as described on each operation.
type Deps struct {
	Tokenizer       token.Tokenizer
	Knowledge       knowledge.Getter
	StudyRepo       store.StudyRepo
	RecognitionRepo store.RecognitionRepo
	Logger          logrus.FieldLogger

	// Rand drives blank selection. Defaults to a clock-seeded source.
	Rand *rand.Rand
	// Now is the engine clock. Defaults to time.Now.
	Now func() time.Time
}

// Engine is the study-mode state machine for one player instance.
//
// Decisions and answer validation are serialised by evalMu, so a slow
// lookup delays the next decision instead of interleaving with it. mu
// guards the state below and is never held across tokenizer, knowledge or
// repository calls; every flow re-checks state after such a call.
type Engine struct {
	tok       token.Tokenizer
	lines     *selection.LineSelector
	tokens    *selection.TokenSelector
	studyRepo store.StudyRepo
	recogRepo store.RecognitionRepo
	log       logrus.FieldLogger
	now       func() time.Time
	tasks     *taskRunner

	evalMu sync.Mutex

	mu        sync.Mutex
	cfg       Config
	host      Host
	overlay   Overlay
	session   *VideoSession
	cache     map[string]map[int]*LineTestInfo
	pending   map[int]bool
	lineCount int
	phase     Phase
	active    *activeTest
}

// New creates an unbound engine.
func New(cfg Config, deps Deps) *Engine {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	if cfg.Frequency < 1 {
		cfg.Frequency = 1
	}

	scorer := &selection.Scorer{
		Knowledge:   deps.Knowledge,
		Recognition: deps.RecognitionRepo,
		Calc:        priority.NewCalculator(),
		Mode:        cfg.FocusMode,
		Log:         log,
	}

	return &Engine{
		tok: deps.Tokenizer,
		lines: &selection.LineSelector{
			Tokenizer: deps.Tokenizer,
			Scorer:    scorer,
			Decks:     cfg.Decks,
			Intensity: cfg.Intensity,
			Log:       log,
		},
		tokens:    selection.NewTokenSelector(cfg.TokenSelection, cfg.MaxBlanks, cfg.IncludeConjugations, scorer, deps.Rand),
		studyRepo: deps.StudyRepo,
		recogRepo: deps.RecognitionRepo,
		log:       log,
		now:       now,
		tasks:     newTaskRunner(log),
		cfg:       cfg,
		cache:     make(map[string]map[int]*LineTestInfo),
		pending:   make(map[int]bool),
	}
}

// Bind attaches the engine to a host player and its overlay.
func (e *Engine) Bind(host Host, overlay Overlay) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.host = host
	e.overlay = overlay
}

// Unbind detaches the engine. An unfinished test is reverted to incomplete
// and the host's normal display is restored.
func (e *Engine) Unbind() {
	host, overlay := e.releaseActive()

	e.mu.Lock()
	e.host = nil
	e.overlay = nil
	e.mu.Unlock()

	restore(host, overlay)
}

// Close waits for background persistence to finish.
func (e *Engine) Close() error {
	e.tasks.Wait()
	return nil
}

// SetEnabled turns study mode on or off. Disabling dismisses a visible test.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.cfg.Enabled = enabled
	e.mu.Unlock()

	if !enabled {
		host, overlay := e.releaseActive()
		restore(host, overlay)
	}
}

// SetFrequency changes the cadence. Values below 1 are clamped to 1.
func (e *Engine) SetFrequency(n int) {
	if n < 1 {
		n = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Frequency = n
}

// Enabled reports whether study mode is on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Enabled
}

// IsTestLine reports whether index is a pending test line whose normal
// subtitle rendering must be suppressed.
func (e *Engine) IsTestLine(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending[index]
}

// LineStatus returns the cached test status of a line in the current video.
func (e *Engine) LineStatus(index int) (LineStatus, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return "", false
	}
	info, ok := e.cache[e.session.VideoSrc][index]
	if !ok {
		return "", false
	}
	return info.Status, true
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Session returns a copy of the current video session.
func (e *Engine) Session() (VideoSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return VideoSession{}, false
	}
	return e.session.clone(), true
}

// Display returns the state of the visible test.
func (e *Engine) Display() (DisplayState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return DisplayState{}, false
	}
	return e.active.display.clone(), true
}

// syncSessionLocked starts a new session when the video source changed.
func (e *Engine) syncSessionLocked(src string) {
	if e.session != nil && e.session.VideoSrc == src {
		return
	}
	e.session = &VideoSession{
		ID:           uuid.NewString(),
		VideoSrc:     src,
		StudiedLines: make(map[int]bool),
		StartedAt:    e.now(),
	}
	e.lineCount = 0
	e.pending = make(map[int]bool)
	if e.cache[src] == nil {
		e.cache[src] = make(map[int]*LineTestInfo)
	}
	e.log.WithFields(logrus.Fields{
		"video":   src,
		"session": e.session.ID,
	}).Info("study session started")
}

// rateLimitedLocked reports whether the last card was shown too recently.
func (e *Engine) rateLimitedLocked() bool {
	if e.cfg.RateLimitSeconds <= 0 || e.session.LastCardTime.IsZero() {
		return false
	}
	return e.now().Sub(e.session.LastCardTime) < e.cfg.RateLimit()
}

// releaseActive drops the visible test. Before submission the line reverts
// to incomplete so it is retried; after submission the shown result is kept.
func (e *Engine) releaseActive() (Host, Overlay) {
	e.mu.Lock()
	defer e.mu.Unlock()

	at := e.active
	if at == nil {
		return nil, nil
	}
	if e.phase == PhaseResultShown {
		at.info.Status = outcome(at.display.ResultCorrect)
		e.phase = PhaseIdle
	} else {
		at.info.Status = LineIncomplete
		e.phase = PhaseDismissed
	}
	delete(e.pending, at.sub.Index)
	e.active = nil

	e.log.WithFields(logrus.Fields{
		"line":   at.sub.Index,
		"status": at.info.Status,
	}).Info("test dismissed")
	return e.host, e.overlay
}

func restore(host Host, overlay Overlay) {
	if overlay != nil {
		overlay.Hide()
	}
	if host != nil {
		host.SetSubtitlesHidden(false)
		host.SetOverlaysHidden(false)
	}
}

func outcome(passed bool) LineStatus {
	if passed {
		return LinePass
	}
	return LineFail
}
