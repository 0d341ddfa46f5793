package study

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/token"
)

// OnSubtitleShown is called when the host is about to display sub. It
// decides whether to turn the line into a test and, if so, shows it. The
// result reports whether the host must suppress normal rendering of the line.
func (e *Engine) OnSubtitleShown(ctx context.Context, sub Subtitle) bool {
	e.evalMu.Lock()
	defer e.evalMu.Unlock()

	e.mu.Lock()
	if e.active != nil {
		suppress := e.active.sub.Index == sub.Index
		e.mu.Unlock()
		return suppress
	}
	if !e.cfg.Enabled || e.host == nil || sub.Index < 0 || strings.TrimSpace(sub.Text) == "" {
		e.mu.Unlock()
		return false
	}
	host := e.host
	e.mu.Unlock()

	src := host.VideoSource()

	e.mu.Lock()
	if e.host != host {
		e.mu.Unlock()
		return false
	}
	e.syncSessionLocked(src)
	e.lineCount++
	if e.phase == PhaseDismissed {
		e.phase = PhaseIdle
	}

	log := e.log.WithFields(logrus.Fields{
		"video": src,
		"line":  sub.Index,
		"count": e.lineCount,
	})

	info := e.cache[src][sub.Index]
	retry := info != nil && info.Status == LineIncomplete
	if info != nil && !retry {
		e.mu.Unlock()
		return false
	}
	if !retry {
		if e.session.StudiedLines[sub.Index] {
			e.mu.Unlock()
			return false
		}
		if e.rateLimitedLocked() {
			e.mu.Unlock()
			log.Debug("rate limited")
			return false
		}
	}

	strategy := e.cfg.LineSelection
	count, freq := e.lineCount, e.cfg.Frequency
	e.phase = PhaseEvaluating
	e.mu.Unlock()

	var (
		parts  []token.Part
		blanks []selection.Blank
	)
	switch {
	case retry:
		parts, blanks = info.Tokens, info.Blanks
		log.Debug("retrying incomplete test")
	case strategy == selection.LineSelectionPrioritizeUnknown:
		d := e.lines.Decide(ctx, sub.Text)
		if !d.Trigger {
			e.endEvaluation(sub.Index)
			return false
		}
		parts = d.Parts
	default:
		if count%freq != 0 {
			e.endEvaluation(sub.Index)
			return false
		}
	}

	e.mu.Lock()
	e.pending[sub.Index] = true
	e.mu.Unlock()

	if parts == nil {
		var ok bool
		parts, ok = e.tokenize(ctx, host, sub)
		if !ok {
			e.endEvaluation(sub.Index)
			return false
		}
	}
	if len(parts) == 0 {
		log.Debug("line has no tokens")
		e.endEvaluation(sub.Index)
		return false
	}
	if blanks == nil {
		blanks = e.tokens.SelectTokensToBlank(ctx, parts)
	}
	if len(blanks) == 0 {
		log.Debug("line has no blank candidates")
		e.endEvaluation(sub.Index)
		return false
	}

	// Anything may have changed while tokenizing or scoring.
	srcNow := host.VideoSource()

	e.mu.Lock()
	if e.host != host || !e.cfg.Enabled || e.active != nil || srcNow != src || e.session.VideoSrc != src {
		delete(e.pending, sub.Index)
		if e.phase == PhaseEvaluating {
			e.phase = PhaseIdle
		}
		e.mu.Unlock()
		log.Debug("discarding stale evaluation")
		return false
	}

	if info == nil {
		info = &LineTestInfo{
			SubtitleIndex: sub.Index,
			Status:        LineIncomplete,
			Tokens:        parts,
			Blanks:        blanks,
		}
		e.cache[src][sub.Index] = info
	}
	e.session.StudiedLines[sub.Index] = true
	e.session.CardsShown++
	e.session.LastCardTime = e.now()

	display := DisplayState{
		SubtitleIndex:  sub.Index,
		Tokens:         append([]token.Part(nil), info.Tokens...),
		BlankedIndices: selection.BlankedIndices(info.Blanks),
		Blanks:         cloneBlanks(info.Blanks),
		UserAnswers:    make([]string, len(info.Blanks)),
	}
	e.active = &activeTest{sub: sub, videoSrc: src, info: info, display: display}
	e.phase = PhaseShowing
	overlay := e.overlay
	e.mu.Unlock()

	host.SetSubtitlesHidden(true)
	host.SetOverlaysHidden(true)
	host.PauseAt(sub.End)
	if overlay != nil {
		overlay.Render(display.clone())
	}
	log.WithField("blanks", len(blanks)).Info("test shown")
	return true
}

// tokenize analyses the line, notifying the host when the tokenizer is
// missing or fails.
func (e *Engine) tokenize(ctx context.Context, host Host, sub Subtitle) ([]token.Part, bool) {
	e.mu.Lock()
	locale := e.cfg.Locale
	e.mu.Unlock()

	if e.tok == nil || !e.tok.IsReady() {
		e.log.WithField("line", sub.Index).Warn("tokenizer unavailable")
		host.Notify(message(locale, msgTokenizerUnavailable))
		return nil, false
	}
	groups, err := e.tok.Tokenize(ctx, sub.Text)
	if err != nil {
		e.log.WithError(err).WithField("line", sub.Index).Warn("tokenize failed")
		host.Notify(message(locale, msgTokenizeFailed))
		return nil, false
	}
	return token.Flatten(groups), true
}

// endEvaluation clears the pending marker of a line that will not be tested.
func (e *Engine) endEvaluation(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, index)
	if e.phase == PhaseEvaluating {
		e.phase = PhaseIdle
	}
}
