package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/store"
	"github.com/abhisek/studyplay/internal/token"
)

// Submit validates one answer per blank. Every blank is evaluated before
// returning. Results are persisted in the background when tracking is on.
func (e *Engine) Submit(ctx context.Context, answers []string) (DisplayState, error) {
	e.evalMu.Lock()
	defer e.evalMu.Unlock()

	e.mu.Lock()
	at := e.active
	switch {
	case at == nil:
		e.mu.Unlock()
		return DisplayState{}, ErrNoActiveTest
	case e.phase == PhaseResultShown:
		e.mu.Unlock()
		return DisplayState{}, ErrAlreadySubmitted
	case len(answers) != len(at.display.Blanks):
		e.mu.Unlock()
		return DisplayState{}, fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), len(at.display.Blanks))
	}
	for i, a := range answers {
		if strings.TrimSpace(a) == "" {
			e.mu.Unlock()
			return DisplayState{}, fmt.Errorf("%w: blank %d", ErrEmptyAnswer, i)
		}
	}
	parts := at.display.Tokens
	blanks := at.display.Blanks
	track := e.cfg.TrackResults
	sessionID := e.session.ID
	e.mu.Unlock()

	results := make([]AnswerResult, len(blanks))
	for i, b := range blanks {
		results[i] = CheckAnswer(ctx, e.tok, b.Parts(parts), answers[i])
	}
	allCorrect := lo.EveryBy(results, func(r AnswerResult) bool { return r.Correct })

	e.mu.Lock()
	if e.active != at {
		e.mu.Unlock()
		return DisplayState{}, ErrNoActiveTest
	}
	at.display.UserAnswers = append([]string(nil), answers...)
	at.display.ShowingResult = true
	at.display.ResultCorrect = allCorrect
	at.display.AnswerResults = results
	e.phase = PhaseResultShown
	display := at.display.clone()
	overlay := e.overlay
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"line":    at.sub.Index,
		"correct": allCorrect,
	}).Info("answers submitted")

	if track {
		e.record(at, sessionID, results)
	}
	if overlay != nil {
		overlay.Render(display.clone())
	}
	return display, nil
}

// record persists one study record per blank and a single batch of
// recognition attempts, both as detached tasks.
func (e *Engine) record(at *activeTest, sessionID string, results []AnswerResult) {
	now := e.now()
	parts := at.display.Tokens

	records := make([]store.StudyRecord, 0, len(results))
	attempts := make([]store.RecognitionAttempt, 0, len(results))
	for i, b := range at.display.Blanks {
		blankParts := b.Parts(parts)
		if len(blankParts) == 0 {
			continue
		}
		lemma := blankParts[0].Lemma()
		reading := token.ReadingOf(blankParts)
		records = append(records, store.StudyRecord{
			Timestamp: now,
			SessionID: sessionID,
			Lemma:     lemma,
			Reading:   reading,
			Surface:   token.TextOf(blankParts),
			Correct:   results[i].Correct,
			Context:   at.sub.Text,
			MediaSrc:  at.videoSrc,
		})
		attempts = append(attempts, store.RecognitionAttempt{
			Lemma:     lemma,
			Reading:   reading,
			Success:   results[i].Correct,
			Timestamp: now,
		})
	}

	if e.studyRepo != nil {
		repo := e.studyRepo
		e.tasks.Go("save study records", func(ctx context.Context) error {
			var errs []error
			for _, rec := range records {
				if err := repo.Save(ctx, rec); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		})
	}
	if e.recogRepo != nil {
		repo := e.recogRepo
		e.tasks.Go("record recognition attempts", func(ctx context.Context) error {
			return repo.RecordAttemptsBatch(ctx, attempts)
		})
	}
}

// Continue finalises the shown result, restores the host's display and
// resumes playback.
func (e *Engine) Continue(ctx context.Context) error {
	e.mu.Lock()
	at := e.active
	if at == nil {
		e.mu.Unlock()
		return ErrNoActiveTest
	}
	if e.phase != PhaseResultShown {
		e.mu.Unlock()
		return ErrNotSubmitted
	}
	passed := at.display.ResultCorrect
	at.info.Status = outcome(passed)
	delete(e.pending, at.sub.Index)
	e.active = nil
	e.phase = PhaseIdle
	host, overlay := e.host, e.overlay
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"line":   at.sub.Index,
		"status": at.info.Status,
	}).Info("test completed")

	restore(host, overlay)
	if host != nil {
		host.TestCompleted(at.sub.Index, passed)
		host.Play()
	}
	return nil
}

// Replay seeks back to the start of the test line and plays it to its end.
func (e *Engine) Replay(ctx context.Context) error {
	e.mu.Lock()
	at, host := e.active, e.host
	e.mu.Unlock()

	if host == nil {
		return ErrNotBound
	}
	if at == nil {
		return ErrNoActiveTest
	}
	host.Seek(at.sub.Start)
	host.PauseAt(at.sub.End)
	host.Play()
	return nil
}

// InputChange records the in-progress answer of one blank and re-emits the
// display state.
func (e *Engine) InputChange(blank int, value string) {
	e.mu.Lock()
	at := e.active
	if at == nil || e.phase != PhaseShowing || blank < 0 || blank >= len(at.display.UserAnswers) {
		e.mu.Unlock()
		return
	}
	at.display.UserAnswers[blank] = value
	display := at.display.clone()
	overlay := e.overlay
	e.mu.Unlock()

	if overlay != nil {
		overlay.Render(display)
	}
}

// Dismiss handles the overlay being hidden externally. Before submission
// the line reverts to incomplete and will be retried on its next display.
// In-flight work is not aborted; its results are discarded.
func (e *Engine) Dismiss() {
	host, _ := e.releaseActive()
	restore(host, nil)
}
