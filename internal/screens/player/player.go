// Package player is the terminal study player: it plays a subtitle track on
// a simulated clock and turns selected lines into fill-in-the-blank tests.
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	playback "github.com/abhisek/studyplay/internal/player"
	"github.com/abhisek/studyplay/internal/router"
	"github.com/abhisek/studyplay/internal/screen"
	"github.com/abhisek/studyplay/internal/screens/summary"
	"github.com/abhisek/studyplay/internal/study"
	"github.com/abhisek/studyplay/internal/token"
	"github.com/abhisek/studyplay/internal/ui/components"
	"github.com/abhisek/studyplay/internal/ui/layout"
)

const (
	tickInterval = 100 * time.Millisecond
	seekStep     = 5 * time.Second
	noticeTicks  = 30
)

// PlayerScreen implements screen.Screen for subtitle playback with tests.
type PlayerScreen struct {
	ctx     context.Context
	engine  *study.Engine
	player  *playback.Player
	overlay *overlay
	title   string
	log     logrus.FieldLogger

	inputs    []components.BlankInput
	focus     int
	testIndex int

	// Crossed cues wait in queued while a batch is with the engine, so the
	// engine sees lines in display order.
	queued     []study.Subtitle
	evaluating bool

	submitting bool
	finished   bool

	notice    string
	noticeTTL int
}

var _ screen.Screen = (*PlayerScreen)(nil)
var _ screen.KeyHintProvider = (*PlayerScreen)(nil)
var _ screen.StatusProvider = (*PlayerScreen)(nil)

// New binds engine to p and returns the screen. title names the video.
func New(ctx context.Context, engine *study.Engine, p *playback.Player, title string, log logrus.FieldLogger) *PlayerScreen {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &PlayerScreen{
		ctx:       ctx,
		engine:    engine,
		player:    p,
		overlay:   &overlay{},
		title:     title,
		log:       log,
		testIndex: -1,
	}
	engine.Bind(p, s.overlay)
	return s
}

func (s *PlayerScreen) Init() tea.Cmd {
	s.player.Play()
	return tickCmd()
}

func (s *PlayerScreen) Title() string {
	return s.title
}

// Status summarises the session in the header.
func (s *PlayerScreen) Status() string {
	var passed, failed int
	for _, c := range s.player.Completed() {
		if c.Passed {
			passed++
		} else {
			failed++
		}
	}
	mode := "study off"
	if s.engine.Enabled() {
		mode = "study on"
	}
	return fmt.Sprintf("%s  ✓%d ✗%d", mode, passed, failed)
}

func (s *PlayerScreen) KeyHints() []layout.KeyHint {
	_, visible := s.overlay.snapshot()
	switch {
	case visible && s.engine.Phase() == study.PhaseResultShown:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Ctrl+R", Description: "Replay"},
		}
	case visible:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Next blank"},
			{Key: "Ctrl+R", Description: "Replay"},
			{Key: "Esc", Description: "Skip"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Play/Pause"},
		{Key: "←→", Description: "Seek"},
		{Key: "S", Description: "Study on/off"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *PlayerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()

	case linesEvaluatedMsg:
		s.evaluating = false
		return s, tea.Batch(s.syncOverlay(), s.nextEvaluation())

	case submittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.testVisible() && s.focus < len(s.inputs) {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayerScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}

	var cmds []tea.Cmd
	if crossed := s.player.Advance(tickInterval); len(crossed) > 0 {
		s.queued = append(s.queued, crossed...)
		cmds = append(cmds, s.nextEvaluation())
	}

	for _, n := range s.player.DrainNotes() {
		s.setNotice(n)
	}
	if s.noticeTTL > 0 {
		s.noticeTTL--
		if s.noticeTTL == 0 {
			s.notice = ""
		}
	}

	cmds = append(cmds, s.syncOverlay())

	if s.player.Finished() && !s.testVisible() && !s.evaluating && len(s.queued) == 0 {
		s.finished = true
		result := s.buildSummary()
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(result)}
		}
	}

	cmds = append(cmds, tickCmd())
	return s, tea.Batch(cmds...)
}

// nextEvaluation hands the queued cues to the engine unless a batch is
// still being evaluated.
func (s *PlayerScreen) nextEvaluation() tea.Cmd {
	if s.evaluating || len(s.queued) == 0 {
		return nil
	}
	batch := s.queued
	s.queued = nil
	s.evaluating = true
	return s.evaluateCmd(batch)
}

// evaluateCmd offers crossed cues to the engine off the UI goroutine.
func (s *PlayerScreen) evaluateCmd(subs []study.Subtitle) tea.Cmd {
	ctx, engine := s.ctx, s.engine
	return func() tea.Msg {
		var tested []int
		for _, sub := range subs {
			if engine.OnSubtitleShown(ctx, sub) {
				tested = append(tested, sub.Index)
			}
		}
		return linesEvaluatedMsg{Tested: tested}
	}
}

// syncOverlay rebuilds the blank inputs when a new test appears and grades
// them once results are in.
func (s *PlayerScreen) syncOverlay() tea.Cmd {
	state, visible := s.overlay.snapshot()
	if !visible {
		s.inputs = nil
		s.testIndex = -1
		s.focus = 0
		return nil
	}

	var cmd tea.Cmd
	if s.inputs == nil || s.testIndex != state.SubtitleIndex {
		s.testIndex = state.SubtitleIndex
		s.inputs = make([]components.BlankInput, len(state.Blanks))
		for i, b := range state.Blanks {
			s.inputs[i] = components.NewBlankInput(token.TextOf(b.Parts(state.Tokens)))
			if i < len(state.UserAnswers) {
				s.inputs[i].SetValue(state.UserAnswers[i])
			}
		}
		s.focus = 0
		if len(s.inputs) > 0 {
			cmd = s.inputs[0].Focus()
		}
	}

	if state.ShowingResult {
		for i, r := range state.AnswerResults {
			if i < len(s.inputs) && !s.inputs[i].Submitted() {
				s.inputs[i].SetValue(r.Answer)
				s.inputs[i].Submit(r.Correct)
			}
		}
	}
	return cmd
}

func (s *PlayerScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err != nil && !errors.Is(msg.Err, study.ErrNoActiveTest) {
		s.setNotice(msg.Err.Error())
	}
	return s, s.syncOverlay()
}

func (s *PlayerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if !s.testVisible() {
		switch key {
		case "space", " ":
			s.player.Toggle()
		case "left":
			s.player.Seek(s.player.Position() - seekStep)
		case "right":
			s.player.Seek(s.player.Position() + seekStep)
		case "s", "S":
			s.engine.SetEnabled(!s.engine.Enabled())
		case "q", "Q", "esc":
			return s, func() tea.Msg { return router.QuitWhenRootMsg{} }
		}
		return s, nil
	}

	switch key {
	case "ctrl+r":
		if err := s.engine.Replay(s.ctx); err != nil {
			s.log.WithError(err).Debug("replay ignored")
		}
		return s, nil
	case "esc":
		// The viewer closed the overlay before finishing the test.
		s.overlay.Hide()
		s.engine.Dismiss()
		return s, s.syncOverlay()
	}

	if s.engine.Phase() == study.PhaseResultShown {
		if key == "enter" {
			if err := s.engine.Continue(s.ctx); err != nil {
				s.log.WithError(err).Warn("continue failed")
			}
			s.player.CancelPauseAt()
			return s, s.syncOverlay()
		}
		return s, nil
	}

	switch key {
	case "enter":
		return s.submit()
	case "tab":
		return s, s.moveFocus(1)
	case "shift+tab":
		return s, s.moveFocus(-1)
	}

	if s.focus >= len(s.inputs) || s.submitting {
		return s, nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	s.engine.InputChange(s.focus, s.inputs[s.focus].Value())
	return s, cmd
}

// submit sends the answers once every blank is filled; otherwise it moves
// to the first empty blank.
func (s *PlayerScreen) submit() (screen.Screen, tea.Cmd) {
	if s.submitting || len(s.inputs) == 0 {
		return s, nil
	}
	answers := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		answers[i] = in.Value()
		if strings.TrimSpace(answers[i]) == "" {
			return s, s.focusOn(i)
		}
	}
	s.submitting = true
	ctx, engine := s.ctx, s.engine
	return s, func() tea.Msg {
		d, err := engine.Submit(ctx, answers)
		return submittedMsg{Display: d, Err: err}
	}
}

func (s *PlayerScreen) moveFocus(delta int) tea.Cmd {
	if len(s.inputs) == 0 {
		return nil
	}
	return s.focusOn((s.focus + delta + len(s.inputs)) % len(s.inputs))
}

func (s *PlayerScreen) focusOn(i int) tea.Cmd {
	if s.focus < len(s.inputs) {
		s.inputs[s.focus].Blur()
	}
	s.focus = i
	return s.inputs[i].Focus()
}

func (s *PlayerScreen) testVisible() bool {
	_, visible := s.overlay.snapshot()
	return visible
}

func (s *PlayerScreen) setNotice(n string) {
	s.notice = n
	s.noticeTTL = noticeTicks
}

func (s *PlayerScreen) buildSummary() summary.Result {
	texts := make(map[int]string)
	for _, sub := range s.player.Subtitles() {
		texts[sub.Index] = sub.Text
	}

	res := summary.Result{
		Title:    s.title,
		Duration: s.player.Duration(),
	}
	if sess, ok := s.engine.Session(); ok {
		res.CardsShown = sess.CardsShown
	}
	for _, c := range s.player.Completed() {
		res.Lines = append(res.Lines, summary.Line{Index: c.Index, Text: texts[c.Index], Passed: c.Passed})
	}
	return res
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
