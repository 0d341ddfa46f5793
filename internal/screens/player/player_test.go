package player

import (
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	playback "github.com/abhisek/studyplay/internal/player"
	"github.com/abhisek/studyplay/internal/router"
	"github.com/abhisek/studyplay/internal/screens/summary"
	"github.com/abhisek/studyplay/internal/study"
	"github.com/abhisek/studyplay/internal/token"
	"github.com/abhisek/studyplay/internal/tokenizer"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *PlayerScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testSubs = []study.Subtitle{
	{Index: 0, Text: "私は学生です", Start: 1 * time.Second, End: 3 * time.Second},
	{Index: 1, Text: "次の行", Start: 4 * time.Second, End: 5 * time.Second},
}

// studentGroups leaves 私 unclassified so that 学生 is the only blank.
func studentGroups() []token.Group {
	parts := []token.Part{
		{Text: "私", Reading: "ワタシ", POS: "名詞,代名詞,一般,*", BasicForm: "私"},
		{Text: "は", Reading: "ハ", POS: "助詞,係助詞,*,*", WordType: token.WordTypeKnown, BasicForm: "は"},
		{Text: "学生", Reading: "ガクセイ", POS: "名詞,一般,*,*", WordType: token.WordTypeKnown, BasicForm: "学生"},
		{Text: "です", Reading: "デス", POS: "助動詞,*,*,*", WordType: token.WordTypeKnown, BasicForm: "です"},
	}
	groups := make([]token.Group, len(parts))
	for i, p := range parts {
		groups[i] = token.Group{p}
	}
	return groups
}

func testPlayerScreen(t *testing.T, subs []study.Subtitle) (*PlayerScreen, *study.Engine, *playback.Player) {
	t.Helper()

	tok := tokenizer.NewMock()
	tok.Set("私は学生です", studentGroups()...)

	cfg := study.DefaultConfig()
	cfg.Frequency = 1
	cfg.RateLimitSeconds = 0
	cfg.TrackResults = false

	engine := study.New(cfg, study.Deps{
		Tokenizer: tok,
		Logger:    quietLogger(),
		Rand:      rand.New(rand.NewSource(1)),
	})
	t.Cleanup(func() { _ = engine.Close() })

	p := playback.New("video.mp4", subs)
	s := New(context.Background(), engine, p, "Test Video", quietLogger())
	return s, engine, p
}

// showTest runs the first cue through the engine the way a tick would.
func showTest(t *testing.T, s *PlayerScreen) {
	t.Helper()
	msg := s.evaluateCmd(testSubs[:1])()
	evaluated, ok := msg.(linesEvaluatedMsg)
	require.True(t, ok)
	require.Equal(t, []int{0}, evaluated.Tested)
	s.Update(msg)
	require.True(t, s.testVisible())
}

func submit(t *testing.T, s *PlayerScreen) {
	t.Helper()
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(submittedMsg)
	require.True(t, ok)
	s.Update(msg)
}

func TestPlayerScreen_InitStartsPlayback(t *testing.T) {
	s, _, p := testPlayerScreen(t, testSubs)

	cmd := s.Init()
	assert.NotNil(t, cmd)
	assert.True(t, p.Playing())
	assert.Equal(t, "Test Video", s.Title())
	assert.Equal(t, "study on  ✓0 ✗0", s.Status())
}

func TestPlayerScreen_TestShowsBlankInput(t *testing.T) {
	s, engine, p := testPlayerScreen(t, testSubs)
	s.Init()

	showTest(t, s)

	assert.Equal(t, study.PhaseShowing, engine.Phase())
	require.Len(t, s.inputs, 1)
	assert.True(t, s.inputs[0].Focused())
	assert.True(t, p.SubtitlesHidden())

	view := s.View(80, 24)
	assert.Contains(t, view, "私は")
	assert.Contains(t, view, "です")
	assert.Contains(t, view, "Fill in the blanks")
	assert.NotContains(t, view, "学生")

	hints := s.KeyHints()
	require.NotEmpty(t, hints)
	assert.Equal(t, "Submit", hints[0].Description)
}

func TestPlayerScreen_SlowEvaluationStillPauses(t *testing.T) {
	s, _, p := testPlayerScreen(t, testSubs)
	s.Init()

	// The line ends at 3s; the test only appears after that.
	p.Advance(3500 * time.Millisecond)
	showTest(t, s)
	assert.False(t, p.Playing())

	for i := 0; i < 20; i++ {
		s.Update(tickMsg{})
	}
	assert.Equal(t, 3500*time.Millisecond, p.Position())
	assert.True(t, s.testVisible())
}

func TestPlayerScreen_CorrectAnswerFlow(t *testing.T) {
	s, engine, p := testPlayerScreen(t, testSubs)
	s.Init()
	showTest(t, s)

	typeText(s, "がくせい")
	assert.Equal(t, "がくせい", s.inputs[0].Value())
	display, ok := engine.Display()
	require.True(t, ok)
	assert.Equal(t, []string{"がくせい"}, display.UserAnswers)

	submit(t, s)

	assert.Equal(t, study.PhaseResultShown, engine.Phase())
	assert.True(t, s.inputs[0].Submitted())
	view := s.View(80, 24)
	assert.Contains(t, view, "Correct!")
	assert.Contains(t, view, "学生")
	assert.Equal(t, "Continue", s.KeyHints()[0].Description)

	// Typing is ignored once graded.
	s.Update(keyPress('x'))
	assert.Equal(t, "がくせい", s.inputs[0].Value())

	s.Update(specialKey(tea.KeyEnter))

	assert.Equal(t, study.PhaseIdle, engine.Phase())
	assert.False(t, s.testVisible())
	assert.Nil(t, s.inputs)
	assert.False(t, p.SubtitlesHidden())
	assert.True(t, p.Playing())
	assert.Equal(t, []playback.Completion{{Index: 0, Passed: true}}, p.Completed())
	assert.Equal(t, "study on  ✓1 ✗0", s.Status())
}

func TestPlayerScreen_WrongAnswerShowsExpected(t *testing.T) {
	s, engine, p := testPlayerScreen(t, testSubs)
	s.Init()
	showTest(t, s)

	typeText(s, "せんせい")
	submit(t, s)

	view := s.View(80, 24)
	assert.Contains(t, view, "Not quite")
	assert.Contains(t, view, "学生")
	assert.Contains(t, view, "がくせい")

	s.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, study.PhaseIdle, engine.Phase())
	assert.Equal(t, []playback.Completion{{Index: 0, Passed: false}}, p.Completed())
}

func TestPlayerScreen_EnterWithEmptyBlankDoesNotSubmit(t *testing.T) {
	s, engine, _ := testPlayerScreen(t, testSubs)
	s.Init()
	showTest(t, s)

	s.Update(specialKey(tea.KeyEnter))

	assert.False(t, s.submitting)
	assert.Equal(t, study.PhaseShowing, engine.Phase())
	assert.True(t, s.inputs[0].Focused())
}

func TestPlayerScreen_EscDismissesTest(t *testing.T) {
	s, engine, p := testPlayerScreen(t, testSubs)
	s.Init()
	showTest(t, s)

	typeText(s, "が")
	s.Update(specialKey(tea.KeyEscape))

	assert.False(t, s.testVisible())
	assert.Nil(t, s.inputs)
	assert.Equal(t, study.PhaseDismissed, engine.Phase())
	assert.False(t, p.SubtitlesHidden())
	assert.False(t, engine.IsTestLine(0))

	status, ok := engine.LineStatus(0)
	require.True(t, ok)
	assert.Equal(t, study.LineIncomplete, status)
	assert.Empty(t, p.Completed())
}

func TestPlayerScreen_ReplaySeeksToLineStart(t *testing.T) {
	s, _, p := testPlayerScreen(t, testSubs)
	s.Init()
	p.Advance(2 * time.Second)
	showTest(t, s)

	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})

	assert.Equal(t, testSubs[0].Start, p.Position())
	assert.True(t, p.Playing())
	assert.True(t, s.testVisible())
}

func TestPlayerScreen_PlaybackKeys(t *testing.T) {
	s, engine, p := testPlayerScreen(t, testSubs)
	s.Init()
	require.True(t, p.Playing())

	s.Update(specialKey(tea.KeySpace))
	assert.False(t, p.Playing())

	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, seekStep, p.Position())
	s.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, time.Duration(0), p.Position())

	s.Update(keyPress('s'))
	assert.False(t, engine.Enabled())
	assert.Equal(t, "study off  ✓0 ✗0", s.Status())

	_, cmd := s.Update(keyPress('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.QuitWhenRootMsg)
	assert.True(t, ok)
}

func TestPlayerScreen_ShowsActiveSubtitles(t *testing.T) {
	s, engine, p := testPlayerScreen(t, testSubs)
	engine.SetEnabled(false)
	s.Init()

	p.Advance(4500 * time.Millisecond)
	view := s.View(80, 24)
	assert.Contains(t, view, "次の行")
	assert.NotContains(t, view, "私は学生です")
}

func TestPlayerScreen_NotifyBecomesNotice(t *testing.T) {
	s, _, p := testPlayerScreen(t, testSubs)
	s.Init()

	p.Notify("Tokenizer is still loading")
	s.Update(tickMsg{})

	assert.Contains(t, s.View(80, 24), "Tokenizer is still loading")
}

func TestPlayerScreen_FinishReplacesWithSummary(t *testing.T) {
	subs := []study.Subtitle{{Index: 0, Text: "短い", Start: 0, End: 100 * time.Millisecond}}
	s, engine, _ := testPlayerScreen(t, subs)
	engine.SetEnabled(false)
	s.Init()

	var cmd tea.Cmd
	for i := 0; i < 100 && !s.finished; i++ {
		_, cmd = s.Update(tickMsg{})
		if s.evaluating {
			s.Update(linesEvaluatedMsg{})
		}
	}
	require.True(t, s.finished)
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	sum, ok := msg.Screen.(*summary.SummaryScreen)
	require.True(t, ok)
	assert.Equal(t, "Summary", sum.Title())

	// Further ticks are ignored.
	_, cmd = s.Update(tickMsg{})
	assert.Nil(t, cmd)
}

func TestPlayerScreen_CuesEvaluatedOneBatchAtATime(t *testing.T) {
	s, _, p := testPlayerScreen(t, testSubs)
	s.Init()

	for p.Position() < 1500*time.Millisecond {
		s.Update(tickMsg{})
	}
	require.True(t, s.evaluating)
	assert.Empty(t, s.queued)

	// The second cue is crossed while the first is still with the engine.
	for p.Position() < 4500*time.Millisecond {
		s.Update(tickMsg{})
	}
	require.Len(t, s.queued, 1)
	assert.Equal(t, 1, s.queued[0].Index)

	_, cmd := s.Update(linesEvaluatedMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, s.evaluating)
	assert.Empty(t, s.queued)

	// Nothing left to hand over.
	s.Update(linesEvaluatedMsg{})
	assert.False(t, s.evaluating)
}

func TestPlayerScreen_WaitsForEvaluationBeforeSummary(t *testing.T) {
	subs := []study.Subtitle{{Index: 0, Text: "短い", Start: 0, End: 100 * time.Millisecond}}
	s, engine, p := testPlayerScreen(t, subs)
	engine.SetEnabled(false)
	s.Init()

	for i := 0; i < 100 && !p.Finished(); i++ {
		s.Update(tickMsg{})
	}
	require.True(t, p.Finished())
	require.True(t, s.evaluating)

	s.Update(tickMsg{})
	assert.False(t, s.finished)

	s.Update(linesEvaluatedMsg{})
	s.Update(tickMsg{})
	assert.True(t, s.finished)
}
