package study

import (
	"time"

	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/token"
)

// Phase is the lifecycle phase of the engine.
type Phase int

const (
	PhaseIdle        Phase = iota // No test active
	PhaseEvaluating                // Deciding whether to test the incoming line
	PhaseShowing                   // Test visible, awaiting answers
	PhaseResultShown               // Answers validated, awaiting continue
	PhaseDismissed                 // Test hidden externally before completion
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseShowing:
		return "showing"
	case PhaseResultShown:
		return "result_shown"
	case PhaseDismissed:
		return "dismissed"
	}
	return "unknown"
}

// LineStatus is the outcome recorded for a tested line.
type LineStatus string

const (
	LineIncomplete LineStatus = "incomplete"
	LinePass       LineStatus = "pass"
	LineFail       LineStatus = "fail"
)

// LineTestInfo caches the test built for a line so revisits reuse it.
type LineTestInfo struct {
	SubtitleIndex int
	Status        LineStatus
	Tokens        []token.Part
	Blanks        []selection.Blank
}

// VideoSession is the "already studied" scope for one video source.
type VideoSession struct {
	ID           string
	VideoSrc     string
	StudiedLines map[int]bool
	CardsShown   int
	LastCardTime time.Time
	StartedAt    time.Time
}

func (s *VideoSession) clone() VideoSession {
	c := *s
	c.StudiedLines = make(map[int]bool, len(s.StudiedLines))
	for k, v := range s.StudiedLines {
		c.StudiedLines[k] = v
	}
	return c
}

// MatchTier records which check accepted an answer.
type MatchTier int

const (
	MatchNone        MatchTier = iota
	MatchSurface                // exact surface text
	MatchReading                // folded reading
	MatchRetokenized            // reading of the re-analysed input
)

func (t MatchTier) String() string {
	switch t {
	case MatchSurface:
		return "surface"
	case MatchReading:
		return "reading"
	case MatchRetokenized:
		return "retokenized"
	}
	return "none"
}

// AnswerResult is the validation outcome of one blank.
type AnswerResult struct {
	Answer          string
	Expected        string
	ExpectedReading string
	Correct         bool
	Tier            MatchTier
}

// DisplayState is an immutable snapshot handed to the overlay.
type DisplayState struct {
	SubtitleIndex  int
	Tokens         []token.Part
	BlankedIndices []int
	Blanks         []selection.Blank
	UserAnswers    []string
	ShowingResult  bool
	ResultCorrect  bool
	AnswerResults  []AnswerResult
}

func (d DisplayState) clone() DisplayState {
	c := d
	c.Tokens = append([]token.Part(nil), d.Tokens...)
	c.BlankedIndices = append([]int(nil), d.BlankedIndices...)
	c.Blanks = cloneBlanks(d.Blanks)
	c.UserAnswers = append([]string(nil), d.UserAnswers...)
	c.AnswerResults = append([]AnswerResult(nil), d.AnswerResults...)
	return c
}

// IsBlanked reports whether part i is hidden behind a blank.
func (d DisplayState) IsBlanked(i int) bool {
	return d.BlankFor(i) >= 0
}

// BlankFor returns the blank covering part i, or -1.
func (d DisplayState) BlankFor(i int) int {
	for b, blank := range d.Blanks {
		for _, idx := range blank.Indices {
			if idx == i {
				return b
			}
		}
	}
	return -1
}

func cloneBlanks(blanks []selection.Blank) []selection.Blank {
	out := make([]selection.Blank, len(blanks))
	for i, b := range blanks {
		out[i] = selection.Blank{Indices: append([]int(nil), b.Indices...)}
	}
	return out
}

// activeTest is the test currently on screen.
type activeTest struct {
	sub      Subtitle
	videoSrc string
	info     *LineTestInfo
	display  DisplayState
}
