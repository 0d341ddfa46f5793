package player

import (
	"time"

	"github.com/abhisek/studyplay/internal/study"
)

// tickMsg advances the playback clock.
type tickMsg time.Time

// linesEvaluatedMsg is sent when the engine has decided on the cues crossed
// during one tick.
type linesEvaluatedMsg struct {
	Tested []int
}

// submittedMsg carries the graded answers of the visible test.
type submittedMsg struct {
	Display study.DisplayState
	Err     error
}
