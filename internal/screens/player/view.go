package player

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplay/internal/study"
	"github.com/abhisek/studyplay/internal/token"
	"github.com/abhisek/studyplay/internal/ui/components"
	"github.com/abhisek/studyplay/internal/ui/theme"
)

func (s *PlayerScreen) View(width, height int) string {
	var b strings.Builder

	timeline := components.NewTimeline(s.player.Position(), s.player.Duration(), s.player.Playing(), width-4)
	b.WriteString("  " + timeline.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(0, width-4))))
	b.WriteString("\n\n\n")

	state, visible := s.overlay.snapshot()
	if visible {
		b.WriteString(s.renderTest(state, width))
	} else {
		b.WriteString(s.renderSubtitles(width))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Render(theme.Notice.Render(s.notice)))
	}

	return b.String()
}

// renderSubtitles shows the cues on screen, minus any line held back for a
// test.
func (s *PlayerScreen) renderSubtitles(width int) string {
	if s.player.SubtitlesHidden() {
		return ""
	}
	var lines []string
	for _, sub := range s.player.Active() {
		if s.engine.IsTestLine(sub.Index) {
			continue
		}
		lines = append(lines, sub.Text)
	}
	return theme.SubtitleLine.Width(width).Render(strings.Join(lines, "\n"))
}

// renderTest draws the line with each blank replaced by its input, and the
// expected answers once graded.
func (s *PlayerScreen) renderTest(state study.DisplayState, width int) string {
	var line strings.Builder
	for i, p := range state.Tokens {
		blank := state.BlankFor(i)
		if blank < 0 {
			line.WriteString(p.Text)
			continue
		}
		if state.Blanks[blank].Head() != i || blank >= len(s.inputs) {
			continue
		}
		line.WriteString(s.inputs[blank].View())
	}

	var b strings.Builder
	b.WriteString(theme.SubtitleLine.Width(width).Render(line.String()))
	b.WriteString("\n\n")

	if !state.ShowingResult {
		hint := "Fill in the blanks"
		if s.submitting {
			hint = "Checking..."
		}
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(hint))
		return b.String()
	}

	verdict := theme.Incorrect.Render("Not quite")
	if state.ResultCorrect {
		verdict = theme.Correct.Render("Correct!")
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(verdict))
	b.WriteString("\n")

	for i, r := range state.AnswerResults {
		expected := r.Expected
		if i < len(state.Blanks) {
			if reading := token.ReadingOf(state.Blanks[i].Parts(state.Tokens)); reading != token.FoldReading(expected) {
				expected += " " + theme.Reading.Render("("+reading+")")
			}
		}
		detail := fmt.Sprintf("%s  %s", expected, theme.Reading.Render(r.Tier.String()))
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(detail))
		b.WriteString("\n")
	}
	return b.String()
}
