package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplay/internal/ui/layout"
	"github.com/abhisek/studyplay/internal/ui/theme"
)

// Timeline displays playback position as a bar with clock labels.
type Timeline struct {
	Position time.Duration
	Duration time.Duration
	Playing  bool
	Width    int
}

// NewTimeline creates a timeline.
func NewTimeline(pos, duration time.Duration, playing bool, width int) Timeline {
	return Timeline{Position: pos, Duration: duration, Playing: playing, Width: width}
}

// Percent returns the played fraction in [0, 1].
func (t Timeline) Percent() float64 {
	if t.Duration <= 0 {
		return 0
	}
	p := float64(t.Position) / float64(t.Duration)
	return min(1, max(0, p))
}

// View renders the timeline.
func (t Timeline) View() string {
	icon := "❚❚"
	if t.Playing {
		icon = "▶ "
	}
	left := lipgloss.NewStyle().Foreground(theme.Primary).Render(icon) + " " +
		lipgloss.NewStyle().Foreground(theme.Text).Render(layout.FormatClock(t.Position))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(layout.FormatClock(t.Duration))

	barWidth := t.Width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * t.Percent())
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	bar := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	return left + "  " + bar + "  " + right
}
