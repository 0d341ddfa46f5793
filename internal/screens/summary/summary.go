package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplay/internal/router"
	"github.com/abhisek/studyplay/internal/screen"
	"github.com/abhisek/studyplay/internal/ui/layout"
	"github.com/abhisek/studyplay/internal/ui/theme"
)

// Line is one tested subtitle line and its outcome.
type Line struct {
	Index  int
	Text   string
	Passed bool
}

// Result is what the player hands over when the video ends.
type Result struct {
	Title      string
	Duration   time.Duration
	CardsShown int
	Lines      []Line
}

// Passed counts the lines answered correctly.
func (r Result) Passed() int {
	n := 0
	for _, l := range r.Lines {
		if l.Passed {
			n++
		}
	}
	return n
}

// Accuracy is the pass ratio over completed lines, or 0.
func (r Result) Accuracy() float64 {
	if len(r.Lines) == 0 {
		return 0
	}
	return float64(r.Passed()) / float64(len(r.Lines))
}

// SummaryScreen displays the end-of-video summary.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.QuitWhenRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Video complete!"))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s  ·  %s", res.Title, layout.FormatClock(res.Duration))))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Cards: %d        Completed: %d        Accuracy: %.0f%%",
		res.CardsShown, len(res.Lines), res.Accuracy()*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n\n")

	if len(res.Lines) == 0 {
		b.WriteString(center(theme.Hint, "No lines were tested."))
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, l := range res.Lines {
		mark := theme.Incorrect.Render("✗")
		if l.Passed {
			mark = theme.Correct.Render("✓")
		}
		text := strings.ReplaceAll(l.Text, "\n", " ")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			fmt.Sprintf("%s  #%d  %s", mark, l.Index+1, text)))
		b.WriteString("\n")
	}
	return b.String()
}
