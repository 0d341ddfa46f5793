package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/abhisek/studyplay/internal/ui/theme"
)

// minBlankWidth keeps one-character blanks typeable.
const minBlankWidth = 4

// BlankInput is a text input sized to the gap it fills in a subtitle line.
type BlankInput struct {
	Model     textinput.Model
	Width     int
	submitted bool
	valid     bool
}

// NewBlankInput creates an input as wide as expected renders in a terminal.
// The input is not focused.
func NewBlankInput(expected string) BlankInput {
	w := runewidth.StringWidth(expected)
	if w < minBlankWidth {
		w = minBlankWidth
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = ""
	ti.SetWidth(w)

	return BlankInput{Model: ti, Width: w}
}

// Focus focuses the input.
func (b *BlankInput) Focus() tea.Cmd {
	return b.Model.Focus()
}

// Blur removes focus.
func (b *BlankInput) Blur() {
	b.Model.Blur()
}

// Focused reports whether the input has focus.
func (b BlankInput) Focused() bool {
	return b.Model.Focused()
}

// Update handles messages.
func (b BlankInput) Update(msg tea.Msg) (BlankInput, tea.Cmd) {
	if b.submitted {
		return b, nil
	}
	var cmd tea.Cmd
	b.Model, cmd = b.Model.Update(msg)
	return b, cmd
}

// View renders the input as an underlined gap, or the graded answer once
// submitted.
func (b BlankInput) View() string {
	if b.submitted {
		style := theme.Incorrect
		mark := "✗"
		if b.valid {
			style = theme.Correct
			mark = "✓"
		}
		return style.Render(b.Value() + mark)
	}

	style := theme.Blank
	if b.Model.Focused() {
		style = theme.BlankFocused
	}
	value := b.Model.Value()
	pad := b.Width - runewidth.StringWidth(value)
	if pad < 0 {
		pad = 0
	}
	return style.Render(value + strings.Repeat("_", pad))
}

// Value returns the current input value.
func (b BlankInput) Value() string {
	return b.Model.Value()
}

// SetValue replaces the input value.
func (b *BlankInput) SetValue(v string) {
	b.Model.SetValue(v)
}

// Submit marks the input as graded.
func (b *BlankInput) Submit(valid bool) {
	b.submitted = true
	b.valid = valid
	b.Model.Blur()
}

// Submitted reports whether Submit was called.
func (b BlankInput) Submitted() bool {
	return b.submitted
}
