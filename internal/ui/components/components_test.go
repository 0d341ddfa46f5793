package components

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestBlankInputWidth(t *testing.T) {
	if got := NewBlankInput("学生").Width; got != minBlankWidth {
		t.Errorf("width(学生) = %d, want %d", got, minBlankWidth)
	}
	if got := NewBlankInput("食べさせられた").Width; got != 14 {
		t.Errorf("width(食べさせられた) = %d, want 14", got)
	}
}

func TestBlankInputTyping(t *testing.T) {
	b := NewBlankInput("学生")
	b.Focus()
	b, _ = b.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if b.Value() != "a" {
		t.Errorf("Value() = %q, want %q", b.Value(), "a")
	}

	b.Submit(true)
	if !b.Submitted() || b.Focused() {
		t.Error("expected submitted and blurred input")
	}
	b, _ = b.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if b.Value() != "a" {
		t.Errorf("submitted input accepted typing: %q", b.Value())
	}
	if !strings.Contains(b.View(), "✓") {
		t.Errorf("View() = %q, want check mark", b.View())
	}
}

func TestTimelinePercent(t *testing.T) {
	tl := NewTimeline(30*time.Second, time.Minute, true, 60)
	if got := tl.Percent(); got != 0.5 {
		t.Errorf("Percent() = %v, want 0.5", got)
	}
	if got := NewTimeline(2*time.Minute, time.Minute, false, 60).Percent(); got != 1 {
		t.Errorf("Percent() past end = %v, want 1", got)
	}
	if got := NewTimeline(time.Second, 0, false, 60).Percent(); got != 0 {
		t.Errorf("Percent() with zero duration = %v, want 0", got)
	}
	if !strings.Contains(tl.View(), "0:30") {
		t.Errorf("View() = %q, want position label", tl.View())
	}
}
