package player

import (
	"sync"

	"github.com/abhisek/studyplay/internal/study"
)

// overlay receives display states from the engine, possibly from an
// evaluation goroutine, and hands the latest one to the screen.
type overlay struct {
	mu      sync.Mutex
	state   study.DisplayState
	visible bool
}

var _ study.Overlay = (*overlay)(nil)

func (o *overlay) Render(state study.DisplayState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = state
	o.visible = true
}

func (o *overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = false
}

func (o *overlay) snapshot() (study.DisplayState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.visible
}
