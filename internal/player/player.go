// Package player is a simulated video clock driven by subtitle timings. It
// implements study.Host so the study engine can pause, seek and hide
// subtitles exactly as it would on a real player.
package player

import (
	"sort"
	"sync"
	"time"

	"github.com/abhisek/studyplay/internal/study"
)

// tail is how long playback runs past the last cue.
const tail = 2 * time.Second

// Completion is a test result reported back by the engine.
type Completion struct {
	Index  int
	Passed bool
}

// Player tracks playback position over a subtitle track.
type Player struct {
	mu sync.Mutex

	src      string
	subs     []study.Subtitle
	duration time.Duration

	pos     time.Duration
	playing bool
	stopAt  time.Duration // negative when unset

	subtitlesHidden bool
	overlaysHidden  bool

	notes     []string
	completed []Completion
}

var _ study.Host = (*Player)(nil)

// New creates a paused player at position zero. subs are sorted by start
// time; their indices are left untouched.
func New(src string, subs []study.Subtitle) *Player {
	sorted := append([]study.Subtitle(nil), subs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var duration time.Duration
	for _, s := range sorted {
		if s.End > duration {
			duration = s.End
		}
	}
	return &Player{
		src:      src,
		subs:     sorted,
		duration: duration + tail,
		stopAt:   -1,
	}
}

// Advance moves the clock forward by d while playing and returns the cues
// whose start time was crossed, in order. Playback stops at a pending
// pause point or at the end of the track.
func (p *Player) Advance(d time.Duration) []study.Subtitle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || d <= 0 {
		return nil
	}

	from := p.pos
	to := from + d
	if p.stopAt >= from && p.stopAt < to {
		to = p.stopAt
		p.playing = false
		p.stopAt = -1
	}
	if to >= p.duration {
		to = p.duration
		p.playing = false
	}
	p.pos = to

	var crossed []study.Subtitle
	for _, s := range p.subs {
		if s.Start >= from && s.Start < to {
			crossed = append(crossed, s)
		}
	}
	return crossed
}

// Active returns the cues on screen at the current position.
func (p *Player) Active() []study.Subtitle {
	p.mu.Lock()
	defer p.mu.Unlock()

	var active []study.Subtitle
	for _, s := range p.subs {
		if s.Start <= p.pos && p.pos < s.End {
			active = append(active, s)
		}
	}
	return active
}

// Subtitles returns the track in start order.
func (p *Player) Subtitles() []study.Subtitle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]study.Subtitle(nil), p.subs...)
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Finished reports whether the clock reached the end of the track.
func (p *Player) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos >= p.duration
}

// Toggle flips between playing and paused.
func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = !p.playing && p.pos < p.duration
}

// SubtitlesHidden reports whether normal subtitle rendering is suppressed.
func (p *Player) SubtitlesHidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subtitlesHidden
}

func (p *Player) OverlaysHidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overlaysHidden
}

// DrainNotes returns and clears pending notifications.
func (p *Player) DrainNotes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	notes := p.notes
	p.notes = nil
	return notes
}

// Completed returns every reported test result.
func (p *Player) Completed() []Completion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Completion(nil), p.completed...)
}

// study.Host

func (p *Player) VideoSource() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}

func (p *Player) SetSubtitlesHidden(hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subtitlesHidden = hidden
}

func (p *Player) SetOverlaysHidden(hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlaysHidden = hidden
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos < p.duration {
		p.playing = true
	}
}

// Seek moves the clock, clamped to the track. A pending pause point behind
// the new position is dropped.
func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = max(0, min(pos, p.duration))
	if p.stopAt >= 0 && p.stopAt < p.pos {
		p.stopAt = -1
	}
}

// PauseAt stops playback once the clock reaches pos. A point the clock has
// already passed pauses at once.
func (p *Player) PauseAt(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos <= p.pos {
		p.playing = false
		p.stopAt = -1
		return
	}
	p.stopAt = pos
}

// CancelPauseAt drops a pending pause point.
func (p *Player) CancelPauseAt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopAt = -1
}

func (p *Player) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, msg)
}

func (p *Player) TestCompleted(index int, passed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, Completion{Index: index, Passed: passed})
}
