package study

import "time"

// Subtitle is one line as the host is about to display it.
type Subtitle struct {
	// Index is the stable position of the line within the video.
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Host is the player the engine drives.
type Host interface {
	// VideoSource identifies the content currently playing.
	VideoSource() string

	SetSubtitlesHidden(hidden bool)
	SetOverlaysHidden(hidden bool)

	Pause()
	Play()
	Seek(pos time.Duration)

	// PauseAt pauses playback once pos is reached.
	PauseAt(pos time.Duration)

	// Notify shows a short user-visible message.
	Notify(msg string)

	// TestCompleted reports the outcome of a finished test.
	TestCompleted(index int, passed bool)
}

// Overlay presents display state snapshots. Intents flow back through
// Engine.Submit, Continue, Replay and InputChange.
type Overlay interface {
	Render(state DisplayState)
	Hide()
}
