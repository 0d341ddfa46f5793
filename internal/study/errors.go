package study

import "errors"

var (
	// ErrNoActiveTest is returned by intents that need a displayed test.
	ErrNoActiveTest = errors.New("no active test")

	// ErrNotSubmitted is returned by Continue before answers were submitted.
	ErrNotSubmitted = errors.New("answers not submitted")

	// ErrAlreadySubmitted is returned by Submit once results are showing.
	ErrAlreadySubmitted = errors.New("answers already submitted")

	// ErrEmptyAnswer is returned by Submit when any blank is left empty.
	ErrEmptyAnswer = errors.New("empty answer")

	// ErrAnswerCount is returned by Submit when the answer count does not
	// match the number of blanks.
	ErrAnswerCount = errors.New("answer count does not match blanks")

	// ErrNotBound is returned when no host is bound.
	ErrNotBound = errors.New("engine not bound to a host")
)
