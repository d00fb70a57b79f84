package session

import "errors"

var (
	// ErrInvalidState is returned for commands issued outside their legal
	// state, e.g. answering after submission. No state is mutated.
	ErrInvalidState = errors.New("session: command not valid in current state")

	// ErrQuestionNotFound is returned when a command references a question
	// id that is not part of the active assessment.
	ErrQuestionNotFound = errors.New("session: question not in assessment")

	// ErrIndexOutOfRange is returned by GoTo for an index outside the
	// question sequence.
	ErrIndexOutOfRange = errors.New("session: question index out of range")

	// ErrTimerUnavailable is returned by Begin when a timed assessment's
	// countdown cannot be armed. The session stays in NotStarted rather
	// than silently running untimed.
	ErrTimerUnavailable = errors.New("session: countdown could not be armed")
)
