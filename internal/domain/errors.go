package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been initialized.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidAction is returned when a transition is requested in a phase
	// that does not allow it.
	ErrInvalidAction = errors.New("action not valid in current phase")
	// ErrEmptyAnswer is returned by the boundary when a submission is empty
	// or whitespace-only; the grader is never invoked for these.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrAnswerPending is returned when a submission arrives while a previous
	// one is still being judged.
	ErrAnswerPending = errors.New("previous answer is still being checked")
	// ErrUnknownMode indicates an unsupported game mode identifier.
	ErrUnknownMode = errors.New("unknown game mode")
)
