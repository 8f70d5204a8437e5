package domain

import "errors"

// Validation errors returned to the command handler for user-facing
// reporting. They never leave state partially mutated.
var (
	// ErrAlreadyExists is returned when adding a participant that is
	// already in the rotation.
	ErrAlreadyExists = errors.New("participant is already in the rotation")

	// ErrNotFound is returned when a participant is not in the rotation.
	ErrNotFound = errors.New("participant not found in the rotation")

	// ErrInvalidRange is returned when a vacation start date is after
	// its end date.
	ErrInvalidRange = errors.New("vacation start date is after end date")

	// ErrOverlap is returned when a vacation interval overlaps an
	// existing interval of the same participant.
	ErrOverlap = errors.New("vacation overlaps an existing vacation")

	// ErrOutOfRange is returned when a vacation delete index is outside
	// the participant's vacation list.
	ErrOutOfRange = errors.New("vacation index out of range")

	// ErrNotActivated is returned when an operation needs the
	// notification channel and the bot was never activated.
	ErrNotActivated = errors.New("bot is not activated in any channel")
)
