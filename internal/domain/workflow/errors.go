package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger does not apply to the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidTrigger is returned when a decision does not map to a trigger
	ErrInvalidTrigger = errors.New("invalid trigger")

	// ErrUnknownState is returned when a machine is positioned outside its lifecycle
	ErrUnknownState = errors.New("unknown state")
)
