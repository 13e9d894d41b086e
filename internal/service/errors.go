package service

import "errors"

// Service-level errors that do not map to a single missing resource.
var (
	// ErrSessionActive is returned when rewards are claimed for a session
	// that has not reached a terminal scene yet.
	ErrSessionActive = errors.New("quest session is not completed yet")
)
