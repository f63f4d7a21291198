package notification

import "errors"

var (
	// ErrValidation is joined with field details when a publish request is
	// missing required fields. Surfaced to HTTP callers as a 400.
	ErrValidation = errors.New("invalid publish request")

	// ErrStore is joined with the driver error when the event store rejects
	// a write or read. A failed Create aborts the publish flow before any
	// delivery attempt.
	ErrStore = errors.New("event store failure")
)
