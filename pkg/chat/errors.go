package chat

import "errors"

var (
	// ErrValidation is joined with field details when a message is missing
	// required fields or declares an unknown role.
	ErrValidation = errors.New("invalid chat message")

	// ErrStore is joined with the driver error when the message store
	// rejects a read or write. A failed Create aborts fan-out.
	ErrStore = errors.New("message store failure")
)
