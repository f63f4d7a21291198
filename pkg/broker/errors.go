package broker

import "errors"

var (
	// ErrBrokerClosed is returned when Connect is called after Close.
	ErrBrokerClosed = errors.New("broker is closed")

	// ErrUnknownConnection is returned when identifying a connection id the
	// broker does not own (never connected, or already disconnected).
	ErrUnknownConnection = errors.New("unknown connection id")
)
