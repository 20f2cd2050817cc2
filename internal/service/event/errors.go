package event

import "errors"

var (
	ErrUnknownType   = errors.New("unknown event type")
	ErrMissingClient = errors.New("clientId is required")
	ErrShuttingDown  = errors.New("event pipeline is shutting down")
)
