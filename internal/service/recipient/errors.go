package recipient

import "errors"

var (
	ErrUnknownType   = errors.New("unknown event type")
	ErrMissingClient = errors.New("client id is required")
)
