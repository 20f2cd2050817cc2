package assignment

import "errors"

var (
	ErrClientNotFound = errors.New("client not found")
	ErrCoachNotFound  = errors.New("coach not found")
	ErrNotACoach      = errors.New("user does not hold a coach role")
)
