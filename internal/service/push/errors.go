package push

import "errors"

var (
	ErrInvalidSubscription = errors.New("endpoint, p256dh and auth are required")
	ErrSubscriptionMissing = errors.New("push subscription not found")
)
