package notify

import "errors"

// Sentinel kinds for notification errors.
var (
	ErrNotConfigured  = errors.New("webhook url not configured")
	ErrDeliveryFailed = errors.New("notification delivery failed")
)
