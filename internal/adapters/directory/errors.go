package directory

import "errors"

// Sentinel kinds for directory errors.
var (
	ErrNotConfigured = errors.New("directory not configured")
	ErrFetchFailed   = errors.New("roster fetch failed")
)
