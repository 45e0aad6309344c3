package rate

import "errors"

var (
	// ErrRateLimited is returned when an origin has spent its budget for
	// the current window.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnavailable is returned when the backing store cannot be reached.
	// Callers treat it as a denial; throttling fails closed.
	ErrUnavailable = errors.New("rate limiter unavailable")
)
