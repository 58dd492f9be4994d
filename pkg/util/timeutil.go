package util

import "time"

// Clock returns the current time. Components take one so tests can pin it.
type Clock func() time.Time

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Expired reports whether deadline has passed at now. A zero deadline never expires.
func Expired(deadline, now time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return !now.Before(deadline)
}
