// Package biztime centralizes wall-clock access. All storage and transport
// use UTC; components that reason about windows take a Clock so tests can
// pin the current time.
package biztime

import "time"

// Clock returns the current time.
type Clock func() time.Time

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// SystemClock is the production Clock.
var SystemClock Clock = NowUTC

// FixedClock always returns t. Intended for tests.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// OrSystem returns c, or SystemClock when c is nil.
func (c Clock) OrSystem() Clock {
	if c == nil {
		return SystemClock
	}
	return c
}
