package market

import "time"

// Clock abstracts wall-clock time so session gating and price cadence can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host's local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
