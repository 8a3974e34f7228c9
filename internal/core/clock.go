package core

import "time"

// Clock supplies the current instant. Injecting it keeps "today" and "now"
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local device clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
