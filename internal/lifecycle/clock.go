package lifecycle

import "time"

// Clock supplies "now" at decision points. Every guard compares against a
// server-side reading; client-supplied timestamps are never consulted.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
