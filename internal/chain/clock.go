package chain

import "time"

// Clock supplies block timestamps in seconds since the Unix epoch.
type Clock interface {
	Now() int64
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() int64

// Now calls f.
func (f ClockFunc) Now() int64 {
	return f()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current Unix time in seconds.
func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock always returns the same timestamp.
type FixedClock int64

// Now returns the fixed timestamp.
func (c FixedClock) Now() int64 {
	return int64(c)
}
