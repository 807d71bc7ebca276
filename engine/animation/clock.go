package animation

import "time"

// Clock supplies the wall-clock reference a clip measures elapsed time against.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)
