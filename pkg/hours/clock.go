package hours

import "time"

// Clock supplies "now" for IsOpen, IsClosed and IsOpenOn.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns t.
func FixedClock(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }
