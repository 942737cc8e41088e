package chatbot

import (
	"time"

	"factory-chatbot-backend/internal/model"
)

// Clock supplies the current time. "Today" is the civil date of Now in the
// clock's location.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return ClockFunc(func() time.Time { return time.Now().In(loc) })
}

// FixedClock always reports t. Useful for replaying a day.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func today(c Clock) time.Time {
	return model.Day(c.Now())
}
