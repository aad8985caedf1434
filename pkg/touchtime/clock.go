package touchtime

import (
	"math"
	"time"
)

// Clock provides the current time. The engine never calls time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, optionally converted to Location.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current wall-clock time.
func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time {
	return c.T
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// Minutes returns minutes since the last 12-hour boundary, in [0, 720).
// Seconds are ignored.
func Minutes(now time.Time) int {
	return (now.Hour()*60 + now.Minute()) % 720
}

// Angles returns the hour and minute hand angles for now, in radians
// clockwise from 12 o'clock.
func Angles(now time.Time) (hour, minute float64) {
	return AnglesAt(Minutes(now))
}

// AnglesAt returns the hand angles for a minute count in [0, 720).
func AnglesAt(minutes int) (hour, minute float64) {
	hour = float64(minutes) * 2.0 * math.Pi / 720.0
	minute = float64(minutes%60) * 2.0 * math.Pi / 60.0
	return hour, minute
}
