// Package biztime holds time helpers shared across enforcement. All stored and
// compared timestamps are UTC.
package biztime

import (
	"math"
	"time"
)

// Day is a calendar-agnostic 24 hour day. Grace periods are counted in these.
const Day = 24 * time.Hour

// Clock returns the current time. Services take one so tests can pin time.
type Clock func() time.Time

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// AddDays returns t shifted by n whole days.
func AddDays(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * Day)
}

// CeilDays rounds a positive duration up to whole days. Non-positive
// durations yield 0.
func CeilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(Day)))
}

// OlderThan reports whether t is unset or more than window before now.
func OlderThan(t *time.Time, now time.Time, window time.Duration) bool {
	if t == nil || t.IsZero() {
		return true
	}
	return now.Sub(*t) > window
}

// CeilMinutes rounds a positive duration up to whole minutes.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(time.Minute)))
}

// CeilSeconds rounds a positive duration up to whole seconds.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(time.Second)))
}
