package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// MaxShiftSpan is the longest wall-clock span a single shift may cover.
const MaxShiftSpan = 24 * time.Hour

var ErrOutOfRangeDuration = errors.New("duration exceeds 24 hours")

// Elapsed returns the duration between two instants. An end before the start
// is read as falling on the following day (the shift crossed midnight).
func Elapsed(start, end time.Time) (time.Duration, error) {
	d := end.Sub(start)
	if d < 0 {
		if -d > MaxShiftSpan {
			return 0, fmt.Errorf("end is %s before start: %w", -d, ErrOutOfRangeDuration)
		}
		d += MaxShiftSpan
	}
	if d > MaxShiftSpan {
		return 0, fmt.Errorf("span of %s: %w", d, ErrOutOfRangeDuration)
	}
	return d, nil
}

// ElapsedHours is Elapsed expressed in fractional hours, unrounded.
func ElapsedHours(start, end time.Time) (float64, error) {
	d, err := Elapsed(start, end)
	if err != nil {
		return 0, err
	}
	return d.Hours(), nil
}

// ParseClock parses a wall-clock value in "15:04" or "15:04:05" form.
func ParseClock(clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		t, err = time.Parse("15:04:05", clock)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return t, nil
}

// ClockOnDate places a wall-clock time on the calendar day of date in loc.
func ClockOnDate(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// WindowBounds resolves a scheduled window to instants. Overnight windows
// (end clock before start clock) end on the next day.
func WindowBounds(date time.Time, startClock, endClock string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ClockOnDate(date, startClock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ClockOnDate(date, endClock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// DateOnly truncates t to midnight of its calendar day in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WithinDates reports whether the calendar day of t lies in [from, to].
// A zero bound is open.
func WithinDates(t, from, to time.Time) bool {
	day := DateOnly(t)
	if !from.IsZero() && day.Before(DateOnly(from)) {
		return false
	}
	if !to.IsZero() && day.After(DateOnly(to)) {
		return false
	}
	return true
}
