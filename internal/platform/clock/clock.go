// Package clock centralizes time access and slot-time arithmetic so that
// "today" and "now" are injectable in tests.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used throughout the queue
// core. Queue numbering and slot conflicts are keyed on this value.
const DateLayout = "2006-01-02"

// Clock supplies the current time and date.
type Clock interface {
	Now() time.Time
	Today() string
}

// Real is a Clock backed by the system time in UTC.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

func (r Real) Today() string { return r.Now().Format(DateLayout) }

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

func (f Fixed) Today() string { return f.T.Format(DateLayout) }

// ParseDate validates and parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseHHMM parses a time of day ("09:30") into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatHHMM renders minutes since midnight as "HH:MM".
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes shifts a time of day by the given number of minutes.
// The result is clamped to the same day.
func AddMinutes(hhmm string, minutes int) (string, error) {
	m, err := ParseHHMM(hhmm)
	if err != nil {
		return "", err
	}
	m += minutes
	if m > 24*60 {
		m = 24 * 60
	}
	return FormatHHMM(m), nil
}
