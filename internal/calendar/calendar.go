package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	DaysPerWeek = 7
)

var ErrInvalidDate = errors.New("invalid date")

// DateOnly returns the calendar date of t (in t's own location) at 00:00 UTC.
// All dates handled by the attendance engine use this representation.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now as observed in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}

// WeekStart returns the Monday on or before date.
func WeekStart(date time.Time) time.Time {
	date = DateOnly(date)
	// Go's weekday: Sunday=0, Monday=1, ..., Saturday=6
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7
	}
	return date.AddDate(0, 0, -(wd - 1))
}

// Window returns the seven dates, Monday first, of the week offset weeks away from the
// week containing today(now). Offset 0 is the current week, -1 the previous one.
func Window(now time.Time, offset int, loc *time.Location) []time.Time {
	start := WeekStart(Today(now, loc)).AddDate(0, 0, offset*DaysPerWeek)
	dates := make([]time.Time, DaysPerWeek)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WeekLabel returns a label like "2024-W03" for the week containing date.
func WeekLabel(date time.Time) string {
	year, week := DateOnly(date).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ParseDate accepts a plain date or an RFC 3339 timestamp and returns the calendar date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	layouts := []string{
		DateLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return DateOnly(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Before reports whether a falls on an earlier calendar date than b.
func Before(a, b time.Time) bool {
	return DateOnly(a).Before(DateOnly(b))
}
