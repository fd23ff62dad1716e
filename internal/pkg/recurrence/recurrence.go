// Package recurrence holds the date arithmetic behind recurring series:
// stepping a series forward by one period and projecting occurrences of a
// recurring event onto a calendar window.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type is the recurrence kind of a series.
type Type string

const (
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// MaxProjectionSteps bounds a single projection walk.
const MaxProjectionSteps = 52

var (
	ErrInvalidType     = errors.New("recurrence: unknown recurrence type")
	ErrInvalidSelector = errors.New("recurrence: invalid recurrence value")
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseType parses a recurrence kind, case-insensitively.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// ParseWeekday parses an English weekday name such as "Monday".
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a weekday", ErrInvalidSelector, s)
	}
	return wd, nil
}

// ParseMonthDay parses a day-of-month selector in 1..31.
func ParseMonthDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("%w: %q is not a day of month", ErrInvalidSelector, s)
	}
	return day, nil
}

// ValidateSelector checks that value is a valid selector for typ.
func ValidateSelector(typ Type, value string) error {
	switch typ {
	case Weekly:
		_, err := ParseWeekday(value)
		return err
	case Monthly:
		_, err := ParseMonthDay(value)
		return err
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, typ)
}

// MatchesSelector reports whether t already sits on the selector of typ: the
// named weekday, or the selected day of month clamped to the month's length.
// A series anchored off its selector would project on different days than it
// materializes.
func MatchesSelector(t time.Time, typ Type, value string) (bool, error) {
	switch typ {
	case Weekly:
		wd, err := ParseWeekday(value)
		if err != nil {
			return false, err
		}
		return t.Weekday() == wd, nil

	case Monthly:
		day, err := ParseMonthDay(value)
		if err != nil {
			return false, err
		}
		if last := DaysIn(t.Year(), t.Month()); day > last {
			day = last
		}
		return t.Day() == day, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidType, typ)
}

// CalculateNextRecurringDate advances current by one period of typ and snaps
// the result onto the selector.
//
// Weekly: seven days later, then moved to the named weekday of that
// Sunday-started week (the move may go backwards).
// Monthly: one calendar month later, day set to the selector and clamped to
// the last day of that month.
//
// Time of day and location are preserved.
func CalculateNextRecurringDate(current time.Time, typ Type, value string) (time.Time, error) {
	switch typ {
	case Weekly:
		wd, err := ParseWeekday(value)
		if err != nil {
			return time.Time{}, err
		}
		next := current.AddDate(0, 0, 7)
		return next.AddDate(0, 0, int(wd)-int(next.Weekday())), nil

	case Monthly:
		day, err := ParseMonthDay(value)
		if err != nil {
			return time.Time{}, err
		}
		y, m, _ := current.Date()
		return dateInMonth(current, y, m+1, day), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
}

// dateInMonth builds the time on day (clamped) of the given month, keeping the
// clock of ref. Month overflow (13) is normalised by time.Date.
func dateInMonth(ref time.Time, year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	year, month = first.Year(), first.Month()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	h, mi, s := ref.Clock()
	return time.Date(year, month, day, h, mi, s, ref.Nanosecond(), ref.Location())
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Pattern renders a short human readable description of a recurrence.
func Pattern(typ Type, value string) string {
	switch typ {
	case Weekly:
		if wd, err := ParseWeekday(value); err == nil {
			return "Every " + wd.String()
		}
		return "Weekly"
	case Monthly:
		if day, err := ParseMonthDay(value); err == nil {
			return fmt.Sprintf("Monthly on day %d", day)
		}
		return "Monthly"
	}
	return ""
}
