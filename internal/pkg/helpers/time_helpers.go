package helpers

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseCalendarBound parses a calendar query bound given as YYYY-MM-DD or RFC3339.
// A bare date used as an end bound covers the whole day.
func ParseCalendarBound(value string, endOfDay bool, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	d, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", value)
	}
	if endOfDay {
		return d.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return d, nil
}
