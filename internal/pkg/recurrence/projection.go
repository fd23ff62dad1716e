package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Occurrence is one projected slot of a recurring event.
type Occurrence struct {
	// Index counts emitted occurrences, starting at 0.
	Index int
	Start time.Time
	End   time.Time
}

// ProjectionConfig controls a projection walk.
type ProjectionConfig struct {
	RangeStart time.Time
	RangeEnd   time.Time
	// MaxSteps bounds the number of periods walked from the base start,
	// including periods before RangeStart. Zero means MaxProjectionSteps.
	MaxSteps int
}

// BuildRule returns the rrule walking one period of typ at a time from
// baseStart. Monthly steps keep the day of month of baseStart, clamped to the
// last day of shorter months.
func BuildRule(baseStart time.Time, typ Type, steps int) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Dtstart:  baseStart,
		Interval: 1,
		Count:    steps,
	}

	switch typ {
	case Weekly:
		opt.Freq = rrule.WEEKLY
	case Monthly:
		opt.Freq = rrule.MONTHLY
		day := baseStart.Day()
		if day <= 28 {
			opt.Bymonthday = []int{day}
		} else {
			// last existing day among 28..day
			for d := 28; d <= day; d++ {
				opt.Bymonthday = append(opt.Bymonthday, d)
			}
			opt.Bysetpos = []int{-1}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}

	return rrule.NewRRule(opt)
}

// Project walks forward from baseStart one period at a time and returns the
// steps that start inside [RangeStart, RangeEnd]. Each occurrence keeps the
// duration of the base event. At most MaxSteps periods are walked.
func Project(baseStart, baseEnd time.Time, typ Type, cfg ProjectionConfig) ([]Occurrence, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("recurrence: range end is before range start")
	}
	steps := cfg.MaxSteps
	if steps <= 0 || steps > MaxProjectionSteps {
		steps = MaxProjectionSteps
	}

	rule, err := BuildRule(baseStart, typ, steps)
	if err != nil {
		return nil, err
	}

	loc := baseStart.Location()
	starts := rule.Between(cfg.RangeStart.In(loc), cfg.RangeEnd.In(loc), true)

	duration := baseEnd.Sub(baseStart)
	out := make([]Occurrence, 0, len(starts))
	for i, start := range starts {
		out = append(out, Occurrence{
			Index: i,
			Start: start,
			End:   start.Add(duration),
		})
	}
	return out, nil
}
