package hours

import (
	"fmt"
	"regexp"
)

// TimeRange is a half-open [start, end) interval of one logical day.
//
// End is normalized so that End() > Start() always holds: a range written as
// "22:30-04:00" is stored with End() == 28:00 and spills into the next day.
type TimeRange struct {
	start Time
	end   Time
	data  any
}

var reRange = regexp.MustCompile(`^\s*(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*$`)

// NewTimeRange validates and normalizes a range.
//
// In wrap mode an end at or before start means the range crosses midnight.
// In overflow mode the end may also be written past 24:00 ("19:30-26:30").
// Either way the range may cross midnight at most once.
func NewTimeRange(start, end Time, data any, overflow bool) (TimeRange, error) {
	if start < 0 || start >= EndOfDay {
		return TimeRange{}, fmt.Errorf("%w: start %s out of range", ErrInvalidRange, start)
	}
	if end < 0 || end > maxOverflow {
		return TimeRange{}, fmt.Errorf("%w: end %s out of range", ErrInvalidRange, end)
	}
	if end > EndOfDay && !overflow {
		return TimeRange{}, fmt.Errorf("%w: end %s past 24:00 requires overflow mode", ErrInvalidRange, end)
	}
	if start == end {
		return TimeRange{}, fmt.Errorf("%w: %s-%s has zero length", ErrInvalidRange, start, end)
	}
	if end < start {
		end += EndOfDay
	}
	if end-start > EndOfDay {
		return TimeRange{}, fmt.Errorf("%w: %s-%s is longer than a day", ErrInvalidRange, start, end)
	}
	return TimeRange{start: start, end: end, data: data}, nil
}

// ParseTimeRange parses "HH:MM-HH:MM".
func ParseTimeRange(s string, overflow bool) (TimeRange, error) {
	return ParseTimeRangeData(s, nil, overflow)
}

// ParseTimeRangeData parses "HH:MM-HH:MM" and attaches data to the range.
func ParseTimeRangeData(s string, data any, overflow bool) (TimeRange, error) {
	m := reRange.FindStringSubmatch(s)
	if len(m) != 3 {
		return TimeRange{}, fmt.Errorf("%w: %q, expected HH:MM-HH:MM", ErrInvalidRange, s)
	}
	maxEnd := EndOfDay
	if overflow {
		maxEnd = maxOverflow
	}
	start, err := parseTime(m[1], EndOfDay)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}
	end, err := parseTime(m[2], maxEnd)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}
	return NewTimeRange(start, end, data, overflow)
}

// MustParseTimeRange is like ParseTimeRange in wrap mode but panics on error.
func MustParseTimeRange(s string) TimeRange {
	r, err := ParseTimeRange(s, false)
	if err != nil {
		panic(err)
	}
	return r
}

func (r TimeRange) Start() Time { return r.start }

// End returns the normalized end; values above 24:00 belong to the next day.
func (r TimeRange) End() Time { return r.end }

func (r TimeRange) Data() any { return r.data }

// Overflows reports whether the range runs past midnight into the next day.
func (r TimeRange) Overflows() bool { return r.end > EndOfDay }

// Length is the duration covered by the range.
func (r TimeRange) Length() Time { return r.end - r.start }

// ContainsTime reports whether t falls in the same-day part of the range.
func (r TimeRange) ContainsTime(t Time) bool {
	return r.start <= t && t < r.end
}

// ContainsNightTime reports whether t, read as a time of the following day,
// falls in the part of the range that spilled past midnight.
func (r TimeRange) ContainsNightTime(t Time) bool {
	return r.end > EndOfDay && t < r.end-EndOfDay
}

// OverlapsWith reports whether two ranges of the same day overlap or touch.
func (r TimeRange) OverlapsWith(o TimeRange) bool {
	return r.start <= o.end && o.start <= r.end
}

func (r TimeRange) IsZero() bool { return r.start == 0 && r.end == 0 }

func (r TimeRange) String() string {
	end := r.end
	if end > EndOfDay {
		end -= EndOfDay
	}
	return r.start.String() + "-" + end.String()
}
