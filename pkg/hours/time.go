package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Time is a time of day in whole minutes since local midnight.
//
// Valid values are 0..1440 ("00:00".."24:00"). Values above 1440 only appear
// in overflow mode, where "26:30" means 02:30 on the following day.
type Time int

const (
	Midnight Time = 0
	EndOfDay Time = 24 * 60

	// maxOverflow is the latest end a range may reach: one midnight crossing.
	maxOverflow Time = 2 * EndOfDay
)

var reClock = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// ParseTime parses "HH:MM" in the 00:00..24:00 range.
func ParseTime(s string) (Time, error) {
	return parseTime(s, EndOfDay)
}

// MustParseTime is like ParseTime but panics on invalid input.
// Intended for tests and package-level constants.
func MustParseTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseTime(s string, max Time) (Time, error) {
	m := reClock.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, fmt.Errorf("%w: %q, expected HH:MM", ErrInvalidTime, s)
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if mm > 59 {
		return 0, fmt.Errorf("%w: invalid minutes in %q", ErrInvalidTime, s)
	}
	t := Time(hh*60 + mm)
	if t > max {
		return 0, fmt.Errorf("%w: %q is past %s", ErrInvalidTime, s, max)
	}
	return t, nil
}

// TimeOf builds a Time from hours and minutes. It does not validate.
func TimeOf(hour, minute int) Time { return Time(hour*60 + minute) }

func (t Time) Hours() int   { return int(t) / 60 }
func (t Time) Minutes() int { return int(t) % 60 }

// Duration returns the offset of t from local midnight.
func (t Time) Duration() time.Duration { return time.Duration(t) * time.Minute }

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours(), t.Minutes())
}

// ClockOf returns the wall-clock offset of t since its local midnight, with
// sub-minute precision. It reads the wall clock, so DST transitions do not
// shift schedule boundaries.
func ClockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// TimeFromClock truncates a clock offset to whole minutes.
func TimeFromClock(d time.Duration) Time { return Time(d / time.Minute) }

func trimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
