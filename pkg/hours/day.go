package hours

import (
	"fmt"
	"strings"
	"time"
)

// Week lists the weekdays in schedule order, Monday first.
var Week = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var dayByName = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseDay parses a lowercase or capitalized English weekday name.
func ParseDay(s string) (time.Weekday, error) {
	d, ok := dayByName[trimLower(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return d, nil
}

// DayName returns the lowercase weekday name used in definitions.
func DayName(d time.Weekday) string { return strings.ToLower(d.String()) }

// ISODay numbers weekdays 1 (Monday) through 7 (Sunday).
func ISODay(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

func isDayName(s string) bool {
	_, ok := dayByName[trimLower(s)]
	return ok
}

// parseDayKey expands "monday", "monday to friday", "monday - friday" or
// "monday-friday". Ranges may wrap the week ("friday to monday").
func parseDayKey(key string) ([]time.Weekday, error) {
	from, to, isRange := splitRangeKey(key, -1)
	if !isRange {
		d, err := ParseDay(key)
		if err != nil {
			return nil, err
		}
		return []time.Weekday{d}, nil
	}
	start, err := ParseDay(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDay(to)
	if err != nil {
		return nil, err
	}
	out := []time.Weekday{start}
	for d := start; d != end; {
		d = (d + 1) % 7
		out = append(out, d)
	}
	return out, nil
}

// splitRangeKey splits "a to b", "a - b" and, when compactAt is not -1 and
// the key has that exact shape, the compact "a-b" form. For weekday keys
// (compactAt == -1) any single hyphen splits.
func splitRangeKey(key string, compactAt int) (string, string, bool) {
	k := strings.TrimSpace(key)
	for _, sep := range []string{" to ", " - "} {
		if i := strings.Index(k, sep); i >= 0 {
			return strings.TrimSpace(k[:i]), strings.TrimSpace(k[i+len(sep):]), true
		}
	}
	if compactAt < 0 {
		if i := strings.Index(k, "-"); i > 0 {
			return k[:i], k[i+1:], true
		}
		return "", "", false
	}
	if len(k) == 2*compactAt+1 && k[compactAt] == '-' {
		return k[:compactAt], k[compactAt+1:], true
	}
	return "", "", false
}
