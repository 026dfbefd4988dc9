package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateKey identifies an exception: an exact calendar date (Year set) or a
// month-day that recurs every year (Year == 0).
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

var (
	reExactDate     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reRecurringDate = regexp.MustCompile(`^(\d{2})-(\d{2})$`)
)

// ParseDateKey parses "YYYY-MM-DD" or "MM-DD".
func ParseDateKey(s string) (DateKey, error) {
	if m := reExactDate.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		k := DateKey{Year: y, Month: time.Month(mo), Day: d}
		if !k.valid() {
			return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return k, nil
	}
	if m := reRecurringDate.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		k := DateKey{Month: time.Month(mo), Day: d}
		if !k.valid() {
			return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return k, nil
	}
	return DateKey{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD or MM-DD", ErrInvalidDate, s)
}

// DateKeyOf returns the exact key of t's calendar date in t's location.
func DateKeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: m, Day: d}
}

func (k DateKey) Recurring() bool { return k.Year == 0 }

// MonthDay drops the year, giving the recurring key for the same date.
func (k DateKey) MonthDay() DateKey { return DateKey{Month: k.Month, Day: k.Day} }

func (k DateKey) String() string {
	if k.Recurring() {
		return fmt.Sprintf("%02d-%02d", int(k.Month), k.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Before orders exact keys chronologically; recurring keys sort by month-day.
func (k DateKey) Before(o DateKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

func (k DateKey) valid() bool {
	if k.Month < time.January || k.Month > time.December || k.Day < 1 {
		return false
	}
	y := k.Year
	if y == 0 {
		y = leapYear
	}
	t := time.Date(y, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
	return t.Month() == k.Month && t.Day() == k.Day
}

// leapYear hosts recurring keys so that "02-29" is accepted.
const leapYear = 2000

// parseDateKeyRange expands a single date key or a date range key. Both ends
// of a range must be of the same kind. Recurring ranges may wrap the year
// ("12-30 to 01-02"); exact ranges must not run backwards.
func parseDateKeyRange(key string) ([]DateKey, error) {
	from, to, isRange := splitRangeKey(key, 10)
	if !isRange {
		from, to, isRange = splitRangeKey(key, 5)
	}
	if !isRange {
		k, err := ParseDateKey(key)
		if err != nil {
			return nil, err
		}
		return []DateKey{k}, nil
	}
	start, err := ParseDateKey(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDateKey(to)
	if err != nil {
		return nil, err
	}
	if start.Recurring() != end.Recurring() {
		return nil, fmt.Errorf("%w: %q mixes exact and recurring dates", ErrInvalidDate, key)
	}
	if !start.Recurring() && end.Before(start) {
		return nil, fmt.Errorf("%w: %q ends before it starts", ErrInvalidDate, key)
	}

	var out []DateKey
	cur := dateOfKey(start)
	for {
		k := cur.key(start.Recurring())
		out = append(out, k)
		if k == end {
			return out, nil
		}
		cur = cur.addDays(1)
		if start.Recurring() && cur.year > leapYear {
			cur = date{year: leapYear, month: time.January, day: 1}
		}
	}
}

// date is a plain Gregorian calendar date, independent of any location.
type date struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) date {
	y, m, d := t.Date()
	return date{year: y, month: m, day: d}
}

func dateOfKey(k DateKey) date {
	y := k.Year
	if y == 0 {
		y = leapYear
	}
	return date{year: y, month: k.Month, day: k.Day}
}

func (d date) key(recurring bool) DateKey {
	if recurring {
		return DateKey{Month: d.month, Day: d.day}
	}
	return DateKey{Year: d.year, Month: d.month, Day: d.day}
}

func (d date) addDays(n int) date {
	return dateOf(time.Date(d.year, d.month, d.day+n, 0, 0, 0, 0, time.UTC))
}

func (d date) weekday() time.Weekday {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Weekday()
}

// at returns the instant minutes after midnight of d in loc. Minutes may be
// 1440 or more, which lands on a later day.
func (d date) at(minutes Time, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, int(minutes), 0, 0, loc)
}

// instants lists, in order, the instants whose wall clock in loc reads
// minutes after midnight of d. A clock set back yields two; a time skipped
// by a clock set forward maps to the instant of the jump. shifted reports
// either case.
func (d date) instants(minutes Time, loc *time.Location) (out []time.Time, shifted bool) {
	t := d.at(minutes, loc)
	want := time.Date(d.year, d.month, d.day, 0, int(minutes), 0, 0, time.UTC)
	got := wallOf(t)
	if !got.Equal(want) {
		start, end := t.ZoneBounds()
		if got.After(want) {
			return []time.Time{start}, true
		}
		return []time.Time{end}, true
	}
	start, end := t.ZoneBounds()
	if !start.IsZero() {
		_, off := start.Add(-time.Nanosecond).Zone()
		earlier := want.Add(-time.Duration(off) * time.Second).In(loc)
		if earlier.Before(t) && wallOf(earlier).Equal(want) {
			return []time.Time{earlier, t}, true
		}
	}
	if !end.IsZero() {
		_, off := end.Zone()
		later := want.Add(-time.Duration(off) * time.Second).In(loc)
		if later.After(t) && wallOf(later).Equal(want) {
			return []time.Time{t, later}, true
		}
	}
	return []time.Time{t}, false
}

// wallOf reads the wall clock of t as if it were UTC.
func wallOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func (d date) String() string { return d.key(false).String() }
