package hours

import (
	"reflect"
	"sort"
	"strings"
)

// DayHours is the merged, ordered set of open ranges of one logical day.
//
// Ranges never overlap or touch each other. A range may extend past 24:00;
// that part is open time of the following calendar day.
type DayHours struct {
	ranges []TimeRange
	data   any
}

// NewDayHours sorts and merges ranges. Overlapping or touching ranges are
// fused into one; the fused range keeps its data only when every piece carried
// the same data.
func NewDayHours(ranges []TimeRange, data any) DayHours {
	return DayHours{ranges: mergeRanges(ranges), data: data}
}

func mergeRanges(in []TimeRange) []TimeRange {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]TimeRange, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	out := make([]TimeRange, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.start <= cur.end {
			if r.end > cur.end {
				cur.end = r.end
			}
			if !reflect.DeepEqual(cur.data, r.data) {
				cur.data = nil
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	return append(out, cur)
}

func (d DayHours) Data() any { return d.data }

func (d DayHours) IsEmpty() bool { return len(d.ranges) == 0 }

func (d DayHours) Len() int { return len(d.ranges) }

// Ranges returns a copy of the merged ranges in start order.
func (d DayHours) Ranges() []TimeRange {
	if len(d.ranges) == 0 {
		return nil
	}
	out := make([]TimeRange, len(d.ranges))
	copy(out, d.ranges)
	return out
}

// ContainsTime reports whether t is inside one of the day's own ranges.
func (d DayHours) ContainsTime(t Time) bool {
	for _, r := range d.ranges {
		if r.ContainsTime(t) {
			return true
		}
	}
	return false
}

// IsOpenAt is ContainsTime; spill-over from the previous day is resolved by
// Schedule.
func (d DayHours) IsOpenAt(t Time) bool { return d.ContainsTime(t) }

// ContainsNightTime reports whether t on the next day is still covered by a
// range of this day that crossed midnight.
func (d DayHours) ContainsNightTime(t Time) bool {
	for _, r := range d.ranges {
		if r.ContainsNightTime(t) {
			return true
		}
	}
	return false
}

// NextOpenRange returns the first range starting strictly after t.
func (d DayHours) NextOpenRange(t Time) (TimeRange, bool) {
	for _, r := range d.ranges {
		if r.start > t {
			return r, true
		}
	}
	return TimeRange{}, false
}

// NextCloseRange returns the first range ending strictly after t.
func (d DayHours) NextCloseRange(t Time) (TimeRange, bool) {
	for _, r := range d.ranges {
		if r.end > t {
			return r, true
		}
	}
	return TimeRange{}, false
}

// PreviousOpenRange returns the last range starting strictly before t.
func (d DayHours) PreviousOpenRange(t Time) (TimeRange, bool) {
	for i := len(d.ranges) - 1; i >= 0; i-- {
		if d.ranges[i].start < t {
			return d.ranges[i], true
		}
	}
	return TimeRange{}, false
}

// PreviousCloseRange returns the last range ending strictly before t.
func (d DayHours) PreviousCloseRange(t Time) (TimeRange, bool) {
	for i := len(d.ranges) - 1; i >= 0; i-- {
		if d.ranges[i].end < t {
			return d.ranges[i], true
		}
	}
	return TimeRange{}, false
}

func (d DayHours) NextOpen(t Time) (Time, bool) {
	r, ok := d.NextOpenRange(t)
	return r.start, ok
}

func (d DayHours) NextClose(t Time) (Time, bool) {
	r, ok := d.NextCloseRange(t)
	return r.end, ok
}

func (d DayHours) PreviousOpen(t Time) (Time, bool) {
	r, ok := d.PreviousOpenRange(t)
	return r.start, ok
}

func (d DayHours) PreviousClose(t Time) (Time, bool) {
	r, ok := d.PreviousCloseRange(t)
	return r.end, ok
}

// sameHours compares ranges only; data is ignored.
func (d DayHours) sameHours(o DayHours) bool {
	if len(d.ranges) != len(o.ranges) {
		return false
	}
	for i := range d.ranges {
		if d.ranges[i].start != o.ranges[i].start || d.ranges[i].end != o.ranges[i].end {
			return false
		}
	}
	return true
}

func (d DayHours) String() string {
	parts := make([]string, 0, len(d.ranges))
	for _, r := range d.ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ",")
}
