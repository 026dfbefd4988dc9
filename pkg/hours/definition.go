package hours

import (
	"fmt"
	"time"
)

// Definition is the declarative input of a Schedule. Entries keep their
// source order so that range collisions are reported deterministically.
type Definition struct {
	// Days holds weekday keys: "monday", "monday to friday", "sat-sun"...
	Days []DayEntry
	// Exceptions holds date keys: "2016-11-11", "12-25", "12-24 to 12-26",
	// "2016-11-11-2016-11-14"...
	Exceptions []DayEntry
	Timezone   ZoneDefinition
	Overflow   bool
}

// ZoneDefinition names the input and output locations. Each may be an IANA
// name, a fixed offset like "+13:30", or empty.
type ZoneDefinition struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

type DayEntry struct {
	Key   string
	Hours DayDefinition
}

type DayDefinition struct {
	Ranges []RangeDefinition
	Data   any
}

type RangeDefinition struct {
	Hours string
	Data  any
}

// Hours builds a DayDefinition from "HH:MM-HH:MM" strings.
func Hours(ranges ...string) DayDefinition {
	out := DayDefinition{Ranges: make([]RangeDefinition, 0, len(ranges))}
	for _, r := range ranges {
		out.Ranges = append(out.Ranges, RangeDefinition{Hours: r})
	}
	return out
}

// WithData returns a copy of d carrying day-level data.
func (d DayDefinition) WithData(data any) DayDefinition {
	d.Data = data
	return d
}

// Day appends a weekday entry and returns def for chaining.
func (def *Definition) Day(key string, ranges ...string) *Definition {
	def.Days = append(def.Days, DayEntry{Key: key, Hours: Hours(ranges...)})
	return def
}

// Exception appends a date entry and returns def for chaining.
func (def *Definition) Exception(key string, ranges ...string) *Definition {
	def.Exceptions = append(def.Exceptions, DayEntry{Key: key, Hours: Hours(ranges...)})
	return def
}

func (d DayDefinition) build(overflow bool) (DayHours, error) {
	ranges := make([]TimeRange, 0, len(d.Ranges))
	for _, rd := range d.Ranges {
		r, err := ParseTimeRangeData(rd.Hours, rd.Data, overflow)
		if err != nil {
			return DayHours{}, err
		}
		ranges = append(ranges, r)
	}
	return NewDayHours(ranges, d.Data), nil
}

func buildWeek(entries []DayEntry, overflow bool) ([7]DayHours, error) {
	var week [7]DayHours
	defined := make(map[time.Weekday]bool, 7)
	for _, e := range entries {
		days, err := parseDayKey(e.Key)
		if err != nil {
			return week, err
		}
		for _, d := range days {
			if defined[d] {
				return week, &InvalidDateRangeError{Range: e.Key, Key: DayName(d)}
			}
		}
		dh, err := e.Hours.build(overflow)
		if err != nil {
			return week, fmt.Errorf("%s: %w", e.Key, err)
		}
		for _, d := range days {
			defined[d] = true
			week[d] = dh
		}
	}
	return week, nil
}

// buildExceptions expands date keys. Exact dates and recurring month-days
// live side by side; only keys of the same kind collide.
func buildExceptions(entries []DayEntry, overflow bool) (map[DateKey]DayHours, error) {
	out := make(map[DateKey]DayHours, len(entries))
	for _, e := range entries {
		keys, err := parseDateKeyRange(e.Key)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if _, ok := out[k]; ok {
				return nil, &InvalidDateRangeError{Range: e.Key, Key: k.String()}
			}
		}
		dh, err := e.Hours.build(overflow)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}
		for _, k := range keys {
			out[k] = dh
		}
	}
	return out, nil
}
