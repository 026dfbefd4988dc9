package main

import (
	"fmt"
	"strings"
	"time"

	"openhours/pkg/hours"
)

var localLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseInstant reads RFC3339, or a local date/time in the schedule's input
// location. Empty and "now" mean the current instant.
func parseInstant(raw string, sched *hours.Schedule, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	loc := time.Local
	if sched != nil && sched.Zone().Input != nil {
		loc = sched.Zone().Input
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid instant %q (use RFC3339 or YYYY-MM-DD HH:MM[:SS])", raw)
}
