package hours

import (
	"testing"
	"time"
)

// parseAt parses "YYYY-MM-DD HH:MM[:SS[.fff]]" in UTC.
func parseAt(t *testing.T, s string) time.Time {
	t.Helper()
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if got, err := time.Parse(layout, s); err == nil {
			return got
		}
	}
	t.Fatalf("bad test instant %q", s)
	return time.Time{}
}

func parseIn(t *testing.T, s, zone string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(zone)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", zone, err)
	}
	got, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		t.Fatalf("bad test instant %q: %v", s, err)
	}
	return got
}

func newSchedule(t *testing.T, def *Definition, opts ...Option) *Schedule {
	t.Helper()
	s, err := New(*def, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func wantInstant(t *testing.T, label string, got time.Time, want string) {
	t.Helper()
	if got.Format("2006-01-02 15:04:05") != want {
		t.Fatalf("%s = %s, want %s", label, got.Format("2006-01-02 15:04:05.999999999"), want)
	}
}

// consecutiveWeek has open periods that run across midnight on
// Monday-Wednesday and a lone early range on Friday.
func consecutiveWeek() *Definition {
	return new(Definition).
		Day("monday", "09:00-24:00").
		Day("tuesday", "00:00-24:00").
		Day("wednesday", "00:00-03:00", "09:00-24:00").
		Day("friday", "00:00-03:00")
}

// mixedWeek has split days, an overnight Tuesday and a closed weekend.
func mixedWeek() *Definition {
	return new(Definition).
		Day("monday", "10:00-16:00", "19:30-20:30").
		Day("tuesday", "22:30-04:00").
		Day("wednesday", "07:00-10:00").
		Day("thursday", "09:00-12:00").
		Day("friday", "09:00-12:00").
		Day("saturday").
		Day("sunday")
}

func alwaysOpen() *Definition {
	def := new(Definition)
	for _, d := range Week {
		def.Day(DayName(d), "00:00-24:00")
	}
	return def
}
