package hours

import (
	"reflect"
	"testing"
	"time"
)

func TestIsOpenAtOvernight(t *testing.T) {
	t.Parallel()
	s := newSchedule(t, mixedWeek())
	tests := []struct {
		at   string
		open bool
	}{
		{at: "2019-07-15 09:59:59", open: false}, // Monday
		{at: "2019-07-15 10:00:00", open: true},
		{at: "2019-07-15 15:59:59", open: true},
		{at: "2019-07-15 16:00:00", open: false},
		{at: "2019-07-16 22:29:00", open: false}, // Tuesday
		{at: "2019-07-16 22:30:00", open: true},
		{at: "2019-07-17 03:59:59", open: true}, // Wednesday, spill from Tuesday
		{at: "2019-07-17 04:00:00", open: false},
		{at: "2019-07-17 07:00:00", open: true},
		{at: "2019-07-20 12:00:00", open: false}, // Saturday
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.at, func(t *testing.T) {
			t.Parallel()
			at := parseAt(t, tt.at)
			if got := s.IsOpenAt(at); got != tt.open {
				t.Fatalf("IsOpenAt(%s) = %v, want %v", tt.at, got, tt.open)
			}
			if got := s.IsClosedAt(at); got == tt.open {
				t.Fatalf("IsClosedAt(%s) = %v", tt.at, got)
			}
		})
	}
}

func TestResolutionPriority(t *testing.T) {
	t.Parallel()
	def := new(Definition).
		Day("monday", "09:00-17:00").
		Exception("12-25").
		Exception("2023-12-25", "10:00-12:00").
		Exception("01-01", "11:00-13:00")
	s := newSchedule(t, def)

	tests := []struct {
		at   string
		want string
	}{
		{at: "2023-12-25 08:00", want: "10:00-12:00"}, // exact beats recurring
		{at: "2028-12-25 08:00", want: ""},            // recurring beats weekday (a Monday)
		{at: "2024-01-01 08:00", want: "11:00-13:00"}, // recurring on a Monday
		{at: "2024-01-08 08:00", want: "09:00-17:00"}, // weekday
	}
	for _, tt := range tests {
		if got := s.ForDate(parseAt(t, tt.at)).String(); got != tt.want {
			t.Fatalf("ForDate(%s) = %q, want %q", tt.at, got, tt.want)
		}
	}
	if !s.IsOpenAt(parseAt(t, "2023-12-25 11:00")) {
		t.Fatal("exact exception hours should apply")
	}
	if s.IsOpenAt(parseAt(t, "2028-12-25 10:00")) {
		t.Fatal("recurring closure should apply")
	}
}

func TestExceptionSpillOver(t *testing.T) {
	t.Parallel()
	def := new(Definition).
		Day("friday", "09:00-17:00").
		Exception("2024-12-31", "20:00-03:00")
	s := newSchedule(t, def)
	if !s.IsOpenAt(parseAt(t, "2025-01-01 02:30")) {
		t.Fatal("night part of an exception should spill into the next day")
	}
	if s.IsOpenAt(parseAt(t, "2025-01-01 03:00")) {
		t.Fatal("spill ends at 03:00")
	}
}

func TestCurrentOpenRange(t *testing.T) {
	t.Parallel()
	s := newSchedule(t, mixedWeek())

	for _, at := range []string{
		"2019-07-15 08:00:00",
		"2019-07-15 17:00:00",
		"2019-07-16 22:00:00",
		"2019-07-17 04:00:00",
	} {
		if r, ok := s.CurrentOpenRange(parseAt(t, at)); ok {
			t.Fatalf("CurrentOpenRange(%s) = %s, want none", at, r.Range)
		}
		if _, ok := s.CurrentOpenRangeStart(parseAt(t, at)); ok {
			t.Fatalf("CurrentOpenRangeStart(%s) should be empty", at)
		}
	}

	tests := []struct {
		at    string
		rng   string
		start string
		end   string
	}{
		{at: "2019-07-15 11:00:00", rng: "10:00-16:00", start: "2019-07-15 10:00:00", end: "2019-07-15 16:00:00"},
		{at: "2019-07-15 20:00:00", rng: "19:30-20:30", start: "2019-07-15 19:30:00", end: "2019-07-15 20:30:00"},
		{at: "2019-07-16 22:30:00", rng: "22:30-04:00", start: "2019-07-16 22:30:00", end: "2019-07-17 04:00:00"},
		{at: "2019-07-16 22:40:00", rng: "22:30-04:00", start: "2019-07-16 22:30:00", end: "2019-07-17 04:00:00"},
		{at: "2019-07-17 03:59:59", rng: "22:30-04:00", start: "2019-07-16 22:30:00", end: "2019-07-17 04:00:00"},
		{at: "2019-07-17 07:59:59", rng: "07:00-10:00", start: "2019-07-17 07:00:00", end: "2019-07-17 10:00:00"},
	}
	for _, tt := range tests {
		at := parseAt(t, tt.at)
		r, ok := s.CurrentOpenRange(at)
		if !ok {
			t.Fatalf("CurrentOpenRange(%s) is empty", tt.at)
		}
		if r.Range.String() != tt.rng {
			t.Fatalf("CurrentOpenRange(%s) = %s, want %s", tt.at, r.Range, tt.rng)
		}
		wantInstant(t, "start", r.Start, tt.start)
		wantInstant(t, "end", r.End, tt.end)

		start, _ := s.CurrentOpenRangeStart(at)
		end, _ := s.CurrentOpenRangeEnd(at)
		wantInstant(t, "CurrentOpenRangeStart", start, tt.start)
		wantInstant(t, "CurrentOpenRangeEnd", end, tt.end)
	}
}

func TestCurrentOpenRangeOverflow(t *testing.T) {
	t.Parallel()
	def := new(Definition).Day("monday", "10:00-16:00", "19:30-02:30")
	def.Overflow = true
	s := newSchedule(t, def)

	if _, ok := s.CurrentOpenRange(parseAt(t, "2020-09-21 18:00")); ok {
		t.Fatal("18:00 should be closed")
	}
	r, ok := s.CurrentOpenRange(parseAt(t, "2020-09-21 22:00"))
	if !ok {
		t.Fatal("22:00 should be open")
	}
	wantInstant(t, "start", r.Start, "2020-09-21 19:30:00")
	wantInstant(t, "end", r.End, "2020-09-22 02:30:00")

	r, ok = s.CurrentOpenRange(parseAt(t, "2020-09-22 01:00"))
	if !ok {
		t.Fatal("01:00 Tuesday should still be open")
	}
	wantInstant(t, "start", r.Start, "2020-09-21 19:30:00")
}

func TestWeekViews(t *testing.T) {
	t.Parallel()
	def := new(Definition).
		Day("monday", "09:00-12:00").
		Day("tuesday", "09:00-12:00").
		Day("wednesday", "10:00-18:00").
		Day("thursday", "09:00-12:00").
		Day("friday", "09:00-12:00")
	s := newSchedule(t, def)

	combined := s.ForWeekCombined()
	if len(combined) != 3 {
		t.Fatalf("combined groups = %d, want 3", len(combined))
	}
	wantDays := []time.Weekday{time.Monday, time.Tuesday, time.Thursday, time.Friday}
	if !reflect.DeepEqual(combined[0].Days, wantDays) {
		t.Fatalf("first group = %v, want %v", combined[0].Days, wantDays)
	}
	if combined[2].Hours.String() != "" || len(combined[2].Days) != 2 {
		t.Fatalf("weekend group = %v %q", combined[2].Days, combined[2].Hours)
	}

	consecutive := s.ForWeekConsecutiveDays()
	if len(consecutive) != 4 {
		t.Fatalf("consecutive groups = %d, want 4", len(consecutive))
	}
	if !reflect.DeepEqual(consecutive[2].Days, []time.Weekday{time.Thursday, time.Friday}) {
		t.Fatalf("third group = %v", consecutive[2].Days)
	}

	if got := s.ForDay(time.Wednesday).String(); got != "10:00-18:00" {
		t.Fatalf("ForDay = %q", got)
	}
}

func TestClosingDays(t *testing.T) {
	t.Parallel()
	def := new(Definition).
		Day("monday to friday", "09:00-18:00").
		Day("saturday").
		Day("sunday").
		Exception("2017-06-02").
		Exception("2017-06-01").
		Exception("2017-06-03", "10:00-12:00").
		Exception("12-25")
	s := newSchedule(t, def)

	if got := s.RegularClosingDays(); !reflect.DeepEqual(got, []time.Weekday{time.Saturday, time.Sunday}) {
		t.Fatalf("RegularClosingDays = %v", got)
	}
	if got := s.RegularClosingDaysISO(); !reflect.DeepEqual(got, []int{6, 7}) {
		t.Fatalf("RegularClosingDaysISO = %v", got)
	}
	got := s.ExceptionalClosingDates()
	if len(got) != 2 || got[0].String() != "2017-06-01" || got[1].String() != "2017-06-02" {
		t.Fatalf("ExceptionalClosingDates = %v", got)
	}
}

func TestIsOpenOn(t *testing.T) {
	t.Parallel()
	def := new(Definition).
		Day("monday", "09:00-18:00").
		Exception("2020-09-03", "09:00-12:00").
		Exception("12-25")
	s := newSchedule(t, def, WithClock(FixedClock(parseAt(t, "2024-06-01 12:00"))))

	tests := []struct {
		key  string
		open bool
	}{
		{key: "monday", open: true},
		{key: "tuesday", open: false},
		{key: "2020-09-03", open: true}, // Thursday with exception hours
		{key: "2020-09-07", open: true}, // Monday
		{key: "2020-09-08", open: false},
		{key: "12-25", open: false},
		{key: "03-04", open: true}, // 2024-03-04 is a Monday
		{key: "03-05", open: false},
	}
	for _, tt := range tests {
		open, err := s.IsOpenOn(tt.key)
		if err != nil {
			t.Fatalf("IsOpenOn(%q) error: %v", tt.key, err)
		}
		if open != tt.open {
			t.Fatalf("IsOpenOn(%q) = %v, want %v", tt.key, open, tt.open)
		}
		closed, _ := s.IsClosedOn(tt.key)
		if closed == tt.open {
			t.Fatalf("IsClosedOn(%q) = %v", tt.key, closed)
		}
	}
	if _, err := s.IsOpenOn("someday"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestIsOpenNow(t *testing.T) {
	t.Parallel()
	def := new(Definition)
	for _, d := range Week {
		def.Day(DayName(d), "00:00-23:59")
	}
	now := parseAt(t, "2024-06-05 12:00")
	s := newSchedule(t, def, WithClock(FixedClock(now)))
	if !s.IsOpen() || s.IsClosed() {
		t.Fatal("expected open now")
	}
	empty := newSchedule(t, new(Definition), WithClock(FixedClock(now)))
	if !empty.IsClosed() {
		t.Fatal("empty schedule should be closed")
	}
}

func TestDayLimit(t *testing.T) {
	t.Parallel()
	s := newSchedule(t, mixedWeek())
	if s.DayLimit() != 8 {
		t.Fatalf("default DayLimit = %d", s.DayLimit())
	}
	withExc := newSchedule(t, mixedWeek().Exception("2022-09-05"))
	if withExc.DayLimit() != 366 {
		t.Fatalf("DayLimit with exceptions = %d", withExc.DayLimit())
	}
	withExc.SetDayLimit(3000)
	if withExc.DayLimit() != 3000 {
		t.Fatalf("DayLimit after SetDayLimit = %d", withExc.DayLimit())
	}
	withExc.SetDayLimit(0)
	if withExc.DayLimit() != 366 {
		t.Fatalf("DayLimit after reset = %d", withExc.DayLimit())
	}
	opt := newSchedule(t, mixedWeek(), WithDayLimit(20))
	if opt.DayLimit() != 20 {
		t.Fatalf("WithDayLimit = %d", opt.DayLimit())
	}
}

func TestEmptyMergedExceptionIsClosed(t *testing.T) {
	t.Parallel()
	def := &Definition{Exceptions: []DayEntry{
		{Key: "01-01", Hours: DayDefinition{Data: map[string]any{"id": "my_id"}}},
		{Key: "02-02", Hours: DayDefinition{Data: map[string]any{"id": "my_id"}}},
	}}
	s := newSchedule(t, def)
	if !s.IsClosedAt(parseAt(t, "2020-01-01")) {
		t.Fatal("empty exception should be closed")
	}
	if s.ForDate(parseAt(t, "2020-01-01")).Data() == nil {
		t.Fatal("day data should be kept")
	}
}
