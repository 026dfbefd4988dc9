package hours

import "time"

// resolver yields the effective hours of a calendar date. The search engine
// only depends on this.
type resolver interface {
	forDate(d date) DayHours
}

// forDate applies the priority order: exact date, recurring month-day,
// then weekday.
func (s *Schedule) forDate(d date) DayHours {
	if len(s.exceptions) > 0 {
		if dh, ok := s.exceptions[d.key(false)]; ok {
			return dh
		}
		if dh, ok := s.exceptions[d.key(true)]; ok {
			return dh
		}
	}
	return s.week[d.weekday()]
}

// IsOpenAt reports whether t falls inside an open range, including a range
// that started the day before and crossed midnight.
func (s *Schedule) IsOpenAt(t time.Time) bool {
	return openAt(s, s.zone.project(t))
}

// openAt reads the wall clock of local, already in the input location.
func openAt(res resolver, local time.Time) bool {
	d := dateOf(local)
	m := TimeFromClock(ClockOf(local))
	if res.forDate(d).ContainsTime(m) {
		return true
	}
	return res.forDate(d.addDays(-1)).ContainsNightTime(m)
}

func (s *Schedule) IsClosedAt(t time.Time) bool { return !s.IsOpenAt(t) }

// OpenRange is a range resolved to absolute instants.
type OpenRange struct {
	Range TimeRange
	Start time.Time
	End   time.Time
}

// CurrentOpenRange returns the range t falls in. A range carried over from
// the previous day starts on that day.
func (s *Schedule) CurrentOpenRange(t time.Time) (OpenRange, bool) {
	local := s.zone.project(t)
	loc := local.Location()
	d := dateOf(local)
	m := TimeFromClock(ClockOf(local))

	for _, r := range s.forDate(d).ranges {
		if r.ContainsTime(m) {
			return s.openRange(r, d, loc, t.Location()), true
		}
	}
	prev := d.addDays(-1)
	for _, r := range s.forDate(prev).ranges {
		if r.ContainsNightTime(m) {
			return s.openRange(r, prev, loc, t.Location()), true
		}
	}
	return OpenRange{}, false
}

func (s *Schedule) openRange(r TimeRange, d date, loc, callerLoc *time.Location) OpenRange {
	return OpenRange{
		Range: r,
		Start: s.zone.result(d.at(r.start, loc), callerLoc),
		End:   s.zone.result(d.at(r.end, loc), callerLoc),
	}
}

func (s *Schedule) CurrentOpenRangeStart(t time.Time) (time.Time, bool) {
	r, ok := s.CurrentOpenRange(t)
	return r.Start, ok
}

func (s *Schedule) CurrentOpenRangeEnd(t time.Time) (time.Time, bool) {
	r, ok := s.CurrentOpenRange(t)
	return r.End, ok
}
