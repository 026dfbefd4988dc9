package hours

import (
	"sort"
	"time"
)

const (
	defaultDayLimit          = 8
	defaultDayLimitException = 366
)

// Schedule is a weekly schedule plus date exceptions, anchored in a Zone.
//
// Everything except the day-search-limit is fixed at construction.
type Schedule struct {
	week       [7]DayHours
	exceptions map[DateKey]DayHours
	zone       Zone
	overflow   bool
	dayLimit   int
	clock      Clock
}

type options struct {
	clock    Clock
	loader   LocationLoader
	dayLimit int
}

// Option configures New.
type Option func(*options)

// WithClock sets the clock used by IsOpen, IsClosed and IsOpenOn.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLocationLoader replaces time.LoadLocation for timezone names.
func WithLocationLoader(l LocationLoader) Option {
	return func(o *options) { o.loader = l }
}

// WithDayLimit sets the initial day-search-limit.
func WithDayLimit(n int) Option {
	return func(o *options) { o.dayLimit = n }
}

// New validates def and builds a Schedule. On error nothing is returned.
func New(def Definition, opts ...Option) (*Schedule, error) {
	o := options{clock: SystemClock()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.clock == nil {
		o.clock = SystemClock()
	}

	zone, err := newZone(def.Timezone, o.loader)
	if err != nil {
		return nil, err
	}
	week, err := buildWeek(def.Days, def.Overflow)
	if err != nil {
		return nil, err
	}
	exceptions, err := buildExceptions(def.Exceptions, def.Overflow)
	if err != nil {
		return nil, err
	}
	return &Schedule{
		week:       week,
		exceptions: exceptions,
		zone:       zone,
		overflow:   def.Overflow,
		dayLimit:   o.dayLimit,
		clock:      o.clock,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(def Definition, opts ...Option) *Schedule {
	s, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate reports the first error New would return for def.
func Validate(def Definition) error {
	_, err := New(def)
	return err
}

func IsValid(def Definition) bool { return Validate(def) == nil }

// SetDayLimit overrides the number of calendar days a boundary search may
// walk. A value <= 0 restores the default. Not safe to call concurrently
// with searches.
func (s *Schedule) SetDayLimit(n int) { s.dayLimit = n }

// DayLimit returns the effective day-search-limit: the explicit value if
// set, 366 when exceptions exist, 8 otherwise.
func (s *Schedule) DayLimit() int {
	if s.dayLimit > 0 {
		return s.dayLimit
	}
	if len(s.exceptions) > 0 {
		return defaultDayLimitException
	}
	return defaultDayLimit
}

func (s *Schedule) Zone() Zone     { return s.zone }
func (s *Schedule) Overflow() bool { return s.overflow }

// ForWeek returns the weekly hours indexed by time.Weekday. Iterate Week
// for Monday-first order.
func (s *Schedule) ForWeek() [7]DayHours { return s.week }

func (s *Schedule) ForDay(d time.Weekday) DayHours { return s.week[d] }

// ForDate resolves the hours of t's calendar date in the input zone.
func (s *Schedule) ForDate(t time.Time) DayHours {
	return s.forDate(dateOf(s.zone.project(t)))
}

// Exceptions returns a copy of the expanded exceptions.
func (s *Schedule) Exceptions() map[DateKey]DayHours {
	out := make(map[DateKey]DayHours, len(s.exceptions))
	for k, v := range s.exceptions {
		out[k] = v
	}
	return out
}

// HasExceptions reports whether any exception is defined.
func (s *Schedule) HasExceptions() bool { return len(s.exceptions) > 0 }

// WeekGroup is a set of weekdays sharing identical hours.
type WeekGroup struct {
	Days  []time.Weekday
	Hours DayHours
}

// ForWeekCombined groups weekdays with identical ranges, in order of the
// first day of each group.
func (s *Schedule) ForWeekCombined() []WeekGroup {
	var out []WeekGroup
next:
	for _, d := range Week {
		for i := range out {
			if out[i].Hours.sameHours(s.week[d]) {
				out[i].Days = append(out[i].Days, d)
				continue next
			}
		}
		out = append(out, WeekGroup{Days: []time.Weekday{d}, Hours: s.week[d]})
	}
	return out
}

// ForWeekConsecutiveDays groups only adjacent weekdays with identical ranges.
func (s *Schedule) ForWeekConsecutiveDays() []WeekGroup {
	var out []WeekGroup
	for _, d := range Week {
		if n := len(out); n > 0 && out[n-1].Hours.sameHours(s.week[d]) {
			out[n-1].Days = append(out[n-1].Days, d)
			continue
		}
		out = append(out, WeekGroup{Days: []time.Weekday{d}, Hours: s.week[d]})
	}
	return out
}

// IsOpenOn reports whether the given day has any opening hours. key is a
// weekday name, "YYYY-MM-DD", or "MM-DD". A month-day without a recurring
// exception is read as that date in the clock's current year.
func (s *Schedule) IsOpenOn(key string) (bool, error) {
	if isDayName(key) {
		d, err := ParseDay(key)
		if err != nil {
			return false, err
		}
		return !s.week[d].IsEmpty(), nil
	}
	k, err := ParseDateKey(key)
	if err != nil {
		return false, err
	}
	if k.Recurring() {
		if dh, ok := s.exceptions[k]; ok {
			return !dh.IsEmpty(), nil
		}
		k.Year = s.zone.project(s.clock.Now()).Year()
		if !k.valid() {
			return false, nil
		}
	}
	return !s.forDate(dateOfKey(k)).IsEmpty(), nil
}

func (s *Schedule) IsClosedOn(key string) (bool, error) {
	open, err := s.IsOpenOn(key)
	return !open, err
}

// RegularClosingDays lists weekdays without hours, Monday first.
func (s *Schedule) RegularClosingDays() []time.Weekday {
	var out []time.Weekday
	for _, d := range Week {
		if s.week[d].IsEmpty() {
			out = append(out, d)
		}
	}
	return out
}

// RegularClosingDaysISO is RegularClosingDays numbered 1 (Monday) to 7.
func (s *Schedule) RegularClosingDaysISO() []int {
	days := s.RegularClosingDays()
	out := make([]int, 0, len(days))
	for _, d := range days {
		out = append(out, ISODay(d))
	}
	return out
}

// ExceptionalClosingDates lists exact-date exceptions without hours,
// oldest first.
func (s *Schedule) ExceptionalClosingDates() []DateKey {
	var out []DateKey
	for k, dh := range s.exceptions {
		if !k.Recurring() && dh.IsEmpty() {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// IsOpen reports the state at the clock's current instant.
func (s *Schedule) IsOpen() bool { return s.IsOpenAt(s.clock.Now()) }

func (s *Schedule) IsClosed() bool { return !s.IsOpen() }

// Now returns the clock's current instant.
func (s *Schedule) Now() time.Time { return s.clock.Now() }
