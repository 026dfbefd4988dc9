package hours

import (
	"sort"
	"time"
)

// Direction of a boundary search.
type Direction int

const (
	DirectionNext Direction = iota
	DirectionPrevious
)

func (d Direction) String() string {
	if d == DirectionPrevious {
		return "previous"
	}
	return "next"
}

// Boundary is the kind of state transition searched for: Open is
// closed→open, Close is open→closed.
type Boundary int

const (
	BoundaryOpen Boundary = iota
	BoundaryClose
)

func (b Boundary) String() string {
	if b == BoundaryClose {
		return "close"
	}
	return "open"
}

type searchOptions struct {
	limit time.Time
	cap   time.Time
}

// SearchOption bounds a single search.
type SearchOption func(*searchOptions)

// WithSearchLimit fails the search with *SearchLimitReachedError once it
// passes t.
func WithSearchLimit(t time.Time) SearchOption {
	return func(o *searchOptions) { o.limit = t }
}

// WithCap stops the search at t and returns t instead of failing. A cap
// overrides both the search limit and the day-search-limit.
func WithCap(t time.Time) SearchOption {
	return func(o *searchOptions) { o.cap = t }
}

func (s *Schedule) NextOpen(from time.Time, opts ...SearchOption) (time.Time, error) {
	return s.Search(DirectionNext, BoundaryOpen, from, opts...)
}

func (s *Schedule) NextClose(from time.Time, opts ...SearchOption) (time.Time, error) {
	return s.Search(DirectionNext, BoundaryClose, from, opts...)
}

func (s *Schedule) PreviousOpen(from time.Time, opts ...SearchOption) (time.Time, error) {
	return s.Search(DirectionPrevious, BoundaryOpen, from, opts...)
}

func (s *Schedule) PreviousClose(from time.Time, opts ...SearchOption) (time.Time, error) {
	return s.Search(DirectionPrevious, BoundaryClose, from, opts...)
}

// Search finds the nearest transition of the given kind strictly after
// (DirectionNext) or strictly before (DirectionPrevious) from.
func (s *Schedule) Search(dir Direction, kind Boundary, from time.Time, opts ...SearchOption) (time.Time, error) {
	var o searchOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	sr := searcher{
		res:      s,
		kind:     kind,
		dayLimit: s.DayLimit(),
		limit:    o.limit,
		cap:      o.cap,
	}
	var (
		t   time.Time
		err error
	)
	local := s.zone.project(from)
	if dir == DirectionPrevious {
		t, err = sr.backward(local)
	} else {
		t, err = sr.forward(local)
	}
	if err != nil {
		return time.Time{}, err
	}
	return s.zone.result(t, from.Location()), nil
}

type searcher struct {
	res      resolver
	kind     Boundary
	dayLimit int
	limit    time.Time
	cap      time.Time
}

func (sr searcher) forward(local time.Time) (time.Time, error) {
	loc := local.Location()
	day := dateOf(local)
	first := true
	for walked := 0; ; walked++ {
		if !first {
			start := day.at(0, loc)
			if !sr.cap.IsZero() && start.After(sr.cap) {
				return sr.cap, nil
			}
			if !sr.limit.IsZero() && start.After(sr.limit) {
				return time.Time{}, &SearchLimitReachedError{Limit: sr.limit}
			}
			if sr.cap.IsZero() && walked > sr.dayLimit {
				return time.Time{}, sr.exceeded(DirectionNext)
			}
		}
		for _, b := range sr.boundaries(day) {
			cs, shifted := day.instants(b, loc)
			for _, c := range cs {
				if !c.After(local) || (shifted && !sr.transitionAt(c)) {
					continue
				}
				return sr.clamp(c, func(t, bound time.Time) bool { return t.After(bound) })
			}
		}
		first = false
		day = day.addDays(1)
	}
}

func (sr searcher) backward(local time.Time) (time.Time, error) {
	loc := local.Location()
	day := dateOf(local)
	first := true
	for walked := 0; ; walked++ {
		if !first {
			end := day.addDays(1).at(0, loc)
			if !sr.cap.IsZero() && !end.After(sr.cap) {
				return sr.cap, nil
			}
			if !sr.limit.IsZero() && !end.After(sr.limit) {
				return time.Time{}, &SearchLimitReachedError{Limit: sr.limit}
			}
			if sr.cap.IsZero() && walked > sr.dayLimit {
				return time.Time{}, sr.exceeded(DirectionPrevious)
			}
		}
		bs := sr.boundaries(day)
		for i := len(bs) - 1; i >= 0; i-- {
			cs, shifted := day.instants(bs[i], loc)
			for j := len(cs) - 1; j >= 0; j-- {
				c := cs[j]
				if !c.Before(local) || (shifted && !sr.transitionAt(c)) {
					continue
				}
				return sr.clamp(c, func(t, bound time.Time) bool { return t.Before(bound) })
			}
		}
		first = false
		day = day.addDays(-1)
	}
}

// clamp applies the cap and the search limit to a found transition.
// beyond reports whether t lies past bound in the search direction.
func (sr searcher) clamp(t time.Time, beyond func(t, bound time.Time) bool) (time.Time, error) {
	if !sr.cap.IsZero() && beyond(t, sr.cap) {
		return sr.cap, nil
	}
	if !sr.limit.IsZero() && beyond(t, sr.limit) {
		return time.Time{}, &SearchLimitReachedError{Limit: sr.limit}
	}
	return t, nil
}

// transitionAt checks a boundary moved by a clock change: the state must
// actually flip at c.
func (sr searcher) transitionAt(c time.Time) bool {
	open := openAt(sr.res, c)
	before := openAt(sr.res, c.Add(-time.Nanosecond))
	if sr.kind == BoundaryClose {
		return !open && before
	}
	return open && !before
}

func (sr searcher) exceeded(dir Direction) error {
	return &MaximumLimitExceededError{Direction: dir, Boundary: sr.kind, Limit: sr.dayLimit}
}

func (sr searcher) boundaries(d date) []Time {
	cur := sr.res.forDate(d)
	prev := sr.res.forDate(d.addDays(-1))
	if sr.kind == BoundaryClose {
		return closeBoundaries(cur, prev)
	}
	return openBoundaries(cur, prev)
}

// openBoundaries lists the times of day d where the state turns open, given
// d's hours and the hours of the day before. A range start that continues
// an open period is not a transition.
func openBoundaries(cur, prev DayHours) []Time {
	var out []Time
	for _, r := range cur.ranges {
		if !coveredBefore(cur, prev, r.start) {
			out = append(out, r.start)
		}
	}
	return out
}

// closeBoundaries lists the times of day d where the state turns closed.
// Ends at or past 24:00 are reported on the following day.
func closeBoundaries(cur, prev DayHours) []Time {
	var out []Time
	for _, r := range prev.ranges {
		if r.end >= EndOfDay {
			if b := r.end - EndOfDay; !coveredAt(cur, prev, b) {
				out = append(out, b)
			}
		}
	}
	for _, r := range cur.ranges {
		if r.end < EndOfDay && !coveredAt(cur, prev, r.end) {
			out = append(out, r.end)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// coveredAt reports whether minute b of the day is open.
func coveredAt(cur, prev DayHours, b Time) bool {
	return cur.ContainsTime(b) || prev.ContainsNightTime(b)
}

// coveredBefore reports whether the instant just before minute b of the day
// is open.
func coveredBefore(cur, prev DayHours, b Time) bool {
	if b == 0 {
		for _, r := range prev.ranges {
			if r.end >= EndOfDay {
				return true
			}
		}
		return false
	}
	for _, r := range cur.ranges {
		if r.start < b && b <= r.end {
			return true
		}
	}
	for _, r := range prev.ranges {
		if r.end > EndOfDay && b <= r.end-EndOfDay {
			return true
		}
	}
	return false
}
