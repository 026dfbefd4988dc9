package hours

import "time"

// DiffInOpen returns how long the schedule is open between from and to.
// The result is negative when to is before from.
func (s *Schedule) DiffInOpen(from, to time.Time) (time.Duration, error) {
	if to.Before(from) {
		d, err := s.DiffInOpen(to, from)
		return -d, err
	}
	var total time.Duration
	cur := from
	for cur.Before(to) {
		if s.IsOpenAt(cur) {
			next, err := s.NextClose(cur, WithCap(to))
			if err != nil {
				return 0, err
			}
			if !next.After(cur) {
				break
			}
			total += next.Sub(cur)
			cur = next
			continue
		}
		next, err := s.NextOpen(cur, WithCap(to))
		if err != nil {
			return 0, err
		}
		if !next.After(cur) {
			break
		}
		cur = next
	}
	return total, nil
}

// DiffInClosed returns how long the schedule is closed between from and to.
// The result is negative when to is before from.
func (s *Schedule) DiffInClosed(from, to time.Time) (time.Duration, error) {
	open, err := s.DiffInOpen(from, to)
	if err != nil {
		return 0, err
	}
	return to.Sub(from) - open, nil
}

func (s *Schedule) DiffInOpenSeconds(from, to time.Time) (float64, error) {
	d, err := s.DiffInOpen(from, to)
	return d.Seconds(), err
}

func (s *Schedule) DiffInOpenMinutes(from, to time.Time) (float64, error) {
	d, err := s.DiffInOpen(from, to)
	return d.Minutes(), err
}

func (s *Schedule) DiffInOpenHours(from, to time.Time) (float64, error) {
	d, err := s.DiffInOpen(from, to)
	return d.Hours(), err
}

func (s *Schedule) DiffInClosedSeconds(from, to time.Time) (float64, error) {
	d, err := s.DiffInClosed(from, to)
	return d.Seconds(), err
}

func (s *Schedule) DiffInClosedMinutes(from, to time.Time) (float64, error) {
	d, err := s.DiffInClosed(from, to)
	return d.Minutes(), err
}

func (s *Schedule) DiffInClosedHours(from, to time.Time) (float64, error) {
	d, err := s.DiffInClosed(from, to)
	return d.Hours(), err
}
