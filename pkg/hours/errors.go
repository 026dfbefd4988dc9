package hours

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidRange    = errors.New("invalid time range")
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTimezone = errors.New("invalid timezone")

	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrMaximumLimitExceeded = errors.New("maximum limit exceeded")
	ErrSearchLimitReached   = errors.New("search limit reached")
)

// InvalidDateRangeError is returned when an expanded weekday or date range
// would overwrite a key that is already defined.
type InvalidDateRangeError struct {
	Range string // the key being recorded, e.g. "tuesday to friday"
	Key   string // the already-defined key it collides with
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("unable to record `%s` as it would override `%s`", e.Range, e.Key)
}

func (e *InvalidDateRangeError) Is(target error) bool { return target == ErrInvalidDateRange }

// MaximumLimitExceededError is returned when a boundary search walked more
// calendar days than the schedule's day-search-limit allows.
//
// Raise the limit with Schedule.SetDayLimit and retry.
type MaximumLimitExceededError struct {
	Direction Direction
	Boundary  Boundary
	Limit     int
}

func (e *MaximumLimitExceededError) Error() string {
	return fmt.Sprintf(
		"no %s date/time found in the %s %d days, use SetDayLimit to increase the limit",
		e.Boundary, e.Direction, e.Limit,
	)
}

func (e *MaximumLimitExceededError) Is(target error) bool { return target == ErrMaximumLimitExceeded }

// SearchLimitReachedError is returned when a search passed the caller-supplied
// limit instant (WithSearchLimit) without finding a transition.
type SearchLimitReachedError struct {
	Limit time.Time
}

func (e *SearchLimitReachedError) Error() string {
	return "search reached the limit: " + e.Limit.Format("2006-01-02 15:04:05.000000 MST")
}

func (e *SearchLimitReachedError) Is(target error) bool { return target == ErrSearchLimitReached }
