// Package hours answers open/closed questions for a recurring weekly schedule
// with date-based exceptions.
//
// A Schedule is built once from a Definition and is then read-only:
//   - IsOpenAt / IsClosedAt report the state at an instant
//   - NextOpen / NextClose / PreviousOpen / PreviousClose find the nearest
//     state transition, bounded by a day-search-limit
//   - DiffInOpen / DiffInClosed integrate open or closed time between two instants
//
// Resolution priority for a calendar date is: exact-date exception, then a
// recurring month-day exception, then the weekday entry.
//
// Overnight ranges ("22:30-04:00") stay on the day they start on. Every lookup
// checks both the day itself and the spill-over from the day before.
//
// The package performs no I/O and does not log. A Schedule is safe for
// concurrent readers as long as SetDayLimit is not called at the same time.
package hours
