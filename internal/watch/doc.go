// Package watch evaluates an opening-hours schedule on a cron tick and
// publishes opened/closed transitions on the event bus.
//
// The service owns no execution engine: each tick is a single IsOpenAt
// evaluation plus one boundary search for the next transition.
package watch
