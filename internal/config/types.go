package config

import (
	"openhours/pkg/hours"
	logx "openhours/pkg/logx"
)

// Config is the parsed configuration file.
//
// Example (YAML):
//
//	logging:
//	  level: info
//	  console: true
//	watch:
//	  tick: "@every 1m"
//	  lookahead: 168h
//	schedule:
//	  timezone: Europe/Amsterdam
//	  monday to friday: ["09:00-12:00", "13:00-18:00"]
//	  saturday: ["10:00-14:00"]
//	  exceptions:
//	    12-25: []
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Watch   WatchConfig   `json:"watch"`

	// Schedule is decoded from the "schedule" section in source order.
	Schedule hours.Definition `json:"-"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	JSON    bool        `json:"json,omitempty"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// WatchConfig controls the long-running evaluator.
//
// Defaults (when fields are omitted/zero):
//   - tick: "@every 1m"
//   - lookahead: "0s" (no cap; the schedule's day-search-limit applies)
//   - day_limit: 0 (schedule default)
type WatchConfig struct {
	// Tick is a cron expression, "@every <duration>", "HH:MM" interval, or Go duration.
	Tick string `json:"tick,omitempty"`
	// Lookahead caps transition searches (Go duration string, e.g. "168h").
	Lookahead string `json:"lookahead,omitempty"`
	DayLimit  int    `json:"day_limit,omitempty"`
}

// LogxConfig maps the logging section onto the logx service config.
func (l LoggingConfig) LogxConfig() logx.Config {
	return logx.Config{
		Level:   l.Level,
		Console: l.Console,
		JSON:    l.JSON,
		File:    logx.FileConfig{Enabled: l.File.Enabled, Path: l.File.Path},
	}
}

// BuildSchedule validates the schedule section and builds it.
func (c *Config) BuildSchedule(opts ...hours.Option) (*hours.Schedule, error) {
	if c == nil {
		return hours.New(hours.Definition{}, opts...)
	}
	if c.Watch.DayLimit > 0 {
		opts = append([]hours.Option{hours.WithDayLimit(c.Watch.DayLimit)}, opts...)
	}
	return hours.New(c.Schedule, opts...)
}
