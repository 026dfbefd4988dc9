package config

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTick = "@every 1m"

// ParseDurationField parses a non-negative Go duration. Empty means zero.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// LookaheadDuration returns watch.lookahead; zero means searches are uncapped.
func (w WatchConfig) LookaheadDuration() (time.Duration, error) {
	return ParseDurationField("watch.lookahead", w.Lookahead)
}

// TickSpec returns watch.tick or DefaultTick.
func (w WatchConfig) TickSpec() string {
	if s := strings.TrimSpace(w.Tick); s != "" {
		return s
	}
	return DefaultTick
}
