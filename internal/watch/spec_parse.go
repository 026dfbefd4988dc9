package watch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// TickKind describes the normalized kind of a tick string.
type TickKind int

const (
	TickCron TickKind = iota
	TickInterval
)

// ParsedTick is a parsed tick string.
//
// Supported forms:
//   - Cron: "*/5 * * * *", "0 */1 * * * *" (seconds optional), "@hourly", "@every 30s"
//   - Interval duration: "30s", "1m30s"
//   - Interval HH:MM: "00:05" (5 minutes), "01:00" (1 hour)
//
// Optional prefixes:
//   - "cron:" forces cron parsing
//   - "interval:" or "every:" forces interval parsing
type ParsedTick struct {
	Kind   TickKind
	Cron   string
	Every  time.Duration
	Source string // "cron" | "duration" | "hhmm"
}

// Spec returns the expression registered with cron.
func (p ParsedTick) Spec() string {
	if p.Kind == TickInterval {
		return "@every " + p.Every.String()
	}
	return p.Cron
}

// SecondOptional allows both 5-field and 6-field (with seconds) cron specs.
var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

// ParseTick parses a tick string into a cron expression or an interval.
// Cron expressions are validated with the same parser the service uses.
func ParseTick(raw string) (ParsedTick, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedTick{}, fmt.Errorf("tick required")
	}

	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "cron:"):
		return parseCron(strings.TrimSpace(s[len("cron:"):]))
	case strings.HasPrefix(low, "interval:"):
		return parseInterval(s[len("interval:"):])
	case strings.HasPrefix(low, "every:"):
		return parseInterval(s[len("every:"):])
	}

	// whitespace or a leading '@' means cron
	if strings.ContainsAny(s, " \t\n\r") || strings.HasPrefix(s, "@") {
		return parseCron(s)
	}
	if p, err := parseInterval(s); err == nil {
		return p, nil
	}
	return ParsedTick{}, fmt.Errorf(
		"invalid tick %q (use cron like '*/5 * * * *', HH:MM like '00:05', or duration like '30s')",
		raw,
	)
}

func parseCron(expr string) (ParsedTick, error) {
	if expr == "" {
		return ParsedTick{}, fmt.Errorf("cron expression required")
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return ParsedTick{}, fmt.Errorf("invalid cron %q: %w", expr, err)
	}
	return ParsedTick{Kind: TickCron, Cron: expr, Source: "cron"}, nil
}

func parseInterval(v string) (ParsedTick, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return ParsedTick{}, fmt.Errorf("interval required")
	}
	src := "duration"
	var d time.Duration
	if m := reHHMM.FindStringSubmatch(v); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return ParsedTick{}, fmt.Errorf("invalid minutes in %q", v)
		}
		d = time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
		src = "hhmm"
	} else {
		var err error
		if d, err = time.ParseDuration(v); err != nil {
			return ParsedTick{}, fmt.Errorf("invalid interval %q (use HH:MM or Go duration like '30s'/'1m30s')", v)
		}
	}
	if d <= 0 {
		return ParsedTick{}, fmt.Errorf("interval must be > 0")
	}
	return ParsedTick{Kind: TickInterval, Every: d, Source: src}, nil
}
