package config

import (
	"reflect"
	"strings"

	logx "openhours/pkg/logx"
)

// SummarizeConfigChange returns the changed top-level sections and
// structured attrs describing their new values.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 3)
	attrs := make([]logx.Field, 0, 12)

	ol, nl := oldCfg.Logging, newCfg.Logging
	if !strings.EqualFold(strings.TrimSpace(ol.Level), strings.TrimSpace(nl.Level)) ||
		ol.Console != nl.Console ||
		ol.JSON != nl.JSON ||
		ol.File.Enabled != nl.File.Enabled ||
		strings.TrimSpace(ol.File.Path) != strings.TrimSpace(nl.File.Path) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", nl.Level),
			logx.Bool("logging.console", nl.Console),
			logx.Bool("logging.file_enabled", nl.File.Enabled),
		)
	}

	ow, nw := oldCfg.Watch, newCfg.Watch
	if ow.TickSpec() != nw.TickSpec() ||
		strings.TrimSpace(ow.Lookahead) != strings.TrimSpace(nw.Lookahead) ||
		ow.DayLimit != nw.DayLimit {
		changed = append(changed, "watch")
		attrs = append(attrs,
			logx.String("watch.tick", nw.TickSpec()),
			logx.String("watch.lookahead", strings.TrimSpace(nw.Lookahead)),
			logx.Int("watch.day_limit", nw.DayLimit),
		)
	}

	oldSched, newSched := oldCfg.Schedule, newCfg.Schedule
	if !reflect.DeepEqual(oldSched, newSched) {
		changed = append(changed, "schedule")
		attrs = append(attrs,
			logx.Int("schedule.days", len(newSched.Days)),
			logx.Int("schedule.exceptions", len(newSched.Exceptions)),
			logx.String("schedule.timezone", newSched.Timezone.Input),
			logx.Bool("schedule.overflow", newSched.Overflow),
		)
	}

	return changed, attrs
}
