package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"openhours/pkg/hours"
)

const yamlConfig = `
logging:
  level: debug
  console: true
watch:
  tick: "@every 30s"
  lookahead: 168h
  day_limit: 30
schedule:
  timezone: UTC
  monday to friday: ["09:00-12:00", "13:00-18:00"]
  saturday:
    hours: ["10:00-14:00"]
    data: short day
  sunday: ~
  exceptions:
    2016-11-11: []
    12-25:
      - hours: "10:00-12:00"
        data: {staff: 2}
`

const jsoncConfig = `{
  // comments are allowed
  "logging": {"level": "info", "console": true},
  "schedule": {
    "timezone": {"input": "Europe/Amsterdam", "output": "UTC"},
    "overflow": true,
    "friday": ["20:00-03:00"], /* overnight */
    "monday": "09:00-17:00",
  },
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfigManager(writeFile(t, "openhours.yaml", yamlConfig)).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Watch.TickSpec() != "@every 30s" || cfg.Watch.DayLimit != 30 {
		t.Fatalf("watch = %+v", cfg.Watch)
	}
	if d, err := cfg.Watch.LookaheadDuration(); err != nil || d != 168*time.Hour {
		t.Fatalf("lookahead = %v, %v", d, err)
	}

	def := cfg.Schedule
	keys := make([]string, 0, len(def.Days))
	for _, e := range def.Days {
		keys = append(keys, e.Key)
	}
	if want := []string{"monday to friday", "saturday", "sunday"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("day keys = %v, want %v (source order)", keys, want)
	}
	if got := def.Days[1].Hours.Data; got != "short day" {
		t.Fatalf("saturday data = %v", got)
	}
	if len(def.Days[2].Hours.Ranges) != 0 {
		t.Fatalf("sunday should be closed: %+v", def.Days[2])
	}
	if len(def.Exceptions) != 2 || def.Exceptions[0].Key != "2016-11-11" || def.Exceptions[1].Key != "12-25" {
		t.Fatalf("exceptions = %+v", def.Exceptions)
	}
	rd := def.Exceptions[1].Hours.Ranges[0]
	if rd.Hours != "10:00-12:00" || !reflect.DeepEqual(rd.Data, map[string]any{"staff": 2}) {
		t.Fatalf("12-25 range = %+v", rd)
	}

	s, err := cfg.BuildSchedule()
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if s.DayLimit() != 30 {
		t.Fatalf("DayLimit = %d", s.DayLimit())
	}
	at := time.Date(2016, 11, 10, 10, 0, 0, 0, time.UTC) // Thursday
	if !s.IsOpenAt(at) || s.IsOpenAt(at.AddDate(0, 0, 1)) {
		t.Fatal("thursday open, 2016-11-11 closed by exception")
	}
}

func TestParseJSONC(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfigManager(writeFile(t, "openhours.jsonc", jsoncConfig)).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := cfg.Schedule
	if def.Timezone != (hours.ZoneDefinition{Input: "Europe/Amsterdam", Output: "UTC"}) {
		t.Fatalf("timezone = %+v", def.Timezone)
	}
	if !def.Overflow {
		t.Fatal("overflow should be set")
	}
	if len(def.Days) != 2 || def.Days[0].Key != "friday" || def.Days[1].Hours.Ranges[0].Hours != "09:00-17:00" {
		t.Fatalf("days = %+v", def.Days)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		body string
		want string
		is   error
	}{
		{name: "unknown section", file: "c.yaml", body: "bogus: 1\n", want: "unknown field"},
		{name: "unknown watch field", file: "c.json", body: `{"watch": {"interval": "1m"}}`, want: "unknown field"},
		{name: "unterminated json", file: "c.json", body: `{"logging": `},
		{name: "unknown day field", file: "c.yaml", body: "schedule:\n  monday: {open: x}\n", want: "unknown field"},
		{name: "bad timezone", file: "c.yaml", body: "schedule:\n  timezone: [1]\n", is: hours.ErrInvalidTimezone},
		{name: "nested timezone input", file: "c.yaml", body: "schedule:\n  timezone: {input: {a: b}}\n", is: hours.ErrInvalidTimezone},
		{name: "top level list", file: "c.yaml", body: "- a\n", want: "mapping"},
		{name: "unknown log level", file: "c.yaml", body: "logging: {level: loud}\n", want: "unknown log level"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewConfigManager(writeFile(t, tt.file, tt.body)).Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("err = %v, want %v", err, tt.is)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestBuildScheduleRejectsCollision(t *testing.T) {
	t.Parallel()

	body := "schedule:\n  monday to wednesday: [\"09:00-17:00\"]\n  tuesday: [\"10:00-11:00\"]\n"
	cfg, err := NewConfigManager(writeFile(t, "c.yaml", body)).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cfg.BuildSchedule(); !errors.Is(err, hours.ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestReloadSkipsUnchangedAndRejected(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "c.yaml", "schedule:\n  monday: [\"09:00-17:00\"]\n")
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)
	ctx := context.Background()

	if m.reload(ctx) {
		t.Fatal("identical bytes should not publish")
	}

	m.SetValidator(func(_ context.Context, cfg *Config) error {
		_, err := cfg.BuildSchedule()
		return err
	})
	if err := os.WriteFile(path, []byte("schedule:\n  monday: [\"25:00-26:00\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if m.reload(ctx) {
		t.Fatal("invalid schedule should be rejected")
	}

	if err := os.WriteFile(path, []byte("schedule:\n  tuesday: [\"09:00-17:00\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !m.reload(ctx) {
		t.Fatal("valid change should publish")
	}
	got := <-ch
	if got != m.Get() || got.Schedule.Days[0].Key != "tuesday" {
		t.Fatalf("published %+v", got)
	}
}

func TestPublishKeepsNewest(t *testing.T) {
	t.Parallel()

	m := NewConfigManager("unused")
	ch := m.Subscribe(1)
	a, b := &Config{}, &Config{}
	m.publish(a)
	m.publish(b)
	if got := <-ch; got != b {
		t.Fatal("slow subscriber should receive the newest config")
	}
	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
}

func TestWatchPublishesEdits(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "c.yaml", "logging: {level: info}\n")
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = m.Watch(ctx)
		close(done)
	}()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("logging: {level: debug}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-ch:
		if cfg.Logging.Level != "debug" {
			t.Fatalf("level = %q", cfg.Logging.Level)
		}
	case <-ctx.Done():
		t.Fatal("no reload published")
	}
	cancel()
	<-done
}

func TestSummarizeConfigChange(t *testing.T) {
	t.Parallel()

	oldCfg := &Config{Logging: LoggingConfig{Level: "info"}}
	newCfg := &Config{Logging: LoggingConfig{Level: "INFO"}, Watch: WatchConfig{Tick: "@every 5m"}}
	newCfg.Schedule.Day("monday", "09:00-17:00")

	changed, attrs := SummarizeConfigChange(oldCfg, newCfg)
	if want := []string{"watch", "schedule"}; !reflect.DeepEqual(changed, want) {
		t.Fatalf("changed = %v, want %v", changed, want)
	}
	if len(attrs) == 0 {
		t.Fatal("attrs should describe the change")
	}
	if changed, _ := SummarizeConfigChange(nil, &Config{}); len(changed) != 0 {
		t.Fatalf("nil vs empty should not differ: %v", changed)
	}
}
