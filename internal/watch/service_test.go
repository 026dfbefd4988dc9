package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"openhours/internal/eventbus"
	"openhours/pkg/hours"
	logx "openhours/pkg/logx"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func weekdays(t *testing.T) *hours.Schedule {
	t.Helper()
	def := new(hours.Definition).
		Day("monday to friday", "09:00-17:00")
	def.Timezone = hours.ZoneDefinition{Input: "UTC"}
	s, err := hours.New(*def)
	if err != nil {
		t.Fatalf("hours.New: %v", err)
	}
	return s
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEvaluatePublishesTransitions(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: at("2024-01-08 08:00")} // Monday
	bus := eventbus.New()
	events, unsub := bus.Subscribe(8)
	defer unsub()

	svc, err := New(Config{Tick: "1m"}, weekdays(t), logx.Nop(), bus, WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	svc.Evaluate()
	e := <-events
	if e.Type != eventbus.TypeClosed || e.ID == "" {
		t.Fatalf("initial event = %+v", e)
	}
	snap := svc.Snapshot()
	if !snap.Known || snap.Open || snap.NextKind != "open" || !snap.Next.Equal(at("2024-01-08 09:00")) {
		t.Fatalf("snapshot = %+v", snap)
	}

	clock.set(at("2024-01-08 08:30"))
	svc.Evaluate()
	select {
	case e := <-events:
		t.Fatalf("unchanged state should not publish, got %+v", e)
	default:
	}

	clock.set(at("2024-01-08 09:00"))
	svc.Evaluate()
	e = <-events
	if e.Type != eventbus.TypeOpened {
		t.Fatalf("event = %+v, want opened", e)
	}
	tr, ok := e.Data.(eventbus.Transition)
	if !ok || !tr.Open || !tr.Next.Equal(at("2024-01-08 17:00")) {
		t.Fatalf("transition = %+v", e.Data)
	}

	snap = svc.Snapshot()
	if snap.Ticks != 3 || snap.Transitions != 1 || !snap.Since.Equal(at("2024-01-08 09:00")) {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestEvaluateLookaheadCap(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: at("2024-01-12 18:00")} // Friday evening
	svc, err := New(Config{Tick: "1m", Lookahead: 12 * time.Hour}, weekdays(t), logx.Nop(), nil, WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	svc.Evaluate()

	snap := svc.Snapshot()
	if !snap.Capped || !snap.Next.Equal(at("2024-01-13 06:00")) || snap.LastError != "" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestEvaluateReportsSearchFailure(t *testing.T) {
	t.Parallel()

	closed, err := hours.New(hours.Definition{})
	if err != nil {
		t.Fatalf("hours.New: %v", err)
	}
	clock := &fakeClock{now: at("2024-01-08 12:00")}
	svc, err := New(Config{Tick: "1m"}, closed, logx.Nop(), nil, WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	svc.Evaluate()

	snap := svc.Snapshot()
	if snap.Open || !snap.Next.IsZero() || snap.LastError == "" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestApplySwapsSchedule(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: at("2024-01-13 10:00")} // Saturday
	bus := eventbus.New()
	events, unsub := bus.Subscribe(8)
	defer unsub()

	svc, err := New(Config{Tick: "@every 1h"}, weekdays(t), logx.Nop(), bus, WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop(ctx)

	if e := <-events; e.Type != eventbus.TypeClosed {
		t.Fatalf("initial event = %+v", e)
	}

	weekend := new(hours.Definition).Day("saturday to sunday", "08:00-20:00")
	next, err := hours.New(*weekend)
	if err != nil {
		t.Fatalf("hours.New: %v", err)
	}
	if err := svc.Apply(next); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if e := <-events; e.Type != eventbus.TypeOpened {
		t.Fatalf("event after Apply = %+v", e)
	}

	snap := svc.Snapshot()
	if !snap.Running || snap.NextRun.IsZero() || snap.Tick != "@every 1h" {
		t.Fatalf("snapshot = %+v", snap)
	}

	if err := svc.ApplyConfig(Config{Tick: "*/5 * * * *"}); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if got := svc.Snapshot().Tick; got != "*/5 * * * *" {
		t.Fatalf("Tick = %q", got)
	}
	if err := svc.ApplyConfig(Config{Tick: "bogus"}); err == nil {
		t.Fatal("invalid tick should be rejected")
	}
}

func TestNewRejectsInvalidTick(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{Tick: "whenever"}, nil, logx.Logger{}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestEvaluateDropsOutOfOrderCommit(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: at("2024-01-08 08:59")}
	bus := eventbus.New()
	events, unsub := bus.Subscribe(8)
	defer unsub()

	svc, err := New(Config{Tick: "1m"}, weekdays(t), logx.Nop(), bus, WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	older, ok := svc.beginEval()
	if !ok {
		t.Fatal("beginEval should succeed with a schedule")
	}
	clock.set(at("2024-01-08 09:01"))
	newer, _ := svc.beginEval()

	svc.finishEval(newer, newer.run())
	svc.finishEval(older, older.run())

	e := <-events
	if e.Type != eventbus.TypeOpened {
		t.Fatalf("event = %+v, want opened", e)
	}
	select {
	case e := <-events:
		t.Fatalf("stale evaluation published %+v", e)
	default:
	}
	snap := svc.Snapshot()
	if !snap.Open || !snap.LastEval.Equal(at("2024-01-08 09:01")) || snap.Ticks != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
