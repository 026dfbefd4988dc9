package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"openhours/internal/eventbus"
	"openhours/pkg/hours"
	logx "openhours/pkg/logx"
)

// search failures repeat every tick; one warning per minute is enough
const warnEvery = time.Minute

type Option func(*Service)

// WithClock replaces the wall clock used for evaluations.
func WithClock(c hours.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New validates cfg.Tick and returns a stopped service.
func New(cfg Config, sched *hours.Schedule, log logx.Logger, bus eventbus.Bus, opts ...Option) (*Service, error) {
	tick, err := ParseTick(cfg.Tick)
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		log:   log,
		warn:  log.Limited(rate.NewLimiter(rate.Every(warnEvery), 1)),
		cfg:   cfg,
		tick:  tick,
		bus:   bus,
		clock: hours.SystemClock(),
		sched: sched,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Start registers the tick with cron and evaluates once immediately.
func (s *Service) Start(ctx context.Context) error {
	_ = ctx

	s.mu.Lock()
	if s.c != nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.startLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.log.Info("service started",
		logx.String("tick", s.tick.Spec()),
		logx.String("tz", s.loc.String()),
		logx.Duration("lookahead", s.cfg.Lookahead),
	)
	s.mu.Unlock()

	s.Evaluate()
	return nil
}

func (s *Service) startLocked() error {
	s.loc = s.locationLocked()
	c := cron.New(cron.WithParser(cronParser), cron.WithLocation(s.loc))
	id, err := c.AddFunc(s.tick.Spec(), s.Evaluate)
	if err != nil {
		return fmt.Errorf("register tick %q: %w", s.tick.Spec(), err)
	}
	s.c, s.entryID = c, id
	c.Start()
	return nil
}

// Stop stops the cron trigger and waits for a running evaluation.
func (s *Service) Stop(ctx context.Context) {
	start := time.Now()

	s.mu.Lock()
	c := s.c
	s.c = nil
	s.entryID = 0
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("service stopped", logx.Duration("took", time.Since(start)))
}

// restartLocked re-registers the tick, e.g. after a tick or zone change.
// It does not wait for an in-flight evaluation, which needs s.mu.
func (s *Service) restartLocked() error {
	if s.c != nil {
		s.c.Stop()
		s.c = nil
	}
	if err := s.startLocked(); err != nil {
		return err
	}
	s.log.Info("service restarted", logx.String("tick", s.tick.Spec()), logx.String("tz", s.loc.String()))
	return nil
}

// cron fires in the schedule's input location so that cron specs like
// "0 9 * * *" line up with the opening hours.
func (s *Service) locationLocked() *time.Location {
	if s.sched != nil {
		if in := s.sched.Zone().Input; in != nil {
			return in
		}
	}
	return time.Local
}

// Apply swaps the schedule (after a config reload) and re-evaluates.
func (s *Service) Apply(sched *hours.Schedule) error {
	if sched == nil {
		return errors.New("schedule required")
	}
	s.mu.Lock()
	s.sched = sched
	var err error
	if s.c != nil && s.locationLocked() != s.loc {
		err = s.restartLocked()
	}
	running := s.c != nil
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Info("schedule applied", logx.Stringer("zone", sched.Zone()), logx.Int("exceptions", len(sched.Exceptions())))
	if running {
		s.Evaluate()
	}
	return nil
}

// ApplyConfig updates tick and lookahead. A changed tick restarts cron.
func (s *Service) ApplyConfig(cfg Config) error {
	tick, err := ParseTick(cfg.Tick)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := tick.Spec() != s.tick.Spec()
	s.cfg, s.tick = cfg, tick
	if changed && s.c != nil {
		return s.restartLocked()
	}
	return nil
}

// Evaluate checks the schedule at the current instant, publishes a
// transition event when the state differs from the previous evaluation
// and refreshes the next expected transition.
func (s *Service) Evaluate() {
	in, ok := s.beginEval()
	if !ok {
		return
	}
	s.finishEval(in, in.run())
}

// evaluation is one Evaluate call. seq orders evaluations by the moment
// they read the clock and the schedule.
type evaluation struct {
	seq   uint64
	sched *hours.Schedule
	cfg   Config
	now   time.Time
}

type outcome struct {
	open  bool
	kind  hours.Boundary
	next  time.Time
	capAt time.Time
	err   error
}

func (s *Service) beginEval() (evaluation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return evaluation{}, false
	}
	s.evalSeq++
	return evaluation{seq: s.evalSeq, sched: s.sched, cfg: s.cfg, now: s.clock.Now()}, true
}

func (in evaluation) run() outcome {
	out := outcome{open: in.sched.IsOpenAt(in.now), kind: hours.BoundaryOpen}
	if out.open {
		out.kind = hours.BoundaryClose
	}
	var opts []hours.SearchOption
	if in.cfg.Lookahead > 0 {
		out.capAt = in.now.Add(in.cfg.Lookahead)
		opts = append(opts, hours.WithCap(out.capAt))
	}
	out.next, out.err = in.sched.Search(hours.DirectionNext, out.kind, in.now, opts...)
	return out
}

// finishEval commits the outcome unless a later evaluation already did.
func (s *Service) finishEval(in evaluation, out outcome) {
	now, open, kind, next, err := in.now, out.open, out.kind, out.next, out.err

	s.mu.Lock()
	if in.seq <= s.doneSeq {
		s.mu.Unlock()
		s.log.Debug("stale evaluation dropped", logx.Time("at", now))
		return
	}
	s.doneSeq = in.seq
	prev := s.state
	st := &s.state
	st.ticks++
	st.lastEval = now
	changed := !prev.known || prev.open != open
	if changed {
		st.since = now
		if prev.known {
			st.transitions++
		}
	}
	st.known, st.open = true, open
	st.nextKind = kind
	st.lastErr = ""
	if err != nil {
		st.next, st.capped = time.Time{}, false
		st.lastErr = err.Error()
	} else {
		st.next = next
		st.capped = !out.capAt.IsZero() && next.Equal(out.capAt)
	}
	capped := st.capped
	s.mu.Unlock()

	if err != nil {
		s.warn.Warn("next transition search failed", logx.String("kind", kind.String()), logx.Err(err))
	}

	if !changed {
		s.log.Trace("state unchanged", logx.Bool("open", open), logx.Time("at", now))
		return
	}
	typ := eventbus.TypeClosed
	if open {
		typ = eventbus.TypeOpened
	}
	data := eventbus.Transition{Open: open, At: now}
	fields := []logx.Field{logx.Bool("open", open), logx.Time("at", now)}
	if err == nil && !capped {
		data.Next = next
		fields = append(fields, logx.String("next_"+kind.String(), next.Format(time.RFC3339)))
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: typ, Time: now, Data: data})
	}
	if prev.known {
		s.log.Info("state changed", fields...)
	} else {
		s.log.Info("initial state", fields...)
	}
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	snap := Snapshot{
		Running:     s.c != nil,
		Tick:        s.tick.Spec(),
		Known:       st.known,
		Open:        st.open,
		Since:       st.since,
		Next:        st.next,
		Capped:      st.capped,
		LastEval:    st.lastEval,
		LastError:   st.lastErr,
		Ticks:       st.ticks,
		Transitions: st.transitions,
	}
	if st.known {
		snap.NextKind = st.nextKind.String()
	}
	if s.sched != nil {
		snap.Timezone = s.sched.Zone().String()
	}
	if s.c != nil && s.entryID != 0 {
		e := s.c.Entry(s.entryID)
		snap.NextRun, snap.PrevRun = e.Next, e.Prev
	}
	return snap
}
