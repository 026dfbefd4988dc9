package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"openhours/internal/config"
	"openhours/internal/eventbus"
	"openhours/internal/runtime/supervisor"
	"openhours/internal/watch"
	"openhours/pkg/hours"
	logx "openhours/pkg/logx"
)

const (
	stopTimeout = 5 * time.Second
	// watcher panics tolerated before the daemon exits
	maxWatchRestarts = 5
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the evaluator: log and publish open/close transitions",
		Long: `watch evaluates the schedule on every tick (watch.tick, default "@every 1m"),
logs state changes and the next expected transition, and reloads the config
file when it changes. Under systemd (Type=notify) readiness is reported once
the first evaluation is done.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := a.load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return a.runWatch(ctx, sched)
		},
	}
}

func watchConfig(cfg *config.Config) (watch.Config, error) {
	look, err := cfg.Watch.LookaheadDuration()
	if err != nil {
		return watch.Config{}, err
	}
	wc := watch.Config{Tick: cfg.Watch.TickSpec(), Lookahead: look}
	if _, err := watch.ParseTick(wc.Tick); err != nil {
		return watch.Config{}, fmt.Errorf("watch.tick: %w", err)
	}
	return wc, nil
}

func (a *app) runWatch(ctx context.Context, sched *hours.Schedule) error {
	wc, err := watchConfig(a.cfg)
	if err != nil {
		return err
	}

	bus := eventbus.New()
	svc, err := watch.New(wc, sched, a.log.With(logx.String("comp", "watch")), bus, watch.WithClock(a.clock))
	if err != nil {
		return err
	}

	sup := supervisor.NewSupervisor(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)

	// transactional reload: validate before commit/publish
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if _, err := watchConfig(cfg); err != nil {
			return err
		}
		_, err := cfg.BuildSchedule()
		return err
	})
	sub := a.cfgm.Subscribe(8)
	sup.GoRestart("config.watch", a.cfgm.Watch,
		supervisor.WithRestartBackoff(time.Second, 30*time.Second),
		supervisor.WithMaxRestarts(maxWatchRestarts),
	)
	sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		a.reloadLoop(c, sub, svc)
	})

	events, unsub := bus.Subscribe(32)
	sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("id", e.ID), logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	})

	if err := svc.Start(sup.Context()); err != nil {
		_ = sup.Stop(context.Background())
		return err
	}
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Warn("sd_notify failed", logx.Err(err))
	} else if sent {
		a.log.Debug("sd_notify ready sent")
	}

	<-sup.Context().Done()
	if err := sup.Err(); err != nil {
		a.log.Error("watch stopping after failure", logx.Err(err))
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	svc.Stop(stopCtx)
	err = sup.Stop(stopCtx)
	c := sup.Counters()
	a.log.Info("watch stopped",
		logx.Int("goroutines_started", int(c.Started)),
		logx.Int("goroutines_active", int(c.Active)),
		logx.Int("transitions", int(svc.Snapshot().Transitions)),
	)
	return err
}

// reloadLoop applies published config revisions to logging and the watch
// service. Bursts are coalesced to the newest revision.
func (a *app) reloadLoop(ctx context.Context, sub chan *config.Config, svc *watch.Service) {
	lastApplied := a.cfgm.Get()
	for {
		var newCfg *config.Config
		select {
		case <-ctx.Done():
			return
		case c, ok := <-sub:
			if !ok {
				return
			}
			newCfg = c
		}
	coalesce:
		for {
			select {
			case newer := <-sub:
				if newer != nil {
					newCfg = newer
				}
			default:
				break coalesce
			}
		}

		sections, attrs := config.SummarizeConfigChange(lastApplied, newCfg)
		if len(sections) == 0 {
			a.log.Debug("config reload received, but no effective changes detected")
			continue
		}
		fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
		a.log.Info("config change summary", fields...)
		lastApplied = newCfg

		a.logs.Apply(a.logxConfig(newCfg))
		a.applyWatch(newCfg, sections, svc)
	}
}

func (a *app) applyWatch(cfg *config.Config, sections []string, svc *watch.Service) {
	changed := func(name string) bool {
		for _, s := range sections {
			if s == name {
				return true
			}
		}
		return false
	}
	if changed("watch") {
		wc, err := watchConfig(cfg)
		if err == nil {
			err = svc.ApplyConfig(wc)
		}
		if err != nil {
			a.log.Warn("watch config not applied", logx.Err(err))
		}
	}
	if changed("watch") || changed("schedule") {
		sched, err := cfg.BuildSchedule(hours.WithClock(a.clock))
		if err == nil {
			err = svc.Apply(sched)
		}
		if err != nil {
			a.log.Warn("schedule not applied", logx.Err(err))
		}
	}
}
