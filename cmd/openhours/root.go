package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"openhours/internal/config"
	"openhours/pkg/hours"
	logx "openhours/pkg/logx"
)

const defaultConfigPath = "./openhours.yaml"

// app holds the state shared by all subcommands.
type app struct {
	out   io.Writer
	clock hours.Clock

	cfgPath  string
	logLevel string

	cfgm *config.ConfigManager
	cfg  *config.Config
	logs *logx.Service
	log  logx.Logger
}

func newApp(out io.Writer) *app {
	return &app{out: out, clock: hours.SystemClock()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "openhours",
		Short: "Opening hours engine",
		Long: `openhours answers questions about a weekly opening-hours schedule with
date exceptions: is it open at a given instant, when does it next open or
close, and how long is it open between two instants.

The schedule is read from a YAML or JSON(C) config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if lvl := strings.TrimSpace(a.logLevel); lvl != "" {
				if _, err := logx.ParseLevel(lvl); err != nil {
					return fmt.Errorf("--log-level: %w", err)
				}
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logs != nil {
				_ = a.logs.Close()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", defaultConfigPath, "Path to the config file (.yaml, .yml, .json, .jsonc)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (trace, debug, info, warn, error)")

	root.AddCommand(
		a.validateCmd(),
		a.statusCmd(),
		a.searchCmd(hours.DirectionNext),
		a.searchCmd(hours.DirectionPrevious),
		a.diffCmd(),
		a.weekCmd(),
		a.watchCmd(),
	)
	return root
}

// load reads the config file, starts logging and builds the schedule.
func (a *app) load() (*hours.Schedule, error) {
	a.cfgm = config.NewConfigManager(a.cfgPath)
	cfg, err := a.cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	a.logs, a.log = logx.New(a.logxConfig(cfg))
	a.log.Debug("config loaded", logx.String("path", a.cfgPath))

	sched, err := cfg.BuildSchedule(hours.WithClock(a.clock))
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return sched, nil
}

func (a *app) logxConfig(cfg *config.Config) logx.Config {
	lc := cfg.Logging.LogxConfig()
	if lvl := strings.TrimSpace(a.logLevel); lvl != "" {
		lc.Level = lvl
	}
	return lc
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
