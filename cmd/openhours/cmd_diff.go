package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"openhours/pkg/hours"
)

type diffFunc func(s *hours.Schedule, from, to time.Time) (float64, error)

var diffFuncs = map[string]map[string]diffFunc{
	"open": {
		"seconds": (*hours.Schedule).DiffInOpenSeconds,
		"minutes": (*hours.Schedule).DiffInOpenMinutes,
		"hours":   (*hours.Schedule).DiffInOpenHours,
	},
	"closed": {
		"seconds": (*hours.Schedule).DiffInClosedSeconds,
		"minutes": (*hours.Schedule).DiffInClosedMinutes,
		"hours":   (*hours.Schedule).DiffInClosedHours,
	},
}

func (a *app) diffCmd() *cobra.Command {
	var from, to, state, unit string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Measure open or closed time between two instants",
		Example: `  openhours diff --from "2024-01-01" --to "2024-02-01"
  openhours diff --from "2024-01-08 08:00" --to "2024-01-08 20:00" --state closed --unit minutes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			byUnit, ok := diffFuncs[state]
			if !ok {
				return fmt.Errorf("invalid --state %q (use open or closed)", state)
			}
			fn, ok := byUnit[unit]
			if !ok {
				return fmt.Errorf("invalid --unit %q (use seconds, minutes or hours)", unit)
			}

			sched, err := a.load()
			if err != nil {
				return err
			}
			now := a.clock.Now()
			start, err := parseInstant(from, sched, now)
			if err != nil {
				return err
			}
			end, err := parseInstant(to, sched, now)
			if err != nil {
				return err
			}

			v, err := fn(sched, start, end)
			if err != nil {
				return err
			}
			a.printf("%s %s %s\n", label(state), humanize.FtoaWithDigits(v, 4), unit)
			a.printf("%s %s\n", label("from"), start.Format(instantLayout))
			a.printf("%s %s\n", label("to"), end.Format(instantLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start instant (default now)")
	cmd.Flags().StringVar(&to, "to", "", "End instant")
	cmd.Flags().StringVar(&state, "state", "open", "Which time to measure: open or closed")
	cmd.Flags().StringVar(&unit, "unit", "hours", "Result unit: seconds, minutes or hours")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
