package main

import (
	"errors"

	"github.com/spf13/cobra"

	"openhours/pkg/hours"
)

func (a *app) statusCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the schedule is open at an instant",
		Example: `  openhours status
  openhours status --at "2024-12-24 15:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := a.load()
			if err != nil {
				return err
			}
			t, err := parseInstant(at, sched, a.clock.Now())
			if err != nil {
				return err
			}

			open := sched.IsOpenAt(t)
			a.printf("%s %s\n", label("at"), t.Format(instantLayout))
			a.printf("%s %s\n", label("state"), stateText(open))

			if r, ok := sched.CurrentOpenRange(t); ok {
				a.printf("%s %s\n", label("range"), r.Range)
				if data := r.Range.Data(); data != nil {
					a.printf("%s %v\n", label("data"), data)
				}
			}

			kind := hours.BoundaryOpen
			if open {
				kind = hours.BoundaryClose
			}
			next, err := sched.Search(hours.DirectionNext, kind, t)
			switch {
			case err == nil:
				a.printf("%s %s\n", label("next "+kind.String()), when(next, t))
			case errors.Is(err, hours.ErrMaximumLimitExceeded):
				a.printf("%s %v\n", label("next "+kind.String()), err)
			default:
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Instant to check (RFC3339 or YYYY-MM-DD HH:MM[:SS]; default now)")
	return cmd
}
