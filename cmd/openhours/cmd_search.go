package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"openhours/pkg/hours"
)

type searchFlags struct {
	from     string
	limit    string
	cap      string
	dayLimit int
}

// searchCmd builds "next" or "previous", each taking "open" or "close".
func (a *app) searchCmd(dir hours.Direction) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:       dir.String() + " open|close",
		Short:     fmt.Sprintf("Find the %s opening or closing instant", dir),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"open", "close"},
		Example: fmt.Sprintf(`  openhours %[1]s open
  openhours %[1]s close --from "2024-12-24 15:00" --day-limit 30`, dir),
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := a.load()
			if err != nil {
				return err
			}
			kind := hours.BoundaryOpen
			if args[0] == "close" {
				kind = hours.BoundaryClose
			}
			return a.runSearch(sched, dir, kind, f)
		},
	}
	cmd.Flags().StringVar(&f.from, "from", "", "Start instant (default now)")
	cmd.Flags().StringVar(&f.limit, "limit", "", "Fail once the search passes this instant")
	cmd.Flags().StringVar(&f.cap, "cap", "", "Stop at this instant and return it instead of failing")
	cmd.Flags().IntVar(&f.dayLimit, "day-limit", 0, "Override the day-search-limit")
	return cmd
}

func (a *app) runSearch(sched *hours.Schedule, dir hours.Direction, kind hours.Boundary, f searchFlags) error {
	now := a.clock.Now()
	from, err := parseInstant(f.from, sched, now)
	if err != nil {
		return err
	}
	var opts []hours.SearchOption
	if f.limit != "" {
		t, err := parseInstant(f.limit, sched, now)
		if err != nil {
			return err
		}
		opts = append(opts, hours.WithSearchLimit(t))
	}
	if f.cap != "" {
		t, err := parseInstant(f.cap, sched, now)
		if err != nil {
			return err
		}
		opts = append(opts, hours.WithCap(t))
	}
	if f.dayLimit > 0 {
		sched.SetDayLimit(f.dayLimit)
	}

	got, err := sched.Search(dir, kind, from, opts...)
	if err != nil {
		return err
	}
	a.printf("%s %s\n", label(dir.String()+" "+kind.String()), when(got, from))
	return nil
}
