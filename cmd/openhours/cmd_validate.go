package main

import (
	"strings"

	"github.com/spf13/cobra"

	"openhours/pkg/hours"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the config file and check the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := a.load()
			if err != nil {
				return err
			}
			a.printf("%s schedule is valid\n", styleOpen.Render("✓"))
			a.printf("%s %s\n", label("zone"), sched.Zone())
			a.printf("%s %t\n", label("overflow"), sched.Overflow())
			a.printf("%s %d days\n", label("day limit"), sched.DayLimit())
			a.printf("%s %d\n", label("exceptions"), len(sched.Exceptions()))

			closed := make([]string, 0, 7)
			for _, d := range sched.RegularClosingDays() {
				closed = append(closed, hours.DayName(d))
			}
			if len(closed) > 0 {
				a.printf("%s %s\n", label("closed on"), strings.Join(closed, ", "))
			}
			return nil
		},
	}
}
