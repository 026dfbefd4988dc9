package main

import (
	"sort"

	"github.com/spf13/cobra"

	"openhours/pkg/hours"
)

func (a *app) weekCmd() *cobra.Command {
	var combined, consecutive bool
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the weekly hours and the exceptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := a.load()
			if err != nil {
				return err
			}

			a.printf("%s\n", styleHeader.Render("Week"))
			switch {
			case combined:
				for _, g := range sched.ForWeekCombined() {
					a.printf("  %-30s %s\n", daysText(g.Days, false), hoursText(g.Hours))
				}
			case consecutive:
				for _, g := range sched.ForWeekConsecutiveDays() {
					a.printf("  %-30s %s\n", daysText(g.Days, true), hoursText(g.Hours))
				}
			default:
				week := sched.ForWeek()
				for _, d := range hours.Week {
					a.printf("  %-30s %s\n", hours.DayName(d), hoursText(week[d]))
				}
			}

			ex := sched.Exceptions()
			if len(ex) == 0 {
				return nil
			}
			keys := make([]hours.DateKey, 0, len(ex))
			for k := range ex {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

			a.printf("\n%s\n", styleHeader.Render("Exceptions"))
			for _, k := range keys {
				a.printf("  %-30s %s\n", k, hoursText(ex[k]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&combined, "combined", false, "Group all days with identical hours")
	cmd.Flags().BoolVar(&consecutive, "consecutive", false, "Group adjacent days with identical hours")
	cmd.MarkFlagsMutuallyExclusive("combined", "consecutive")
	return cmd
}
