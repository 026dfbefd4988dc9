package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"openhours/pkg/hours"
)

const instantLayout = "2006-01-02 15:04:05 MST"

var (
	styleOpen   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleClosed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
	styleLabel  = lipgloss.NewStyle().Faint(true).Width(12)
)

func stateText(open bool) string {
	if open {
		return styleOpen.Render("open")
	}
	return styleClosed.Render("closed")
}

func label(s string) string { return styleLabel.Render(s) }

// when formats t with its distance from ref, e.g. "... (3 hours later)".
func when(t, ref time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format(instantLayout), humanize.RelTime(t, ref, "earlier", "later"))
}

func hoursText(dh hours.DayHours) string {
	if dh.IsEmpty() {
		return styleClosed.Render("closed")
	}
	s := dh.String()
	if data := dh.Data(); data != nil {
		s += fmt.Sprintf("  [%v]", data)
	}
	return s
}

// daysText renders "monday - friday" for a run of days and a comma list
// otherwise.
func daysText(days []time.Weekday, run bool) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, hours.DayName(d))
	}
	if run && len(names) > 2 {
		return names[0] + " - " + names[len(names)-1]
	}
	return strings.Join(names, ", ")
}
