package main

import (
	"errors"
	"fmt"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/planner"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errCannotActivate = errors.New("plan cannot be activated: some workouts have no alternative day")

func newRedistributeCmd(load func() (*Snapshot, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "redistribute",
		Short: "Move workouts off blocked days",
		Long:  `Propose a new date for every workout that falls on a blocked day and report whether the plan could be activated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := load()
			if err != nil {
				return err
			}
			res, err := planner.Default().RedistributePlan(cmd.Context(), planner.PlanInput{
				StartDate:    snap.WeekStart,
				Workouts:     snap.Workouts,
				Availability: snap.availability(),
				Preferences:  *snap.Preferences,
			})
			if err != nil {
				return err
			}
			printRedistribution(cmd, res)
			if !res.CanActivate {
				return errCannotActivate
			}
			return nil
		},
	}
}

func printRedistribution(cmd *cobra.Command, res planner.Result) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	cyan.Fprintln(out, "=== Redistribution ===")
	if len(res.Moves) == 0 {
		fmt.Fprintln(out, "No workouts fall on blocked days.")
	}
	for _, m := range res.Moves {
		name := m.Name
		if name == "" {
			name = "(unnamed)"
		}
		if m.Resolved() {
			green.Fprintf(out, "✓ %s: %s -> %s (score %d)\n", name, dayLabel(m.OriginalDate), dayLabel(m.NewDate), m.Score)
		} else {
			red.Fprintf(out, "✗ %s: stays on %s\n", name, dayLabel(m.OriginalDate))
		}
		fmt.Fprintf(out, "    %s\n", m.Reason)
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(out)
		yellow.Fprintln(out, "Warnings:")
		for _, w := range res.Warnings {
			yellow.Fprintf(out, "  ⚠ %s\n", w)
		}
	}

	fmt.Fprintln(out)
	if res.CanActivate {
		green.Fprintln(out, "canActivate: true")
	} else {
		red.Fprintln(out, "canActivate: false")
	}
}

func dayLabel(d time.Time) string {
	return d.Format("Mon " + domain.DateLayout)
}
