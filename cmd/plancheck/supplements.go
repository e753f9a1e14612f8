package main

import (
	"fmt"
	"strings"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/planner"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSupplementsCmd(load func() (*Snapshot, error)) *cobra.Command {
	var (
		class string
		from  string
		weeks int
	)
	cmd := &cobra.Command{
		Use:   "supplements",
		Short: "Rank dates for a supplement session",
		Long:  `List every date in the look-ahead window that can take a session of the given supplement class, best first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := domain.SupplementClass(class)
			if !sc.Valid() {
				return fmt.Errorf("unknown supplement class %q (want one of %s)", class, supplementClassList())
			}
			snap, err := load()
			if err != nil {
				return err
			}
			start := snap.WeekStart
			if from != "" {
				if start, err = domain.ParseDate(from); err != nil {
					return fmt.Errorf("invalid --from %q: %w", from, err)
				}
			}

			suggestions := planner.Default().SuggestSupplements(planner.SupplementRequest{
				Class:          sc,
				From:           start,
				LookAheadWeeks: weeks,
				Schedule:       snap.Workouts,
				Availability:   snap.availability(),
			})

			out := cmd.OutOrStdout()
			color.New(color.FgCyan, color.Bold).Fprintf(out, "=== %s from %s ===\n", sc, start.Format(domain.DateLayout))
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No suitable dates.")
				return nil
			}
			green := color.New(color.FgGreen)
			for _, s := range suggestions {
				green.Fprintf(out, "%s  score %3d", dayLabel(s.Date), s.Score)
				fmt.Fprintf(out, "  %-8s %s\n", s.DayType, strings.Join(s.Reasons, "; "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&class, "class", string(domain.SupplementCore), "Supplement class: "+supplementClassList())
	cmd.Flags().StringVar(&from, "from", "", "First date to consider (YYYY-MM-DD, defaults to the snapshot's weekStart)")
	cmd.Flags().IntVar(&weeks, "weeks", planner.DefaultLookAheadWeeks, "Look-ahead window in weeks")
	return cmd
}

func supplementClassList() string {
	names := make([]string, len(domain.SupplementClasses))
	for i, c := range domain.SupplementClasses {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
