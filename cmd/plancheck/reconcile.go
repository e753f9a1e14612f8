package main

import (
	"fmt"
	"time"

	"alcyxob/training-planner/internal/adaptation"
	"alcyxob/training-planner/internal/domain"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newReconcileCmd(load func() (*Snapshot, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Compare planned workouts with completed activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := load()
			if err != nil {
				return err
			}

			tsb := 0.0
			form := ""
			if snap.TSB != nil {
				tsb = *snap.TSB
			} else {
				f := adaptation.CurrentFitness(snap.Activities, snap.FTP, snap.lastDate())
				tsb = f.TSB
				form = fmt.Sprintf("CTL %.1f  ATL %.1f  ", f.CTL, f.ATL)
			}

			in := adaptation.Input{
				PassID:     uuid.NewString(),
				Planned:    snap.Workouts,
				Activities: snap.Activities,
				Thresholds: snap.thresholds(),
				TSB:        tsb,
				CreatedAt:  time.Now().UTC(),
			}
			if snap.Phase != "" {
				phase := snap.Phase
				in.PhaseFor = func(time.Time) domain.TrainingPhase { return phase }
			}
			records := adaptation.Reconcile(in)

			out := cmd.OutOrStdout()
			color.New(color.FgCyan, color.Bold).Fprintln(out, "=== Reconciliation ===")
			fmt.Fprintf(out, "%sTSB %.1f (%s)\n\n", form, tsb, adaptation.FormDescription(tsb))
			if len(records) == 0 {
				fmt.Fprintln(out, "Nothing planned or recorded.")
				return nil
			}
			for _, r := range records {
				assessmentColor(r.Assessment).Fprintf(out, "%s  %-20s %-13s", r.Date.Format(domain.DateLayout), r.AdaptationType, r.Assessment)
				fmt.Fprintf(out, " stimulus %5.1f%%\n", r.StimulusAchievedPct)
				fmt.Fprintf(out, "    %s\n", r.Explanation)
			}
			return nil
		},
	}
}

func assessmentColor(a domain.Assessment) *color.Color {
	switch a {
	case domain.AssessmentBeneficial:
		return color.New(color.FgGreen, color.Bold)
	case domain.AssessmentAcceptable:
		return color.New(color.FgGreen)
	case domain.AssessmentMinorConcern:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
