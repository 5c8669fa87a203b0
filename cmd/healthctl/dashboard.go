package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show a summary of recent health data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			d, err := a.session.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Active medications\t%d\n", d.ActiveMedications)
			fmt.Fprintf(w, "Blood pressure\t%s\n", d.LatestBloodPressure)
			fmt.Fprintf(w, "Heart rate\t%s\n", d.LatestHeartRate)
			fmt.Fprintf(w, "Consultations\t%d\n", d.ConsultationCount)
			if len(d.Trend) > 0 {
				fmt.Fprintln(w, "\nRecorded\tBP\tHR")
				for _, v := range d.Trend {
					bp, hr := "-", "-"
					if v.BloodPressureSystolic != nil && v.BloodPressureDiastolic != nil {
						bp = fmt.Sprintf("%d/%d", *v.BloodPressureSystolic, *v.BloodPressureDiastolic)
					}
					if v.HeartRate != nil {
						hr = fmt.Sprintf("%d", *v.HeartRate)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", v.RecordedAt.Format("2006-01-02 15:04"), bp, hr)
				}
			}
			return w.Flush()
		},
	}
}
