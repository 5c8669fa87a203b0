package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wecare/healthtracker/pkg/client"
)

func newMedsCmd(a *app) *cobra.Command {
	medsCmd := &cobra.Command{Use: "meds", Short: "Medication operations"}

	// list
	var active string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List medications newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			var filter *bool
			if active != "" {
				v, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("--active must be true or false")
				}
				filter = &v
			}
			meds, err := a.session.Medications(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printJSON(meds)
		},
	}
	listCmd.Flags().StringVar(&active, "active", "", "Only active (true) or inactive (false) medications")
	medsCmd.AddCommand(listCmd)

	// add
	var name, dosage, frequency, startDate, endDate, prescribedBy, notes string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a medication",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			flags := cmd.Flags()
			med, err := a.session.AddMedication(cmd.Context(), client.MedicationInput{
				MedicationName: name,
				Dosage:         stringFlag(flags, "dosage", dosage),
				Frequency:      stringFlag(flags, "frequency", frequency),
				StartDate:      stringFlag(flags, "start", startDate),
				EndDate:        stringFlag(flags, "end", endDate),
				PrescribedBy:   stringFlag(flags, "prescribed-by", prescribedBy),
				Notes:          stringFlag(flags, "notes", notes),
			})
			if err != nil {
				return err
			}
			return a.printJSON(med)
		},
	}
	addCmd.Flags().StringVarP(&name, "name", "n", "", "Medication name (required)")
	addCmd.Flags().StringVar(&dosage, "dosage", "", "Dosage, e.g. 500mg")
	addCmd.Flags().StringVar(&frequency, "frequency", "", "Frequency, e.g. twice daily")
	addCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&prescribedBy, "prescribed-by", "", "Prescribing doctor")
	addCmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = addCmd.MarkFlagRequired("name")
	medsCmd.AddCommand(addCmd)

	return medsCmd
}
