package main

import (
	"github.com/spf13/cobra"
	"github.com/wecare/healthtracker/pkg/client"
)

func newVitalsCmd(a *app) *cobra.Command {
	vitalsCmd := &cobra.Command{Use: "vitals", Short: "Vital sign operations"}

	// list
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vital signs newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			vitals, err := a.session.VitalSigns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.printJSON(vitals)
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of records (server default when unset)")
	vitalsCmd.AddCommand(listCmd)

	// add
	var (
		systolic, diastolic, heartRate            int
		temperature, weight, height, bloodSugar float64
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a measurement set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			flags := cmd.Flags()
			in := client.VitalSignInput{
				BloodPressureSystolic:  intFlag(flags, "systolic", systolic),
				BloodPressureDiastolic: intFlag(flags, "diastolic", diastolic),
				HeartRate:              intFlag(flags, "heart-rate", heartRate),
				Temperature:            floatFlag(flags, "temperature", temperature),
				Weight:                 floatFlag(flags, "weight", weight),
				Height:                 floatFlag(flags, "height", height),
				BloodSugar:             floatFlag(flags, "blood-sugar", bloodSugar),
			}
			vital, err := a.session.AddVitalSigns(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(vital)
		},
	}
	addCmd.Flags().IntVar(&systolic, "systolic", 0, "Systolic blood pressure (mmHg)")
	addCmd.Flags().IntVar(&diastolic, "diastolic", 0, "Diastolic blood pressure (mmHg)")
	addCmd.Flags().IntVar(&heartRate, "heart-rate", 0, "Heart rate (bpm)")
	addCmd.Flags().Float64Var(&temperature, "temperature", 0, "Body temperature")
	addCmd.Flags().Float64Var(&weight, "weight", 0, "Weight")
	addCmd.Flags().Float64Var(&height, "height", 0, "Height")
	addCmd.Flags().Float64Var(&bloodSugar, "blood-sugar", 0, "Blood sugar")
	vitalsCmd.AddCommand(addCmd)

	return vitalsCmd
}
