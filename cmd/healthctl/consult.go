package main

import (
	"github.com/spf13/cobra"
	"github.com/wecare/healthtracker/pkg/client"
)

func newConsultCmd(a *app) *cobra.Command {
	consultCmd := &cobra.Command{Use: "consult", Short: "AI consultation operations"}

	// list
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List past consultations newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			consultations, err := a.session.Consultations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.printJSON(consultations)
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of records (server default when unset)")
	consultCmd.AddCommand(listCmd)

	// request
	var symptoms, consultationType string
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Ask for guidance on symptoms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			result, err := a.session.RequestConsultation(cmd.Context(), client.ConsultationInput{
				Symptoms:         symptoms,
				ConsultationType: consultationType,
			})
			if err != nil {
				return err
			}
			return a.printJSON(result)
		},
	}
	requestCmd.Flags().StringVarP(&symptoms, "symptoms", "s", "", "Symptoms to describe (required)")
	requestCmd.Flags().StringVarP(&consultationType, "type", "t", client.ConsultationGeneral,
		"Consultation type: general, medicine_suggestion or doctor_advice")
	_ = requestCmd.MarkFlagRequired("symptoms")
	consultCmd.AddCommand(requestCmd)

	return consultCmd
}
