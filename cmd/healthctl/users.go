package main

import (
	"github.com/spf13/cobra"
	"github.com/wecare/healthtracker/pkg/client"
)

func newUsersCmd(a *app) *cobra.Command {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	// list
	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(users)
		},
	})

	// get
	getCmd := &cobra.Command{
		Use:   "get EMAIL",
		Short: "Find a user by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.api.GetUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
	usersCmd.AddCommand(getCmd)

	// create
	var name, email, gender, bloodType, allergies, conditions, contact string
	var age int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			user, err := a.api.CreateUser(cmd.Context(), client.UserInput{
				Name:              name,
				Email:             email,
				Age:               intFlag(flags, "age", age),
				Gender:            stringFlag(flags, "gender", gender),
				BloodType:         stringFlag(flags, "blood-type", bloodType),
				Allergies:         stringFlag(flags, "allergies", allergies),
				ChronicConditions: stringFlag(flags, "conditions", conditions),
				EmergencyContact:  stringFlag(flags, "emergency-contact", contact),
			})
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Full name (required)")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	createCmd.Flags().IntVar(&age, "age", 0, "Age in years")
	createCmd.Flags().StringVar(&gender, "gender", "", "Gender")
	createCmd.Flags().StringVar(&bloodType, "blood-type", "", "Blood type")
	createCmd.Flags().StringVar(&allergies, "allergies", "", "Known allergies")
	createCmd.Flags().StringVar(&conditions, "conditions", "", "Chronic conditions")
	createCmd.Flags().StringVar(&contact, "emergency-contact", "", "Emergency contact, e.g. name and phone")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")
	usersCmd.AddCommand(createCmd)

	return usersCmd
}
