package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account profile (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				userID, err := requireLogin(a)
				if err != nil {
					return err
				}
				profile, err := a.client.FetchProfile(cmd.Context(), userID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:  %s\n", profile.Name)
				fmt.Fprintf(out, "Email: %s\n", profile.Email)
				if profile.Age > 0 {
					fmt.Fprintf(out, "Age:   %d\n", profile.Age)
				}
				if len(profile.Conditions) > 0 {
					fmt.Fprintf(out, "Conditions: %s\n", strings.Join(profile.Conditions, ", "))
				}
				if len(profile.Allergies) > 0 {
					fmt.Fprintf(out, "Allergies:  %s\n", strings.Join(profile.Allergies, ", "))
				}
				return nil
			})
		},
	}
}
