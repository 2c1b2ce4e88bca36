package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zovida/internal/api"
)

func newFamilyCommand(ctx *commandContext) *cobra.Command {
	familyCmd := &cobra.Command{
		Use:   "family",
		Short: "Emergency contacts (requires login)",
	}
	familyCmd.AddCommand(newFamilyListCommand(ctx))
	familyCmd.AddCommand(newFamilyAddCommand(ctx))
	familyCmd.AddCommand(newFamilyUpdateCommand(ctx))
	familyCmd.AddCommand(newFamilyRemoveCommand(ctx))
	return familyCmd
}

func requireLogin(a *app) (string, error) {
	userID, ok := a.session.UserID()
	if !ok {
		return "", fmt.Errorf("not logged in; run `zovida login <user-id>` first")
	}
	return userID, nil
}

func newFamilyListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				userID, err := requireLogin(a)
				if err != nil {
					return err
				}
				members, err := a.client.ListFamilyMembers(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if len(members) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No contacts registered")
					return nil
				}
				rows := make([][]string, 0, len(members))
				for _, member := range members {
					rows = append(rows, []string{
						member.ID,
						member.Name,
						member.Relation,
						member.Phone,
						yesNo(member.Notifications),
						yesNo(member.LocationAccess),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Relation", "Phone", "Notify", "Location"},
					rows, nil,
				))
				return nil
			})
		},
	}
}

func newFamilyAddCommand(ctx *commandContext) *cobra.Command {
	var relation, phone string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				userID, err := requireLogin(a)
				if err != nil {
					return err
				}
				id, err := a.client.AddFamilyMember(cmd.Context(), userID, api.FamilyMember{
					Name:     args[0],
					Relation: relation,
					Phone:    phone,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added contact %s: %s\n", id, args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&relation, "relation", "", "Relation to you, e.g. spouse")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	return cmd
}

func newFamilyUpdateCommand(ctx *commandContext) *cobra.Command {
	var notifications, locationAccess bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a contact's notification and location switches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if _, err := requireLogin(a); err != nil {
					return err
				}
				var patch api.FamilyPatch
				if cmd.Flags().Changed("notify") {
					patch.Notifications = &notifications
				}
				if cmd.Flags().Changed("location") {
					patch.LocationAccess = &locationAccess
				}
				if patch.Notifications == nil && patch.LocationAccess == nil {
					return fmt.Errorf("nothing to update; pass --notify or --location")
				}
				if err := a.client.UpdateFamilyMember(cmd.Context(), args[0], patch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated contact %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&notifications, "notify", true, "Send them danger notifications")
	cmd.Flags().BoolVar(&locationAccess, "location", false, "Allow SOS location sharing")
	return cmd
}

func newFamilyRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a registered contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if _, err := requireLogin(a); err != nil {
					return err
				}
				if err := a.client.RemoveFamilyMember(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed contact %s\n", args[0])
				return nil
			})
		},
	}
}
