package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login <user-id>",
		Short: "Log in with a backend user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.session.SetUserID(args[0]); err != nil {
					return err
				}
				if err := a.reminders.Init(cmd.Context()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: reminder sync failed: %v\n", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %s\n", args[0])
				return nil
			})
		},
	}
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Return to an anonymous session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.session.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if userID, ok := a.session.UserID(); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %s\n", userID)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Anonymous session")
				return nil
			})
		},
	}
}
