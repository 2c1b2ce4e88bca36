package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zovida/internal/reminders"
)

func newRemindersCommand(ctx *commandContext) *cobra.Command {
	remindersCmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder"},
		Short:   "Medication reminders",
	}
	remindersCmd.AddCommand(newRemindersListCommand(ctx))
	remindersCmd.AddCommand(newRemindersAddCommand(ctx))
	remindersCmd.AddCommand(newRemindersRemoveCommand(ctx))
	remindersCmd.AddCommand(newRemindersToggleCommand(ctx))
	remindersCmd.AddCommand(newRemindersUpdateCommand(ctx))
	remindersCmd.AddCommand(newRemindersFromScanCommand(ctx))
	remindersCmd.AddCommand(newRemindersSyncCommand(ctx))
	return remindersCmd
}

func reportSync(cmd *cobra.Command, state reminders.SyncResult) {
	switch state {
	case reminders.SyncBackendFailed:
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: backend sync failed; change saved locally")
	case reminders.SyncLocalOnly:
		fmt.Fprintln(cmd.ErrOrStderr(), "note: change saved locally only")
	}
}

func parseDays(value string) []string {
	parts := strings.Split(value, ",")
	days := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		days = append(days, strings.ToUpper(part[:1])+part[1:])
	}
	return days
}

func newRemindersListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List medication reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				all, err := a.reminders.List()
				if err != nil {
					return err
				}
				if len(all) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No reminders configured")
					return nil
				}
				rows := make([][]string, 0, len(all))
				for _, reminder := range all {
					rows = append(rows, []string{
						reminder.ID,
						reminder.MedicineName,
						reminder.Dosage,
						reminder.Time,
						strings.Join(reminder.Days, ","),
						yesNo(reminder.IsActive),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Medicine", "Dosage", "Time", "Days", "Active"},
					rows, nil,
				))
				return nil
			})
		},
	}
}

func newRemindersAddCommand(ctx *commandContext) *cobra.Command {
	var dosage, at, days string

	cmd := &cobra.Command{
		Use:   "add <medicine>",
		Short: "Add a medication reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				created, state, err := a.reminders.Add(cmd.Context(), reminders.Reminder{
					MedicineName: args[0],
					Dosage:       dosage,
					Time:         at,
					Days:         parseDays(days),
					IsActive:     true,
				})
				if err != nil {
					return err
				}
				reportSync(cmd, state)
				fmt.Fprintf(cmd.OutOrStdout(), "Added reminder %s: %s at %s\n", created.ID, created.MedicineName, created.Time)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dosage, "dosage", "", "Dosage note, e.g. \"100mg\"")
	cmd.Flags().StringVar(&at, "time", "08:00", "Time of day in 24h HH:MM format")
	cmd.Flags().StringVar(&days, "days", "Mon,Tue,Wed,Thu,Fri,Sat,Sun", "Comma-separated weekdays (Mon..Sun)")
	return cmd
}

func newRemindersRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				state, err := a.reminders.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				reportSync(cmd, state)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed reminder %s\n", args[0])
				return nil
			})
		},
	}
}

func newRemindersToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				updated, state, err := a.reminders.Toggle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				reportSync(cmd, state)
				verb := "disabled"
				if updated.IsActive {
					verb = "enabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s %s\n", updated.ID, verb)
				return nil
			})
		},
	}
}

func newRemindersUpdateCommand(ctx *commandContext) *cobra.Command {
	var medicine, dosage, at, days string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				var patch reminders.Patch
				if cmd.Flags().Changed("medicine") {
					patch.MedicineName = &medicine
				}
				if cmd.Flags().Changed("dosage") {
					patch.Dosage = &dosage
				}
				if cmd.Flags().Changed("time") {
					patch.Time = &at
				}
				if cmd.Flags().Changed("days") {
					parsed := parseDays(days)
					patch.Days = &parsed
				}

				updated, state, err := a.reminders.Update(cmd.Context(), args[0], patch)
				if err != nil {
					return err
				}
				reportSync(cmd, state)
				fmt.Fprintf(cmd.OutOrStdout(), "Updated reminder %s: %s at %s on %s\n",
					updated.ID, updated.MedicineName, updated.Time, strings.Join(updated.Days, ","))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&medicine, "medicine", "", "Medicine name")
	cmd.Flags().StringVar(&dosage, "dosage", "", "Dosage note")
	cmd.Flags().StringVar(&at, "time", "", "Time of day in 24h HH:MM format")
	cmd.Flags().StringVar(&days, "days", "", "Comma-separated weekdays (Mon..Sun)")
	return cmd
}

func newRemindersFromScanCommand(ctx *commandContext) *cobra.Command {
	var at, days string

	cmd := &cobra.Command{
		Use:   "from-scan <result-id>",
		Short: "Create reminders for every medicine in a cached scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				result, err := a.history.Get(args[0])
				if err != nil {
					return err
				}
				created, err := a.reminders.FromResult(cmd.Context(), result, at, parseDays(days))
				if err != nil {
					return err
				}
				for _, reminder := range created {
					fmt.Fprintf(cmd.OutOrStdout(), "Added reminder %s: %s at %s\n", reminder.ID, reminder.MedicineName, reminder.Time)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "time", "08:00", "Time of day in 24h HH:MM format")
	cmd.Flags().StringVar(&days, "days", "Mon,Tue,Wed,Thu,Fri,Sat,Sun", "Comma-separated weekdays (Mon..Sun)")
	return cmd
}

func newRemindersSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace local reminders with the backend copy (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if _, ok := a.session.UserID(); !ok {
					return fmt.Errorf("not logged in; run `zovida login <user-id>` first")
				}
				if err := a.reminders.Init(cmd.Context()); err != nil {
					return err
				}
				all, err := a.reminders.List()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d reminders from backend\n", len(all))
				return nil
			})
		},
	}
}
