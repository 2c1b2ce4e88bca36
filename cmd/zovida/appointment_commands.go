package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zovida/internal/appointments"
)

func newAppointmentsCommand(ctx *commandContext) *cobra.Command {
	appointmentsCmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appointment"},
		Short:   "Doctor appointments",
	}
	appointmentsCmd.AddCommand(newAppointmentsListCommand(ctx))
	appointmentsCmd.AddCommand(newAppointmentsAddCommand(ctx))
	appointmentsCmd.AddCommand(newAppointmentsCancelCommand(ctx))
	appointmentsCmd.AddCommand(newAppointmentsCompleteCommand(ctx))
	return appointmentsCmd
}

func newAppointmentsListCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments in chronological order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				var (
					items []appointments.Appointment
					err   error
				)
				if all {
					items, err = a.appointments.List()
				} else {
					items, err = a.appointments.Upcoming()
				}
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No appointments")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, appointment := range items {
					rows = append(rows, []string{
						appointment.ID,
						appointment.Date,
						appointment.Time,
						appointment.DoctorName,
						appointment.Specialty,
						appointment.Location,
						string(appointment.Status),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Date", "Time", "Doctor", "Specialty", "Location", "Status"},
					rows, nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include cancelled and completed appointments")
	return cmd
}

func newAppointmentsAddCommand(ctx *commandContext) *cobra.Command {
	var doctorID, specialty, date, at, location, notes string

	cmd := &cobra.Command{
		Use:   "add <doctor>",
		Short: "Book an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				booked, err := a.appointments.Add(appointments.Appointment{
					DoctorID:   doctorID,
					DoctorName: args[0],
					Specialty:  specialty,
					Date:       date,
					Time:       at,
					Location:   location,
					Notes:      notes,
				})
				if err != nil {
					return err
				}
				_ = a.notifier.NotifyAppointmentBooked(cmd.Context(), booked.DoctorName, booked.Date, booked.Time)
				fmt.Fprintf(cmd.OutOrStdout(), "Booked appointment %s with %s on %s at %s\n",
					booked.ID, booked.DoctorName, booked.Date, booked.Time)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&doctorID, "doctor-id", "", "Directory id of the doctor")
	cmd.Flags().StringVar(&specialty, "specialty", "", "Doctor specialty")
	cmd.Flags().StringVar(&date, "date", "", "Date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&at, "time", "", "Time of day in 24h HH:MM format")
	cmd.Flags().StringVar(&location, "location", "", "Clinic or hospital")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func newAppointmentsCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment (keeps it in the list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.appointments.Cancel(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cancelled appointment %s\n", args[0])
				return nil
			})
		},
	}
}

func newAppointmentsCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an appointment as attended",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.appointments.Complete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked appointment %s as completed\n", args[0])
				return nil
			})
		},
	}
}
