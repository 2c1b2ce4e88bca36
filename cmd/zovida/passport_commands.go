package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"zovida/internal/api"
)

// passportData is the document shared through a health passport link. It is
// assembled client-side from the local stores.
type passportData struct {
	Medicines    []string          `json:"medicines"`
	Reminders    []passportEntry   `json:"reminders"`
	RecentScans  []passportScan    `json:"recent_scans"`
	Appointments []passportBooking `json:"appointments"`
}

type passportEntry struct {
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
	Time     string `json:"time"`
}

type passportScan struct {
	Timestamp string   `json:"timestamp"`
	Medicines []string `json:"medicines"`
	Risk      string   `json:"risk"`
}

type passportBooking struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

func newPassportCommand(ctx *commandContext) *cobra.Command {
	passportCmd := &cobra.Command{
		Use:   "passport",
		Short: "Shareable health passport",
	}
	passportCmd.AddCommand(newPassportShareCommand(ctx))
	passportCmd.AddCommand(newPassportShowCommand(ctx))
	return passportCmd
}

func newPassportShareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Upload a passport snapshot and print its share id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				data, err := buildPassportData(a)
				if err != nil {
					return err
				}
				encoded, err := json.Marshal(data)
				if err != nil {
					return fmt.Errorf("encode passport: %w", err)
				}

				userID := a.cfg.Backend.AnonymousUserID
				if id, ok := a.session.UserID(); ok {
					userID = id
				}
				shareID := uuid.NewString()
				if err := a.client.SavePassport(cmd.Context(), api.Passport{
					ID:     shareID,
					UserID: userID,
					Data:   encoded,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Passport shared with id %s\n", shareID)
				return nil
			})
		},
	}
}

func newPassportShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <share-id>",
		Short: "Fetch and display a shared passport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				raw, err := a.client.FetchPassport(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var data passportData
				if err := json.Unmarshal(raw, &data); err != nil {
					return fmt.Errorf("decode passport data: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Passport %s\n", args[0])
				if len(data.Medicines) > 0 {
					fmt.Fprintf(out, "Medicines: %s\n", strings.Join(data.Medicines, ", "))
				}
				for _, reminder := range data.Reminders {
					fmt.Fprintf(out, "Reminder: %s %s at %s\n", reminder.Medicine, reminder.Dosage, reminder.Time)
				}
				for _, scan := range data.RecentScans {
					fmt.Fprintf(out, "Scan %s: %s (%s)\n", scan.Timestamp, strings.Join(scan.Medicines, ", "), scan.Risk)
				}
				for _, booking := range data.Appointments {
					fmt.Fprintf(out, "Appointment: %s on %s at %s\n", booking.Doctor, booking.Date, booking.Time)
				}
				return nil
			})
		},
	}
}

func buildPassportData(a *app) (passportData, error) {
	var data passportData

	all, err := a.reminders.List()
	if err != nil {
		return data, err
	}
	seen := make(map[string]struct{})
	for _, reminder := range all {
		if _, dup := seen[reminder.MedicineName]; !dup {
			seen[reminder.MedicineName] = struct{}{}
			data.Medicines = append(data.Medicines, reminder.MedicineName)
		}
		data.Reminders = append(data.Reminders, passportEntry{
			Medicine: reminder.MedicineName,
			Dosage:   reminder.Dosage,
			Time:     reminder.Time,
		})
	}

	scans, err := a.history.List()
	if err != nil {
		return data, err
	}
	for _, result := range scans {
		data.RecentScans = append(data.RecentScans, passportScan{
			Timestamp: result.Timestamp.Format("2006-01-02 15:04"),
			Medicines: result.MedicineNames(),
			Risk:      string(result.OverallRisk),
		})
	}

	bookings, err := a.appointments.Upcoming()
	if err != nil {
		return data, err
	}
	for _, booking := range bookings {
		data.Appointments = append(data.Appointments, passportBooking{
			Doctor: booking.DoctorName,
			Date:   booking.Date,
			Time:   booking.Time,
		})
	}
	return data, nil
}
