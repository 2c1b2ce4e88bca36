package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zovida/internal/api"
)

func newAlertsCommand(ctx *commandContext) *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Regional health alerts and outbreak notices",
	}
	alertsCmd.AddCommand(newAlertsListCommand(ctx))
	alertsCmd.AddCommand(newAlertsReportCommand(ctx))
	return alertsCmd
}

func newAlertsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current health notices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				alerts, err := a.client.ListAlerts(cmd.Context())
				if err != nil {
					return err
				}
				if len(alerts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No active health notices")
					return nil
				}
				rows := make([][]string, 0, len(alerts))
				for _, alert := range alerts {
					rows = append(rows, []string{
						alert.Type,
						strings.ToUpper(alert.Severity),
						alert.Title,
						alert.Region,
						strconv.Itoa(alert.CasesReported),
						alert.Timestamp,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Type", "Severity", "Notice", "Region", "Cases", "Published"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newAlertsReportCommand(ctx *commandContext) *cobra.Command {
	var alertType, description, region, severity string
	var cases int

	cmd := &cobra.Command{
		Use:   "report <title>",
		Short: "Report a health notice or statistic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.client.ReportAlert(cmd.Context(), api.HealthAlert{
					Type:          alertType,
					Title:         args[0],
					Description:   description,
					Region:        region,
					CasesReported: cases,
					Severity:      severity,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reported %q\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&alertType, "type", "statistic", "Notice type: outbreak, statistic, or event")
	cmd.Flags().StringVar(&description, "description", "", "What happened")
	cmd.Flags().StringVar(&region, "region", "", "Affected region")
	cmd.Flags().IntVar(&cases, "cases", 0, "Number of cases observed")
	cmd.Flags().StringVar(&severity, "severity", "medium", "Severity: low, medium, or high")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}
