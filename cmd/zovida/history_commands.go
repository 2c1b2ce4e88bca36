package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zovida/internal/medsafety"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Scan history",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryRestoreCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past scans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				local, err := a.history.List()
				if err != nil {
					return err
				}

				results := local
				if userID, ok := a.session.UserID(); ok && !localOnly {
					remote, err := a.client.History(cmd.Context(), userID)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: backend history unavailable: %v\n", err)
					} else {
						results = medsafety.MergeHistory(local, remote)
					}
				}

				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet")
					return nil
				}

				rows := make([][]string, 0, len(results))
				for _, result := range results {
					source := "local"
					if result.FromBackend() {
						source = "backend"
					}
					rows = append(rows, []string{
						result.ID,
						result.Timestamp.Format("2006-01-02 15:04"),
						strings.Join(result.MedicineNames(), ", "),
						riskLabel(result.OverallRisk),
						strconv.Itoa(len(result.Interactions)),
						source,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "When", "Medicines", "Risk", "Interactions", "Source"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "Skip the backend and list only locally cached scans")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one cached scan in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				result, err := a.history.Get(args[0])
				if err != nil {
					return err
				}
				renderResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func newHistoryRestoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Make a past scan the current result again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				result, err := a.history.Get(args[0])
				if err != nil {
					// Backend rows are not cached locally until restored.
					userID, ok := a.session.UserID()
					if !ok {
						return err
					}
					remote, remoteErr := a.client.History(cmd.Context(), userID)
					if remoteErr != nil {
						return err
					}
					found := false
					for _, candidate := range remote {
						if candidate.ID == args[0] {
							result = candidate
							found = true
							break
						}
					}
					if !found {
						return err
					}
				}
				a.scan.SetResult(result)
				renderResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all locally cached scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.history.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Local scan history cleared")
				return nil
			})
		},
	}
}
