package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"zovida/internal/medsafety"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Analyze a prescription image for drug interactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				a.scan.StartScanning()
				if err := a.scan.CaptureImage(args[0]); err != nil {
					return err
				}
				result, err := a.scan.Analyze(cmd.Context())
				if err != nil {
					return err
				}
				notifyScanOutcome(cmd, a, result)
				renderResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <drug>...",
		Short: "Check a list of drugs for interactions without an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				result, err := a.scan.CheckDrugs(cmd.Context(), args)
				if err != nil {
					return err
				}
				notifyScanOutcome(cmd, a, result)
				renderResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func notifyScanOutcome(cmd *cobra.Command, a *app, result medsafety.AnalysisResult) {
	ctx := cmd.Context()
	if result.OverallRisk == medsafety.RiskDanger {
		_ = a.notifier.NotifyDangerDetected(ctx, result)
		return
	}
	_ = a.notifier.NotifyAnalysisComplete(ctx, result)
}

func renderResult(out io.Writer, result medsafety.AnalysisResult) {
	fmt.Fprintf(out, "Result %s (%s)\n", result.ID, result.Timestamp.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Overall risk: %s\n\n", riskLabel(result.OverallRisk))

	if len(result.Medicines) > 0 {
		rows := make([][]string, 0, len(result.Medicines))
		for _, medicine := range result.Medicines {
			rows = append(rows, []string{medicine.Name, medicine.Dosage, medicine.Frequency})
		}
		fmt.Fprintln(out, renderTable([]string{"Medicine", "Dosage", "Frequency"}, rows, nil))
	}

	if len(result.Interactions) > 0 {
		fmt.Fprintln(out, "\nInteractions:")
		for _, interaction := range result.Interactions {
			pair := interaction.Drug1
			if interaction.Drug2 != "" {
				pair += " + " + interaction.Drug2
			}
			fmt.Fprintf(out, "  [%s] %s\n", riskLabel(interaction.Severity), pair)
			if interaction.Description != "" {
				fmt.Fprintf(out, "      %s\n", interaction.Description)
			}
			if interaction.Recommendation != "" {
				fmt.Fprintf(out, "      Recommendation: %s\n", interaction.Recommendation)
			}
		}
	}

	if result.SimpleExplanation != "" {
		fmt.Fprintf(out, "\n%s\n", result.SimpleExplanation)
	} else if result.AIExplanation != "" {
		fmt.Fprintf(out, "\n%s\n", result.AIExplanation)
	}
	if result.SafetyTimeline != nil && result.SafetyTimeline.Message != "" {
		fmt.Fprintf(out, "\nTimeline (%s): %s\n", result.SafetyTimeline.Urgency, result.SafetyTimeline.Message)
	}
	if len(result.LifestyleWarnings) > 0 {
		fmt.Fprintf(out, "\nLifestyle warnings:\n  - %s\n", strings.Join(result.LifestyleWarnings, "\n  - "))
	}
	if len(result.EmergencySigns) > 0 {
		fmt.Fprintf(out, "\nSeek help immediately if you notice:\n  - %s\n", strings.Join(result.EmergencySigns, "\n  - "))
	}
}

func riskLabel(risk medsafety.RiskLevel) string {
	switch risk {
	case medsafety.RiskDanger:
		return "DANGER"
	case medsafety.RiskCaution:
		return "CAUTION"
	default:
		return "SAFE"
	}
}
