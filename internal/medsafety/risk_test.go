package medsafety_test

import (
	"testing"

	"zovida/internal/medsafety"
)

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		label    string
		expected medsafety.RiskLevel
	}{
		{"major", medsafety.RiskDanger},
		{"MAJOR", medsafety.RiskDanger},
		{"danger", medsafety.RiskDanger},
		{"moderate", medsafety.RiskCaution},
		{"caution", medsafety.RiskCaution},
		{"minor", medsafety.RiskSafe},
		{"", medsafety.RiskSafe},
		{"  Moderate  ", medsafety.RiskCaution},
	}
	for _, tc := range cases {
		if got := medsafety.NormalizeSeverity(tc.label); got != tc.expected {
			t.Fatalf("NormalizeSeverity(%q) = %s, want %s", tc.label, got, tc.expected)
		}
	}
}

func TestOverallRiskIsMaxSeverity(t *testing.T) {
	cases := []struct {
		name         string
		interactions []medsafety.Interaction
		expected     medsafety.RiskLevel
	}{
		{"empty", nil, medsafety.RiskSafe},
		{"all safe", []medsafety.Interaction{
			{Drug1: "Aspirin", Severity: medsafety.RiskSafe},
		}, medsafety.RiskSafe},
		{"caution wins over safe", []medsafety.Interaction{
			{Drug1: "Aspirin", Severity: medsafety.RiskSafe},
			{Drug1: "Aspirin", Drug2: "Ibuprofen", Severity: medsafety.RiskCaution},
		}, medsafety.RiskCaution},
		{"danger wins over caution", []medsafety.Interaction{
			{Drug1: "Aspirin", Drug2: "Warfarin", Severity: medsafety.RiskDanger},
			{Drug1: "Aspirin", Drug2: "Ibuprofen", Severity: medsafety.RiskCaution},
		}, medsafety.RiskDanger},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := medsafety.OverallRisk(tc.interactions); got != tc.expected {
				t.Fatalf("OverallRisk = %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestParseRiskLevel(t *testing.T) {
	if level, ok := medsafety.ParseRiskLevel(" Danger "); !ok || level != medsafety.RiskDanger {
		t.Fatalf("ParseRiskLevel(Danger) = %s, %v", level, ok)
	}
	if _, ok := medsafety.ParseRiskLevel("severe"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}

func TestCanonicalName(t *testing.T) {
	if got := medsafety.CanonicalName("  aspirin "); got != "Aspirin" {
		t.Fatalf("CanonicalName = %q", got)
	}
	if got := medsafety.CanonicalName("WARFARIN"); got != "Warfarin" {
		t.Fatalf("CanonicalName = %q", got)
	}
}
