package main

import (
	"bytes"
	"strings"
	"testing"

	"zovida/internal/medsafety"
)

func TestRootCommandListsSubcommands(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help: %v", err)
	}
	help := out.String()
	for _, name := range []string{"scan", "check", "history", "reminders", "appointments", "chat", "config"} {
		if !strings.Contains(help, name) {
			t.Errorf("help output missing %q", name)
		}
	}
}

func TestRiskLabel(t *testing.T) {
	tests := []struct {
		in   medsafety.RiskLevel
		want string
	}{
		{medsafety.RiskDanger, "DANGER"},
		{medsafety.RiskCaution, "CAUTION"},
		{medsafety.RiskSafe, "SAFE"},
		{"", "SAFE"},
	}
	for _, tt := range tests {
		if got := riskLabel(tt.in); got != tt.want {
			t.Errorf("riskLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
