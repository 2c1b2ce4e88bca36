package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"zovida/internal/config"
	"zovida/internal/medsafety"
	"zovida/internal/notifications"
)

func dangerResult() medsafety.AnalysisResult {
	interactions := []medsafety.Interaction{{
		Drug1:    "Aspirin",
		Drug2:    "Warfarin",
		Severity: medsafety.RiskDanger,
	}}
	return medsafety.AnalysisResult{
		ID: "scan-1",
		Medicines: []medsafety.Medicine{
			{ID: "m1", Name: "Aspirin"},
			{ID: "m2", Name: "Warfarin"},
		},
		OverallRisk:  medsafety.OverallRisk(interactions),
		Interactions: interactions,
	}
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyReminderDue(context.Background(), "Aspirin", "100mg", "08:00"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "reminder due",
			send: func(svc notifications.Service) error {
				return svc.NotifyReminderDue(context.Background(), "Aspirin", "100mg", "08:00")
			},
			expectTitle:    "Zovida - Medication Reminder",
			expectMessage:  "💊 Time to take Aspirin (100mg)\nScheduled for 08:00",
			expectTags:     "zovida,reminder,due",
			expectPriority: "high",
		},
		{
			name: "analysis complete",
			send: func(svc notifications.Service) error {
				return svc.NotifyAnalysisComplete(context.Background(), dangerResult())
			},
			expectTitle:   "Zovida - Scan Complete",
			expectMessage: "✅ Checked 2 medicines (Aspirin, Warfarin): danger",
			expectTags:    "zovida,scan,completed",
		},
		{
			name: "danger detected",
			send: func(svc notifications.Service) error {
				return svc.NotifyDangerDetected(context.Background(), dangerResult())
			},
			expectTitle:    "Zovida - Dangerous Interaction",
			expectMessage:  "⚠️ Dangerous combination detected: Aspirin + Warfarin\nConsult your doctor before taking these together.",
			expectTags:     "zovida,scan,danger",
			expectPriority: "urgent",
		},
		{
			name: "appointment booked",
			send: func(svc notifications.Service) error {
				return svc.NotifyAppointmentBooked(context.Background(), "Dr. Chen", "2026-09-15", "10:30")
			},
			expectTitle:   "Zovida - Appointment Booked",
			expectMessage: "📅 Appointment with Dr. Chen on 2026-09-15 at 10:30",
			expectTags:    "zovida,appointment,booked",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("backend unreachable"), "scan")
			},
			expectTitle:    "Zovida - Error",
			expectMessage:  "❌ Error with scan: backend unreachable",
			expectTags:     "zovida,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Reminders = true
			cfg.Notifications.Scans = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestCategorySwitchesMuteDelivery(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Reminders = false
	cfg.Notifications.Scans = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyReminderDue(context.Background(), "Aspirin", "", "08:00"); err != nil {
		t.Fatalf("NotifyReminderDue: %v", err)
	}
	if err := svc.NotifyAnalysisComplete(context.Background(), dangerResult()); err != nil {
		t.Fatalf("NotifyAnalysisComplete: %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "scan"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected muted categories to skip delivery, got %d calls", calls)
	}
}
