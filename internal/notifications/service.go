package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zovida/internal/config"
	"zovida/internal/medsafety"
)

const userAgent = "Zovida-Go/0.1.0"

// Service defines the notification surface exposed to the workflow and the
// reminder scheduler.
type Service interface {
	NotifyReminderDue(ctx context.Context, medicineName, dosage, at string) error
	NotifyAnalysisComplete(ctx context.Context, result medsafety.AnalysisResult) error
	NotifyDangerDetected(ctx context.Context, result medsafety.AnalysisResult) error
	NotifyAppointmentBooked(ctx context.Context, doctorName, date, at string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		reminders: cfg.Notifications.Reminders,
		scans:     cfg.Notifications.Scans,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	reminders bool
	scans     bool
	errors    bool
}

func (n *ntfyService) NotifyReminderDue(ctx context.Context, medicineName, dosage, at string) error {
	if !n.reminders {
		return nil
	}
	medicineName = strings.TrimSpace(medicineName)
	message := fmt.Sprintf("💊 Time to take %s", medicineName)
	if dosage = strings.TrimSpace(dosage); dosage != "" {
		message = fmt.Sprintf("%s (%s)", message, dosage)
	}
	data := payload{
		title:    "Zovida - Medication Reminder",
		message:  fmt.Sprintf("%s\nScheduled for %s", message, at),
		tags:     []string{"zovida", "reminder", "due"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisComplete(ctx context.Context, result medsafety.AnalysisResult) error {
	if !n.scans {
		return nil
	}
	names := strings.Join(result.MedicineNames(), ", ")
	data := payload{
		title:   "Zovida - Scan Complete",
		message: fmt.Sprintf("✅ Checked %d medicines (%s): %s", len(result.Medicines), names, result.OverallRisk),
		tags:    []string{"zovida", "scan", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDangerDetected(ctx context.Context, result medsafety.AnalysisResult) error {
	if !n.scans {
		return nil
	}
	pairs := make([]string, 0, len(result.Interactions))
	for _, interaction := range result.Interactions {
		if interaction.Severity != medsafety.RiskDanger {
			continue
		}
		if interaction.Drug2 == "" {
			pairs = append(pairs, interaction.Drug1)
			continue
		}
		pairs = append(pairs, interaction.Drug1+" + "+interaction.Drug2)
	}
	data := payload{
		title:    "Zovida - Dangerous Interaction",
		message:  fmt.Sprintf("⚠️ Dangerous combination detected: %s\nConsult your doctor before taking these together.", strings.Join(pairs, "; ")),
		tags:     []string{"zovida", "scan", "danger"},
		priority: "urgent",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAppointmentBooked(ctx context.Context, doctorName, date, at string) error {
	doctorName = strings.TrimSpace(doctorName)
	data := payload{
		title:   "Zovida - Appointment Booked",
		message: fmt.Sprintf("📅 Appointment with %s on %s at %s", doctorName, date, at),
		tags:    []string{"zovida", "appointment", "booked"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Zovida - Error",
		message:  builder.String(),
		tags:     []string{"zovida", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Zovida - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"zovida", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReminderDue(context.Context, string, string, string) error          { return nil }
func (noopService) NotifyAnalysisComplete(context.Context, medsafety.AnalysisResult) error   { return nil }
func (noopService) NotifyDangerDetected(context.Context, medsafety.AnalysisResult) error     { return nil }
func (noopService) NotifyAppointmentBooked(context.Context, string, string, string) error    { return nil }
func (noopService) NotifyError(context.Context, error, string) error                         { return nil }
func (noopService) TestNotification(context.Context) error                                   { return nil }
