package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// HealthAlert is an outbreak, statistic, or event notice published by the
// backend.
type HealthAlert struct {
	ID            int    `json:"id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Region        string `json:"region"`
	CasesReported int    `json:"cases_reported"`
	Severity      string `json:"severity"`
	Timestamp     string `json:"timestamp"`
}

// ListAlerts fetches the current health notices, newest first.
func (c *Client) ListAlerts(ctx context.Context) ([]HealthAlert, error) {
	var alerts []HealthAlert
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("alerts"), nil, &alerts); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// ReportAlert submits a health notice or statistic. The report endpoint takes
// its fields as query parameters.
func (c *Client) ReportAlert(ctx context.Context, alert HealthAlert) error {
	params := url.Values{}
	params.Set("alert_type", alert.Type)
	params.Set("title", alert.Title)
	params.Set("description", alert.Description)
	params.Set("cases", strconv.Itoa(alert.CasesReported))
	params.Set("region", alert.Region)
	if alert.Severity != "" {
		params.Set("severity", alert.Severity)
	}

	target := c.endpoint("alerts", "report") + "?" + params.Encode()
	if err := c.doJSON(ctx, http.MethodPost, target, nil, nil); err != nil {
		return fmt.Errorf("report alert: %w", err)
	}
	return nil
}
