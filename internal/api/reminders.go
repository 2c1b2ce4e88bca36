package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// ReminderRecord is a reminder row as stored by the backend. The backend uses
// snake_case for the create and patch bodies but camelCase for the list
// response, so the wire shapes live on the per-call payload structs.
type ReminderRecord struct {
	ID           int
	MedicineName string
	Dosage       string
	Time         string
	Days         []string
	IsActive     bool
}

// ReminderPatch carries the fields of a reminder update. Nil fields are left
// unchanged by the backend.
type ReminderPatch struct {
	MedicineName *string   `json:"medicine_name,omitempty"`
	Dosage       *string   `json:"dosage,omitempty"`
	Time         *string   `json:"time,omitempty"`
	Days         *[]string `json:"days,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

// CreateReminder registers a reminder for the user and returns the
// backend-assigned numeric id.
func (c *Client) CreateReminder(ctx context.Context, userID string, record ReminderRecord) (int, error) {
	payload := struct {
		UserID       string   `json:"user_id"`
		MedicineName string   `json:"medicine_name"`
		Dosage       string   `json:"dosage"`
		Time         string   `json:"time"`
		Days         []string `json:"days"`
		IsActive     bool     `json:"is_active"`
	}{
		UserID:       userID,
		MedicineName: record.MedicineName,
		Dosage:       record.Dosage,
		Time:         record.Time,
		Days:         record.Days,
		IsActive:     record.IsActive,
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("reminders"), payload, &created); err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}
	return created.ID, nil
}

// UpdateReminder applies a partial update to a backend reminder.
func (c *Client) UpdateReminder(ctx context.Context, id int, patch ReminderPatch) error {
	url := c.endpoint("reminders", strconv.Itoa(id))
	if err := c.doJSON(ctx, http.MethodPatch, url, patch, nil); err != nil {
		return fmt.Errorf("update reminder %d: %w", id, err)
	}
	return nil
}

// DeleteReminder removes a backend reminder.
func (c *Client) DeleteReminder(ctx context.Context, id int) error {
	url := c.endpoint("reminders", strconv.Itoa(id))
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return nil
}

// ListReminders fetches the user's reminders from the backend.
func (c *Client) ListReminders(ctx context.Context, userID string) ([]ReminderRecord, error) {
	var rows []struct {
		ID           int      `json:"id"`
		MedicineName string   `json:"medicineName"`
		Dosage       string   `json:"dosage"`
		Time         string   `json:"time"`
		Days         []string `json:"days"`
		IsActive     bool     `json:"isActive"`
	}
	url := c.endpoint("reminders", userID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &rows); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	records := make([]ReminderRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ReminderRecord{
			ID:           row.ID,
			MedicineName: row.MedicineName,
			Dosage:       row.Dosage,
			Time:         row.Time,
			Days:         row.Days,
			IsActive:     row.IsActive,
		})
	}
	return records, nil
}
