package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CommunityPost is one experience report shared by a user.
type CommunityPost struct {
	ID                int      `json:"id"`
	UserID            int      `json:"user_id"`
	UserName          string   `json:"user_name"`
	MedicationProfile []string `json:"medication_profile"`
	Experience        string   `json:"experience"`
	SideEffects       string   `json:"side_effects"`
	IsDoctorReviewed  bool     `json:"is_doctor_reviewed"`
	Timestamp         string   `json:"timestamp"`
}

// CommunityStats counts users whose medication profile overlaps the queried
// combination.
type CommunityStats struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// ListCommunityPosts fetches recent community experience posts.
func (c *Client) ListCommunityPosts(ctx context.Context) ([]CommunityPost, error) {
	var posts []CommunityPost
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("community", "posts"), nil, &posts); err != nil {
		return nil, fmt.Errorf("list community posts: %w", err)
	}
	return posts, nil
}

// CreateCommunityPost shares an experience report for the given medication
// profile.
func (c *Client) CreateCommunityPost(ctx context.Context, userID string, profile []string, experience, sideEffects string) error {
	payload := struct {
		UserID            string   `json:"user_id"`
		MedicationProfile []string `json:"medication_profile"`
		Experience        string   `json:"experience"`
		SideEffects       string   `json:"side_effects,omitempty"`
	}{UserID: userID, MedicationProfile: profile, Experience: experience, SideEffects: sideEffects}

	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("community", "posts"), payload, nil); err != nil {
		return fmt.Errorf("create community post: %w", err)
	}
	return nil
}

// CommunitySummary asks the backend for an AI-written digest of community
// experiences with the given medicines.
func (c *Client) CommunitySummary(ctx context.Context, medicines []string) (string, error) {
	var summary struct {
		Summary string `json:"summary"`
	}
	target := c.endpoint("community", "ai-summary") + "?meds=" + url.QueryEscape(strings.Join(medicines, ","))
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &summary); err != nil {
		return "", fmt.Errorf("fetch community summary: %w", err)
	}
	return summary.Summary, nil
}

// MatchingProfileStats counts users taking the same medicine combination.
func (c *Client) MatchingProfileStats(ctx context.Context, medicines []string) (*CommunityStats, error) {
	var stats CommunityStats
	target := c.endpoint("community", "stats", "matching-profile") + "?meds=" + url.QueryEscape(strings.Join(medicines, ","))
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &stats); err != nil {
		return nil, fmt.Errorf("fetch matching profile stats: %w", err)
	}
	return &stats, nil
}
