package api

import (
	"context"
	"fmt"
	"net/http"
)

// Profile is the user's account record as stored by the backend.
type Profile struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Age        int      `json:"age"`
	Conditions []string `json:"conditions"`
	Allergies  []string `json:"allergies"`
}

// FetchProfile retrieves a user's account profile.
func (c *Client) FetchProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	url := c.endpoint("users", "profile", userID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &profile, nil
}
