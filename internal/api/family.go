package api

import (
	"context"
	"fmt"
	"net/http"
)

// FamilyMember is an emergency contact as returned by the backend. The list
// response uses camelCase for locationAccess and string ids.
type FamilyMember struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Relation       string `json:"relation"`
	Phone          string `json:"phone"`
	Notifications  bool   `json:"notifications"`
	LocationAccess bool   `json:"locationAccess"`
}

// FamilyPatch carries the two switches the backend lets a contact update.
// Nil fields stay unchanged.
type FamilyPatch struct {
	Notifications  *bool `json:"notifications,omitempty"`
	LocationAccess *bool `json:"location_access,omitempty"`
}

// ListFamilyMembers fetches the user's registered contacts.
func (c *Client) ListFamilyMembers(ctx context.Context, userID string) ([]FamilyMember, error) {
	var members []FamilyMember
	url := c.endpoint("family", userID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &members); err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	return members, nil
}

// AddFamilyMember registers a contact and returns the backend-assigned id.
// The backend enables notifications and disables location access on creation;
// use UpdateFamilyMember to change either switch.
func (c *Client) AddFamilyMember(ctx context.Context, userID string, member FamilyMember) (string, error) {
	payload := struct {
		UserID   string `json:"user_id"`
		Name     string `json:"name"`
		Relation string `json:"relation"`
		Phone    string `json:"phone"`
	}{UserID: userID, Name: member.Name, Relation: member.Relation, Phone: member.Phone}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("family"), payload, &created); err != nil {
		return "", fmt.Errorf("add family member: %w", err)
	}
	return created.ID, nil
}

// UpdateFamilyMember patches a contact's notification and location switches.
func (c *Client) UpdateFamilyMember(ctx context.Context, id string, patch FamilyPatch) error {
	url := c.endpoint("family", id)
	if err := c.doJSON(ctx, http.MethodPatch, url, patch, nil); err != nil {
		return fmt.Errorf("update family member %s: %w", id, err)
	}
	return nil
}

// RemoveFamilyMember deletes a registered contact.
func (c *Client) RemoveFamilyMember(ctx context.Context, id string) error {
	url := c.endpoint("family", id)
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("remove family member %s: %w", id, err)
	}
	return nil
}
