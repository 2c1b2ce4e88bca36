package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Passport is a shareable snapshot of a user's medication profile. Data is an
// opaque document assembled by the caller and rendered by whoever opens the
// share link.
type Passport struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id"`
	Data   json.RawMessage `json:"data"`
}

// SavePassport uploads a passport snapshot under the given share id.
func (c *Client) SavePassport(ctx context.Context, passport Passport) error {
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("passport", "save"), passport, nil); err != nil {
		return fmt.Errorf("save passport: %w", err)
	}
	return nil
}

// FetchPassport retrieves a shared snapshot by id. The backend returns the
// raw data document, not the saved envelope.
func (c *Client) FetchPassport(ctx context.Context, id string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("passport", id), nil, &data); err != nil {
		return nil, fmt.Errorf("fetch passport: %w", err)
	}
	return data, nil
}
