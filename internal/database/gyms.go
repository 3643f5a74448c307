package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GymRow is a read-only partner gym row.
type GymRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	LogoURL   string    `json:"logo_url"`
	Address   string    `json:"address"`
	Distance  string    `json:"distance"`
	Rating    float64   `json:"rating"`
	Amenities []string  `json:"amenities"`
	CreatedAt time.Time `json:"created_at"`
}

// ListGyms returns all partner gyms ordered by name.
func (r *Repository) ListGyms(ctx context.Context) ([]GymRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}

	data, err := r.client.request(ctx, "GET", "gyms", nil, "order=name.asc")
	if err != nil {
		return nil, fmt.Errorf("%w: list gyms: %v", ErrDatabaseError, err)
	}

	var rows []GymRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal gyms: %v", ErrDatabaseError, err)
	}
	return rows, nil
}
