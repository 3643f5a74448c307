package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RestaurantRow is a read-only partner restaurant row.
type RestaurantRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LogoURL      *string   `json:"logo_url"`
	ImageURL     *string   `json:"image_url"`
	Rating       float64   `json:"rating"`
	CuisineType  *string   `json:"cuisine_type"`
	DeliveryTime *string   `json:"delivery_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListRestaurants returns all partner restaurants, best rated first.
func (r *Repository) ListRestaurants(ctx context.Context) ([]RestaurantRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}

	data, err := r.client.request(ctx, "GET", "restaurants", nil, "order=rating.desc")
	if err != nil {
		return nil, fmt.Errorf("%w: list restaurants: %v", ErrDatabaseError, err)
	}

	var rows []RestaurantRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal restaurants: %v", ErrDatabaseError, err)
	}
	return rows, nil
}
