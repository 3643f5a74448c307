package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// MealRow is a row of the meals catalogue table. Optional columns are
// pointers; the domain mapping supplies fallbacks for nulls.
type MealRow struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	ImageURL          *string   `json:"image_url"`
	Calories          float64   `json:"calories"`
	Protein           float64   `json:"protein"`
	Carbs             float64   `json:"carbs"`
	Fat               float64   `json:"fat"`
	RestaurantID      *string   `json:"restaurant_id"`
	RestaurantName    *string   `json:"restaurant_name"`
	RestaurantLogoURL *string   `json:"restaurant_logo_url"`
	Category          []string  `json:"category"`
	Ingredients       []string  `json:"ingredients"`
	Price             *float64  `json:"price"`
	Available         bool      `json:"available"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListAvailableMeals returns the available subset of the catalogue, newest
// first.
func (r *Repository) ListAvailableMeals(ctx context.Context) ([]MealRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}

	query := "available=eq.true&order=created_at.desc"
	data, err := r.client.request(ctx, "GET", "meals", nil, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list meals: %v", ErrDatabaseError, err)
	}

	var rows []MealRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal meals: %v", ErrDatabaseError, err)
	}
	return rows, nil
}
