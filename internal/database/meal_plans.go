package database

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealPlanRow assigns a meal to a (date, meal_time) slot for one user.
type MealPlanRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MealID    string    `json:"meal_id"`
	Date      string    `json:"date"`
	MealTime  string    `json:"meal_time"`
	CreatedAt time.Time `json:"created_at"`
}

type MealPlanCreate struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	MealID   string `json:"meal_id"`
	Date     string `json:"date"`
	MealTime string `json:"meal_time"`
}

func (c MealPlanCreate) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user_id cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(c.MealID) == "" {
		return fmt.Errorf("%w: meal_id cannot be empty", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, c.Date)
	}
	if strings.TrimSpace(c.MealTime) == "" {
		return fmt.Errorf("%w: meal_time cannot be empty", ErrInvalidInput)
	}
	return nil
}

// ListMealPlansFrom returns the user's plan rows with date >= the given date,
// ascending.
func (r *Repository) ListMealPlansFrom(ctx context.Context, userID, date string) ([]MealPlanRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, date)
	}

	query := "user_id=eq." + url.QueryEscape(userID) + "&date=gte." + url.QueryEscape(date) + "&order=date.asc"
	data, err := r.client.request(ctx, "GET", "meal_plans", nil, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list meal plans: %v", ErrDatabaseError, err)
	}

	var rows []MealPlanRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal meal_plans: %v", ErrDatabaseError, err)
	}
	return rows, nil
}

// DeleteMealPlanSlot removes whatever occupies (user, date, slot). Deleting
// an empty slot is not an error.
func (r *Repository) DeleteMealPlanSlot(ctx context.Context, userID, date, slot string) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, date)
	}
	if strings.TrimSpace(slot) == "" {
		return fmt.Errorf("%w: slot cannot be empty", ErrInvalidInput)
	}

	query := "user_id=eq." + url.QueryEscape(userID) +
		"&date=eq." + url.QueryEscape(date) +
		"&meal_time=eq." + url.QueryEscape(slot)
	if _, err := r.client.request(ctx, "DELETE", "meal_plans", nil, query); err != nil {
		return fmt.Errorf("%w: delete meal plan slot: %v", ErrDatabaseError, err)
	}
	return nil
}

// ReplaceMealPlanSlot enforces the one-entry-per-slot invariant: it deletes
// any occupant of (user, date, meal_time) and inserts the new row. The two
// round trips are not transactional; if the insert fails after the delete
// succeeded, the slot is left empty and the insert error is returned.
func (r *Repository) ReplaceMealPlanSlot(ctx context.Context, create MealPlanCreate) (*MealPlanRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	if create.ID == "" {
		create.ID = uuid.NewString()
	}
	if err := create.validate(); err != nil {
		return nil, err
	}

	if err := r.DeleteMealPlanSlot(ctx, create.UserID, create.Date, create.MealTime); err != nil {
		return nil, err
	}

	data, err := r.client.request(ctx, "POST", "meal_plans", create, "")
	if err != nil {
		return nil, fmt.Errorf("%w: create meal plan: %v", ErrDatabaseError, err)
	}

	var rows []MealPlanRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal meal_plans: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: create meal plan returned empty response", ErrDatabaseError)
	}
	return &rows[0], nil
}
