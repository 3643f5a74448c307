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

// SubscriptionRow is a row of the subscriptions table. At most one row per
// user has active=true at any time; subscribing deactivates rather than
// deletes the prior row.
type SubscriptionRow struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	PlanID         string    `json:"plan_id"`
	PlanName       string    `json:"plan_name"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	GymAccess      bool      `json:"gym_access"`
	MealsRemaining int       `json:"meals_remaining"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type SubscriptionCreate struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	PlanID         string `json:"plan_id"`
	PlanName       string `json:"plan_name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	GymAccess      bool   `json:"gym_access"`
	MealsRemaining int    `json:"meals_remaining"`
	Active         bool   `json:"active"`
}

func (c SubscriptionCreate) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user_id cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(c.PlanID) == "" {
		return fmt.Errorf("%w: plan_id cannot be empty", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
		return fmt.Errorf("%w: invalid start_date %q", ErrInvalidInput, c.StartDate)
	}
	if _, err := time.Parse(DateLayout, c.EndDate); err != nil {
		return fmt.Errorf("%w: invalid end_date %q", ErrInvalidInput, c.EndDate)
	}
	return nil
}

// GetActiveSubscription returns the user's most recent active subscription
// row, or ErrNotFound when none is active.
func (r *Repository) GetActiveSubscription(ctx context.Context, userID string) (*SubscriptionRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}

	query := "user_id=eq." + url.QueryEscape(userID) + "&active=eq.true&order=created_at.desc&limit=1"
	data, err := r.client.request(ctx, "GET", "subscriptions", nil, query)
	if err != nil {
		return nil, fmt.Errorf("%w: get active subscription: %v", ErrDatabaseError, err)
	}

	var rows []SubscriptionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal subscriptions: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("subscription", userID)
	}
	return &rows[0], nil
}

// DeactivateSubscriptions flips active=false on the user's active rows.
// A user with no active row is a no-op, not an error.
func (r *Repository) DeactivateSubscriptions(ctx context.Context, userID string) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}

	query := "user_id=eq." + url.QueryEscape(userID) + "&active=eq.true"
	update := map[string]bool{"active": false}
	if _, err := r.client.request(ctx, "PATCH", "subscriptions", update, query); err != nil {
		return fmt.Errorf("%w: deactivate subscriptions: %v", ErrDatabaseError, err)
	}
	return nil
}

// CreateSubscription inserts a new subscription row.
func (r *Repository) CreateSubscription(ctx context.Context, create SubscriptionCreate) (*SubscriptionRow, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	if create.ID == "" {
		create.ID = uuid.NewString()
	}
	if err := create.validate(); err != nil {
		return nil, err
	}

	data, err := r.client.request(ctx, "POST", "subscriptions", create, "")
	if err != nil {
		return nil, fmt.Errorf("%w: create subscription: %v", ErrDatabaseError, err)
	}

	var rows []SubscriptionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal subscriptions: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: create subscription returned empty response", ErrDatabaseError)
	}
	return &rows[0], nil
}
