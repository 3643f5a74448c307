package database

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Profile is a row of the profiles table, keyed by the auth user id.
type Profile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	AvatarURL         *string   `json:"avatar_url"`
	DailyCaloriesGoal float64   `json:"daily_calories_goal"`
	DailyProteinGoal  float64   `json:"daily_protein_goal"`
	DailyCarbsGoal    float64   `json:"daily_carbs_goal"`
	DailyFatGoal      float64   `json:"daily_fat_goal"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ProfileCreate struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	DailyCaloriesGoal float64 `json:"daily_calories_goal"`
	DailyProteinGoal  float64 `json:"daily_protein_goal"`
	DailyCarbsGoal    float64 `json:"daily_carbs_goal"`
	DailyFatGoal      float64 `json:"daily_fat_goal"`
}

// ProfileUpdate carries a partial column map; nil fields are left untouched.
type ProfileUpdate struct {
	Name              *string  `json:"name,omitempty"`
	AvatarURL         *string  `json:"avatar_url,omitempty"`
	DailyCaloriesGoal *float64 `json:"daily_calories_goal,omitempty"`
	DailyProteinGoal  *float64 `json:"daily_protein_goal,omitempty"`
	DailyCarbsGoal    *float64 `json:"daily_carbs_goal,omitempty"`
	DailyFatGoal      *float64 `json:"daily_fat_goal,omitempty"`
}

func (c ProfileCreate) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: profile id cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}
	return nil
}

// GetProfile fetches the single profile row for a user id.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}

	query := "id=eq." + url.QueryEscape(userID) + "&limit=1"
	data, err := r.client.request(ctx, "GET", "profiles", nil, query)
	if err != nil {
		return nil, fmt.Errorf("%w: get profile: %v", ErrDatabaseError, err)
	}

	var rows []Profile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal profiles: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("profile", userID)
	}
	return &rows[0], nil
}

// CreateProfile inserts the profile row paired with a new auth identity.
func (r *Repository) CreateProfile(ctx context.Context, create ProfileCreate) (*Profile, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	if err := create.validate(); err != nil {
		return nil, err
	}

	data, err := r.client.request(ctx, "POST", "profiles", create, "")
	if err != nil {
		return nil, fmt.Errorf("%w: create profile: %v", ErrDatabaseError, err)
	}

	var rows []Profile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal profiles: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: create profile returned empty response", ErrDatabaseError)
	}
	return &rows[0], nil
}

// UpdateProfile applies a partial update to the user's profile row.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}

	query := "id=eq." + url.QueryEscape(userID)
	data, err := r.client.request(ctx, "PATCH", "profiles", update, query)
	if err != nil {
		return nil, fmt.Errorf("%w: update profile: %v", ErrDatabaseError, err)
	}

	var rows []Profile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal profiles: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("profile", userID)
	}
	return &rows[0], nil
}
