package database

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// NutritionLog is one user's accumulated intake for one calendar date.
// Date uses the DateLayout form; at most one row exists per (user, date).
type NutritionLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	CreatedAt time.Time `json:"created_at"`
}

type NutritionLogCreate struct {
	ID       string  `json:"id,omitempty"`
	UserID   string  `json:"user_id"`
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NutritionTotals overwrites the macro columns of an existing row with new
// accumulated totals.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DateLayout is the wire format for nutrition log and meal plan dates.
const DateLayout = "2006-01-02"

func (c NutritionLogCreate) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user_id cannot be empty", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, c.Date)
	}
	return nil
}

// ListRecentNutritionLogs returns up to limit most-recent rows for the user,
// in ascending date order. PostgREST cannot window from the tail directly, so
// the query orders descending and the result is reversed.
func (r *Repository) ListRecentNutritionLogs(ctx context.Context, userID string, limit int) ([]NutritionLog, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userID cannot be empty", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 30
	}

	query := "user_id=eq." + url.QueryEscape(userID) + fmt.Sprintf("&order=date.desc&limit=%d", limit)
	data, err := r.client.request(ctx, "GET", "nutrition_logs", nil, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list nutrition logs: %v", ErrDatabaseError, err)
	}

	var rows []NutritionLog
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal nutrition_logs: %v", ErrDatabaseError, err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// GetNutritionLogByDate fetches the single row for (user, date).
func (r *Repository) GetNutritionLogByDate(ctx context.Context, userID, date string) (*NutritionLog, error) {
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

	query := "user_id=eq." + url.QueryEscape(userID) + "&date=eq." + url.QueryEscape(date) + "&limit=1"
	data, err := r.client.request(ctx, "GET", "nutrition_logs", nil, query)
	if err != nil {
		return nil, fmt.Errorf("%w: get nutrition log: %v", ErrDatabaseError, err)
	}

	var rows []NutritionLog
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal nutrition_logs: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("nutrition_log", userID+"/"+date)
	}
	return &rows[0], nil
}

// CreateNutritionLog inserts the first entry of a day.
func (r *Repository) CreateNutritionLog(ctx context.Context, create NutritionLogCreate) (*NutritionLog, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	if err := create.validate(); err != nil {
		return nil, err
	}

	data, err := r.client.request(ctx, "POST", "nutrition_logs", create, "")
	if err != nil {
		return nil, fmt.Errorf("%w: create nutrition log: %v", ErrDatabaseError, err)
	}

	var rows []NutritionLog
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal nutrition_logs: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: create nutrition log returned empty response", ErrDatabaseError)
	}
	return &rows[0], nil
}

// UpdateNutritionTotals writes back new accumulated totals for a row by id.
func (r *Repository) UpdateNutritionTotals(ctx context.Context, id string, totals NutritionTotals) (*NutritionLog, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("%w: repository not initialized", ErrInvalidInput)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id cannot be empty", ErrInvalidInput)
	}

	query := "id=eq." + url.QueryEscape(id)
	data, err := r.client.request(ctx, "PATCH", "nutrition_logs", totals, query)
	if err != nil {
		return nil, fmt.Errorf("%w: update nutrition log: %v", ErrDatabaseError, err)
	}

	var rows []NutritionLog
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: unmarshal nutrition_logs: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("nutrition_log", id)
	}
	return &rows[0], nil
}
