package domain

import "github.com/nutrio-app/nutrio-go/internal/database"

// DailyGoals are the user's per-day macro targets.
type DailyGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ProgressEntry is one day's accumulated intake.
type ProgressEntry struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// UserProfile is the signed-in user as the app consumes it: identity, goals
// and recent progress in one place.
type UserProfile struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	AvatarURL string          `json:"avatarUrl"`
	Goals     DailyGoals      `json:"dailyGoals"`
	Progress  []ProgressEntry `json:"progress"`
}

// ProfileFromRow maps a profiles row. Progress is attached separately from the
// nutrition logs.
func ProfileFromRow(row database.Profile) UserProfile {
	p := UserProfile{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Goals: DailyGoals{
			Calories: row.DailyCaloriesGoal,
			Protein:  row.DailyProteinGoal,
			Carbs:    row.DailyCarbsGoal,
			Fat:      row.DailyFatGoal,
		},
		Progress: []ProgressEntry{},
	}
	if row.AvatarURL != nil {
		p.AvatarURL = *row.AvatarURL
	}
	return p
}

// ProgressFromLogs maps nutrition log rows to progress entries, preserving
// the rows' ascending date order.
func ProgressFromLogs(logs []database.NutritionLog) []ProgressEntry {
	entries := make([]ProgressEntry, len(logs))
	for i, l := range logs {
		entries[i] = ProgressEntry{
			Date:     l.Date,
			Calories: l.Calories,
			Protein:  l.Protein,
			Carbs:    l.Carbs,
			Fat:      l.Fat,
		}
	}
	return entries
}
