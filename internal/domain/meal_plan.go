package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/nutrio-app/nutrio-go/internal/database"
)

// MealSlot is a position within a day's plan. Stored lowercase; comparison is
// case-insensitive so legacy capitalized rows still group correctly.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// Label returns the slot name for display.
func (s MealSlot) Label() string {
	str := string(s)
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

func slotRank(s MealSlot) int {
	switch MealSlot(strings.ToLower(string(s))) {
	case SlotBreakfast:
		return 0
	case SlotLunch:
		return 1
	case SlotDinner:
		return 2
	default:
		return 3
	}
}

// PlannedMeal is one occupied slot of a day's plan.
type PlannedMeal struct {
	ID   string   `json:"id"`
	Slot MealSlot `json:"slot"`
	Meal Meal     `json:"meal"`
}

// DayPlan is the plan for one calendar date.
type DayPlan struct {
	Date  string        `json:"date"`
	Meals []PlannedMeal `json:"meals"`
}

// GroupPlans turns flat plan rows into per-day plans. Days come out in
// ascending date order, and within a day the slots run breakfast, lunch,
// dinner, then any unknown slots alphabetically. Rows pointing at meals
// missing from the catalogue are dropped.
func GroupPlans(rows []database.MealPlanRow, mealsByID map[string]Meal) []DayPlan {
	byDate := make(map[string][]PlannedMeal)
	for _, row := range rows {
		meal, ok := mealsByID[row.MealID]
		if !ok {
			continue
		}
		byDate[row.Date] = append(byDate[row.Date], PlannedMeal{
			ID:   row.ID,
			Slot: MealSlot(row.MealTime),
			Meal: meal,
		})
	}

	days := make([]DayPlan, 0, len(byDate))
	for date, meals := range byDate {
		sort.Slice(meals, func(i, j int) bool {
			ri, rj := slotRank(meals[i].Slot), slotRank(meals[j].Slot)
			if ri != rj {
				return ri < rj
			}
			return strings.ToLower(string(meals[i].Slot)) < strings.ToLower(string(meals[j].Slot))
		})
		days = append(days, DayPlan{Date: date, Meals: meals})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// FormatDisplayDate renders a wire date like "2025-06-18" as "Jun 18".
// Unparseable input is returned as is.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(database.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}
