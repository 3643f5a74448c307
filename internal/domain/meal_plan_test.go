package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrio-app/nutrio-go/internal/database"
)

func TestGroupPlansOrdersDaysAndSlots(t *testing.T) {
	meals := map[string]Meal{
		"m1": {ID: "m1", Name: "Oats"},
		"m2": {ID: "m2", Name: "Salad"},
		"m3": {ID: "m3", Name: "Steak"},
	}
	rows := []database.MealPlanRow{
		{ID: "p1", MealID: "m3", Date: "2025-06-22", MealTime: "dinner"},
		{ID: "p2", MealID: "m2", Date: "2025-06-21", MealTime: "lunch"},
		{ID: "p3", MealID: "m1", Date: "2025-06-21", MealTime: "breakfast"},
		{ID: "p4", MealID: "m3", Date: "2025-06-21", MealTime: "dinner"},
	}

	days := GroupPlans(rows, meals)
	require.Len(t, days, 2)

	assert.Equal(t, "2025-06-21", days[0].Date)
	require.Len(t, days[0].Meals, 3)
	assert.Equal(t, SlotBreakfast, days[0].Meals[0].Slot)
	assert.Equal(t, SlotLunch, days[0].Meals[1].Slot)
	assert.Equal(t, SlotDinner, days[0].Meals[2].Slot)

	assert.Equal(t, "2025-06-22", days[1].Date)
	assert.Equal(t, "Steak", days[1].Meals[0].Meal.Name)
}

func TestGroupPlansCapitalizedSlots(t *testing.T) {
	meals := map[string]Meal{"m1": {ID: "m1"}, "m2": {ID: "m2"}}
	rows := []database.MealPlanRow{
		{ID: "p1", MealID: "m1", Date: "2025-06-21", MealTime: "Dinner"},
		{ID: "p2", MealID: "m2", Date: "2025-06-21", MealTime: "Breakfast"},
	}

	days := GroupPlans(rows, meals)
	require.Len(t, days, 1)
	assert.Equal(t, MealSlot("Breakfast"), days[0].Meals[0].Slot)
	assert.Equal(t, MealSlot("Dinner"), days[0].Meals[1].Slot)
}

func TestGroupPlansUnknownSlotsAfterKnown(t *testing.T) {
	meals := map[string]Meal{"m1": {ID: "m1"}, "m2": {ID: "m2"}, "m3": {ID: "m3"}}
	rows := []database.MealPlanRow{
		{ID: "p1", MealID: "m1", Date: "2025-06-21", MealTime: "snack"},
		{ID: "p2", MealID: "m2", Date: "2025-06-21", MealTime: "brunch"},
		{ID: "p3", MealID: "m3", Date: "2025-06-21", MealTime: "dinner"},
	}

	days := GroupPlans(rows, meals)
	require.Len(t, days, 1)
	assert.Equal(t, MealSlot("dinner"), days[0].Meals[0].Slot)
	assert.Equal(t, MealSlot("brunch"), days[0].Meals[1].Slot)
	assert.Equal(t, MealSlot("snack"), days[0].Meals[2].Slot)
}

func TestGroupPlansDropsUnknownMeals(t *testing.T) {
	rows := []database.MealPlanRow{
		{ID: "p1", MealID: "gone", Date: "2025-06-21", MealTime: "lunch"},
	}

	assert.Empty(t, GroupPlans(rows, map[string]Meal{}))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "Breakfast", SlotBreakfast.Label())
	assert.Equal(t, "Dinner", SlotDinner.Label())
	assert.Equal(t, "", MealSlot("").Label())
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "Jun 18", FormatDisplayDate("2025-06-18"))
	assert.Equal(t, "Dec 1", FormatDisplayDate("2025-12-01"))
	assert.Equal(t, "not a date", FormatDisplayDate("not a date"))
}
