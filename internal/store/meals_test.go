package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrio-app/nutrio-go/internal/database"
	"github.com/nutrio-app/nutrio-go/internal/domain"
)

type recordingNutrition struct {
	logged []domain.Macros
	err    error
}

func (r *recordingNutrition) LogNutrition(ctx context.Context, macros domain.Macros) error {
	if r.err != nil {
		return r.err
	}
	r.logged = append(r.logged, macros)
	return nil
}

func seedCatalogue(repo *database.MockRepository) {
	desc := "test meal"
	repo.SeedMeals([]database.MealRow{
		{ID: "m1", Name: "Oats", Description: &desc, Calories: 350, Protein: 12, Available: true},
		{ID: "m2", Name: "Salad", Calories: 220, Protein: 8, Available: true, Category: []string{"Vegan", "Lunch"}},
		{ID: "m3", Name: "Steak", Calories: 600, Protein: 45, Available: true, Category: []string{"Protein"}},
	})
}

func newMealsFixture(t *testing.T, userID string) (*MealsStore, *database.MockRepository, *recordingNutrition) {
	t.Helper()
	repo := database.NewMockRepository()
	seedCatalogue(repo)
	nutrition := &recordingNutrition{}
	s := NewMealsStore(MealsDeps{
		Backend:   repo,
		Identity:  StaticIdentity{UserID: userID},
		Nutrition: nutrition,
	})
	s.now = func() time.Time { return time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC) }
	return s, repo, nutrition
}

func TestFetchMealsMapsRows(t *testing.T) {
	s, _, _ := newMealsFixture(t, "user-1")

	s.FetchMeals(context.Background())

	require.Len(t, s.Meals(), 3)
	assert.Empty(t, s.Err())
	// Null optionals become usable zero values.
	m, ok := s.MealByID("m2")
	require.True(t, ok)
	assert.Equal(t, "", m.Description)
	assert.NotNil(t, m.Category)
}

func TestFetchMealsFailureRecorded(t *testing.T) {
	s, repo, _ := newMealsFixture(t, "user-1")
	repo.FailOnce("ListAvailableMeals", errors.New("meals read failed"))

	s.FetchMeals(context.Background())

	assert.NotEmpty(t, s.Err())
	assert.Empty(t, s.Meals())
	assert.False(t, s.Loading())
}

func TestMealByIDNotFoundSentinel(t *testing.T) {
	s, _, _ := newMealsFixture(t, "user-1")
	s.FetchMeals(context.Background())

	_, ok := s.MealByID("nonexistent")
	assert.False(t, ok)
}

func TestAddMealToPlanReplacesSlotOccupant(t *testing.T) {
	s, _, _ := newMealsFixture(t, "user-1")

	require.NoError(t, s.AddMealToPlan(context.Background(), "m1", "2025-06-20", domain.SlotLunch))
	require.NoError(t, s.AddMealToPlan(context.Background(), "m2", "2025-06-20", domain.SlotLunch))

	plans := s.PlannedMeals()
	require.Len(t, plans, 1)
	assert.Equal(t, "2025-06-20", plans[0].Date)
	require.Len(t, plans[0].Meals, 1, "slot must hold exactly one entry")
	assert.Equal(t, "m2", plans[0].Meals[0].Meal.ID)
	assert.Equal(t, domain.SlotLunch, plans[0].Meals[0].Slot)
}

func TestAddMealToPlanRequiresAuth(t *testing.T) {
	s, _, _ := newMealsFixture(t, "")

	err := s.AddMealToPlan(context.Background(), "m1", "2025-06-20", domain.SlotLunch)
	assert.True(t, database.IsUnauthorized(err))
}

func TestAddMealToPlanInsertFailureLeavesSlotEmpty(t *testing.T) {
	s, repo, _ := newMealsFixture(t, "user-1")
	require.NoError(t, s.AddMealToPlan(context.Background(), "m1", "2025-06-20", domain.SlotDinner))

	repo.FailOnce("CreateMealPlan", errors.New("meal_plans insert rejected"))
	err := s.AddMealToPlan(context.Background(), "m2", "2025-06-20", domain.SlotDinner)
	require.Error(t, err)

	// The delete already landed; the slot is empty, not holding either meal.
	s.FetchPlannedMeals(context.Background())
	assert.Empty(t, s.PlannedMeals())
}

func TestRemoveMealFromPlanIdempotent(t *testing.T) {
	s, _, _ := newMealsFixture(t, "user-1")
	require.NoError(t, s.AddMealToPlan(context.Background(), "m1", "2025-06-20", domain.SlotBreakfast))
	require.NoError(t, s.AddMealToPlan(context.Background(), "m2", "2025-06-21", domain.SlotLunch))

	// Removing an empty slot is fine and leaves everything else alone.
	require.NoError(t, s.RemoveMealFromPlan(context.Background(), "2025-06-20", domain.SlotDinner))

	plans := s.PlannedMeals()
	require.Len(t, plans, 2)
	assert.Equal(t, "m1", plans[0].Meals[0].Meal.ID)
	assert.Equal(t, "m2", plans[1].Meals[0].Meal.ID)

	require.NoError(t, s.RemoveMealFromPlan(context.Background(), "2025-06-20", domain.SlotBreakfast))
	plans = s.PlannedMeals()
	require.Len(t, plans, 1)
	assert.Equal(t, "2025-06-21", plans[0].Date)
}

func TestFetchPlannedMealsUnauthenticatedClearsPlans(t *testing.T) {
	s, _, _ := newMealsFixture(t, "user-1")
	require.NoError(t, s.AddMealToPlan(context.Background(), "m1", "2025-06-20", domain.SlotLunch))
	require.NotEmpty(t, s.PlannedMeals())

	s.identity = StaticIdentity{}
	s.FetchPlannedMeals(context.Background())

	assert.Empty(t, s.PlannedMeals())
}

func TestFetchPlannedMealsExcludesPastDates(t *testing.T) {
	s, repo, _ := newMealsFixture(t, "user-1")
	_, err := repo.ReplaceMealPlanSlot(context.Background(), database.MealPlanCreate{
		ID: "old", UserID: "user-1", MealID: "m1", Date: "2025-06-10", MealTime: "lunch",
	})
	require.NoError(t, err)
	_, err = repo.ReplaceMealPlanSlot(context.Background(), database.MealPlanCreate{
		ID: "today", UserID: "user-1", MealID: "m2", Date: "2025-06-18", MealTime: "lunch",
	})
	require.NoError(t, err)

	s.FetchPlannedMeals(context.Background())

	plans := s.PlannedMeals()
	require.Len(t, plans, 1)
	assert.Equal(t, "2025-06-18", plans[0].Date)
}

func TestLogMealAsEatenDelegatesMacros(t *testing.T) {
	s, _, nutrition := newMealsFixture(t, "user-1")
	s.FetchMeals(context.Background())

	require.NoError(t, s.LogMealAsEaten(context.Background(), "m3"))

	require.Len(t, nutrition.logged, 1)
	assert.Equal(t, 600.0, nutrition.logged[0].Calories)
	assert.Equal(t, 45.0, nutrition.logged[0].Protein)
}

func TestLogMealAsEatenUnknownMeal(t *testing.T) {
	s, _, nutrition := newMealsFixture(t, "user-1")
	s.FetchMeals(context.Background())

	err := s.LogMealAsEaten(context.Background(), "nonexistent")
	assert.True(t, database.IsNotFound(err))
	assert.Empty(t, nutrition.logged)
}

func TestCategoryFilterPersists(t *testing.T) {
	repo := database.NewMockRepository()
	seedCatalogue(repo)
	prefs := newMapPrefs()

	s := NewMealsStore(MealsDeps{Backend: repo, Identity: StaticIdentity{}, Prefs: prefs})
	s.FetchMeals(context.Background())

	assert.Len(t, s.FilteredMeals(), 3, "default filter is all")

	s.SetCategory("vegan")
	filtered := s.FilteredMeals()
	require.Len(t, filtered, 1)
	assert.Equal(t, "m2", filtered[0].ID)

	// A fresh store restores the persisted filter.
	s2 := NewMealsStore(MealsDeps{Backend: repo, Identity: StaticIdentity{}, Prefs: prefs})
	assert.Equal(t, "vegan", s2.Category())
}
