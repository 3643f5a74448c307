package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nutrio-app/nutrio-go/internal/database"
	"github.com/nutrio-app/nutrio-go/internal/domain"
	"github.com/nutrio-app/nutrio-go/internal/fallback"
	"github.com/nutrio-app/nutrio-go/internal/logger"
)

// MealsBackend is the slice of the repository the meals store uses.
type MealsBackend interface {
	database.MealsRepository
	database.MealPlansRepository
}

// NutritionLogger is the session store capability the meals store delegates
// to when a meal is logged as eaten.
type NutritionLogger interface {
	LogNutrition(ctx context.Context, macros domain.Macros) error
}

// MealsStore owns the meal catalogue and the signed-in user's meal plan.
type MealsStore struct {
	backend   MealsBackend
	identity  Identity
	nutrition NutritionLogger
	prefs     Prefs
	log       *logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	meals    []domain.Meal
	plans    []domain.DayPlan
	category string
	loading  bool
	errMsg   string
}

// MealsDeps wires a meals store. Prefs and Logger are optional; Nutrition may
// be nil if LogMealAsEaten is never used.
type MealsDeps struct {
	Backend   MealsBackend
	Identity  Identity
	Nutrition NutritionLogger
	Prefs     Prefs
	Logger    *logger.Logger
}

func NewMealsStore(deps MealsDeps) *MealsStore {
	s := &MealsStore{
		backend:   deps.Backend,
		identity:  deps.Identity,
		nutrition: deps.Nutrition,
		prefs:     deps.Prefs,
		log:       deps.Logger,
		now:       time.Now,
		category:  domain.CategoryAll,
	}
	if s.prefs == nil {
		s.prefs = NopPrefs{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	var saved string
	if ok, err := s.prefs.Get(prefMealCategory, &saved); err == nil && ok && saved != "" {
		s.category = saved
	}
	return s
}

// Meals returns the full catalogue from the last fetch.
func (s *MealsStore) Meals() []domain.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meals
}

// FilteredMeals returns the catalogue narrowed to the selected category.
func (s *MealsStore) FilteredMeals() []domain.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FilterByCategory(s.meals, s.category)
}

// Categories lists the filter options presented alongside the catalogue.
func (s *MealsStore) Categories() []domain.Category {
	return fallback.Categories()
}

// Category returns the selected filter.
func (s *MealsStore) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SetCategory selects a filter and persists it across restarts.
func (s *MealsStore) SetCategory(category string) {
	if category == "" {
		category = domain.CategoryAll
	}
	s.mu.Lock()
	s.category = category
	s.mu.Unlock()

	if err := s.prefs.Set(prefMealCategory, category); err != nil {
		s.log.Warn("persisting category failed", "error", err)
	}
}

// PlannedMeals returns the day-plans from the last fetch, ascending by date.
func (s *MealsStore) PlannedMeals() []domain.DayPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans
}

func (s *MealsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *MealsStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *MealsStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *MealsStore) setErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// FetchMeals replaces the catalogue with the available meals, newest first.
// Failures are recorded, not returned.
func (s *MealsStore) FetchMeals(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.backend.ListAvailableMeals(ctx)
	if err != nil {
		s.log.Warn("meals fetch failed", "error", err)
		s.setErr(err.Error())
		return
	}

	s.mu.Lock()
	s.meals = domain.MealsFromRows(rows)
	s.mu.Unlock()
	s.setErr("")
}

// FetchPlannedMeals replaces the plan list with the user's entries from today
// onward, grouped by date. When unauthenticated the plan list is cleared.
// Failures are recorded, not returned.
func (s *MealsStore) FetchPlannedMeals(ctx context.Context) {
	userID := s.identity.CurrentUserID()
	if userID == "" {
		s.mu.Lock()
		s.plans = nil
		s.mu.Unlock()
		return
	}

	s.setLoading(true)
	defer s.setLoading(false)

	// Plan rows only carry meal ids; the catalogue resolves them.
	s.mu.Lock()
	haveMeals := len(s.meals) > 0
	s.mu.Unlock()
	if !haveMeals {
		s.FetchMeals(ctx)
	}

	today := s.now().Format(database.DateLayout)
	rows, err := s.backend.ListMealPlansFrom(ctx, userID, today)
	if err != nil {
		s.log.Warn("meal plan fetch failed", "error", err)
		s.setErr(err.Error())
		return
	}

	s.mu.Lock()
	byID := make(map[string]domain.Meal, len(s.meals))
	for _, m := range s.meals {
		byID[m.ID] = m
	}
	s.plans = domain.GroupPlans(rows, byID)
	s.mu.Unlock()
	s.setErr("")
}

// MealByID looks up a meal in the in-memory catalogue. Absence is a
// legitimate result, not an error.
func (s *MealsStore) MealByID(id string) (domain.Meal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meals {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Meal{}, false
}

// AddMealToPlan assigns a meal to (date, slot), replacing any prior occupant,
// then refreshes the plan cache from the source of truth. The replacement is
// delete-then-insert across two round trips; if the insert fails the slot is
// left empty and the error returned.
func (s *MealsStore) AddMealToPlan(ctx context.Context, mealID, date string, slot domain.MealSlot) error {
	userID := s.identity.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("add meal to plan: %w: not authenticated", database.ErrUnauthorized)
	}

	_, err := s.backend.ReplaceMealPlanSlot(ctx, database.MealPlanCreate{
		UserID:   userID,
		MealID:   mealID,
		Date:     date,
		MealTime: string(slot),
	})
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("add meal to plan: %w", err)
	}

	s.FetchPlannedMeals(ctx)
	return nil
}

// RemoveMealFromPlan clears (date, slot) and refreshes the plan cache.
// Removing an empty slot succeeds.
func (s *MealsStore) RemoveMealFromPlan(ctx context.Context, date string, slot domain.MealSlot) error {
	userID := s.identity.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("remove meal from plan: %w: not authenticated", database.ErrUnauthorized)
	}

	if err := s.backend.DeleteMealPlanSlot(ctx, userID, date, string(slot)); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("remove meal from plan: %w", err)
	}

	s.FetchPlannedMeals(ctx)
	return nil
}

// LogMealAsEaten adds the meal's macros to today's nutrition log via the
// session store. The meal plan itself is not touched.
func (s *MealsStore) LogMealAsEaten(ctx context.Context, mealID string) error {
	meal, ok := s.MealByID(mealID)
	if !ok {
		return database.NewNotFoundError("meal", mealID)
	}
	if s.nutrition == nil {
		return fmt.Errorf("log meal as eaten: no nutrition logger configured")
	}
	return s.nutrition.LogNutrition(ctx, meal.Macros)
}
