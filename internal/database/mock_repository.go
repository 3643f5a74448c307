package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of the repository interfaces
// for testing stores without a network.
type MockRepository struct {
	mu sync.RWMutex

	profiles      map[string]*Profile
	nutritionLogs map[string]*NutritionLog
	mealPlans     map[string]*MealPlanRow
	subscriptions map[string]*SubscriptionRow
	meals         []MealRow
	restaurants   []RestaurantRow
	gyms          []GymRow

	// Error injection for testing error paths. ErrorOnNextCall fails
	// whatever operation runs next; failures fails only the named one.
	ErrorOnNextCall error
	failures        map[string]error

	seq int
}

// NewMockRepository creates a new mock repository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		profiles:      make(map[string]*Profile),
		nutritionLogs: make(map[string]*NutritionLog),
		mealPlans:     make(map[string]*MealPlanRow),
		subscriptions: make(map[string]*SubscriptionRow),
		failures:      make(map[string]error),
	}
}

var (
	_ ProfilesRepository      = (*MockRepository)(nil)
	_ NutritionRepository     = (*MockRepository)(nil)
	_ MealsRepository         = (*MockRepository)(nil)
	_ MealPlansRepository     = (*MockRepository)(nil)
	_ SubscriptionsRepository = (*MockRepository)(nil)
	_ RestaurantsRepository   = (*MockRepository)(nil)
	_ GymsRepository          = (*MockRepository)(nil)
)

// FailOnce makes the named operation fail with err on its next call.
func (m *MockRepository) FailOnce(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

func (m *MockRepository) checkError(op string) error {
	if err := m.ErrorOnNextCall; err != nil {
		m.ErrorOnNextCall = nil
		return err
	}
	if err, ok := m.failures[op]; ok {
		delete(m.failures, op)
		return err
	}
	return nil
}

// next returns a stable per-mock creation timestamp so "most recent" queries
// are deterministic.
func (m *MockRepository) next() time.Time {
	m.seq++
	return time.Unix(int64(m.seq), 0)
}

// Seed helpers.

func (m *MockRepository) SeedProfile(p Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = &p
}

func (m *MockRepository) SeedMeals(rows []MealRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meals = rows
}

func (m *MockRepository) SeedRestaurants(rows []RestaurantRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants = rows
}

func (m *MockRepository) SeedGyms(rows []GymRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gyms = rows
}

// Profiles.

func (m *MockRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("GetProfile"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, NewNotFoundError("profile", userID)
	}
	cp := *p
	return &cp, nil
}

func (m *MockRepository) CreateProfile(ctx context.Context, create ProfileCreate) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("CreateProfile"); err != nil {
		return nil, err
	}
	p := &Profile{
		ID:                create.ID,
		Name:              create.Name,
		Email:             create.Email,
		AvatarURL:         create.AvatarURL,
		DailyCaloriesGoal: create.DailyCaloriesGoal,
		DailyProteinGoal:  create.DailyProteinGoal,
		DailyCarbsGoal:    create.DailyCarbsGoal,
		DailyFatGoal:      create.DailyFatGoal,
		CreatedAt:         m.next(),
	}
	m.profiles[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *MockRepository) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdateProfile"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, NewNotFoundError("profile", userID)
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.AvatarURL != nil {
		p.AvatarURL = update.AvatarURL
	}
	if update.DailyCaloriesGoal != nil {
		p.DailyCaloriesGoal = *update.DailyCaloriesGoal
	}
	if update.DailyProteinGoal != nil {
		p.DailyProteinGoal = *update.DailyProteinGoal
	}
	if update.DailyCarbsGoal != nil {
		p.DailyCarbsGoal = *update.DailyCarbsGoal
	}
	if update.DailyFatGoal != nil {
		p.DailyFatGoal = *update.DailyFatGoal
	}
	cp := *p
	return &cp, nil
}

// Nutrition logs.

func (m *MockRepository) ListRecentNutritionLogs(ctx context.Context, userID string, limit int) ([]NutritionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListRecentNutritionLogs"); err != nil {
		return nil, err
	}
	var rows []NutritionLog
	for _, l := range m.nutritionLogs {
		if l.UserID == userID {
			rows = append(rows, *l)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}

func (m *MockRepository) GetNutritionLogByDate(ctx context.Context, userID, date string) (*NutritionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("GetNutritionLogByDate"); err != nil {
		return nil, err
	}
	for _, l := range m.nutritionLogs {
		if l.UserID == userID && l.Date == date {
			cp := *l
			return &cp, nil
		}
	}
	return nil, NewNotFoundError("nutrition_log", userID+"/"+date)
}

func (m *MockRepository) CreateNutritionLog(ctx context.Context, create NutritionLogCreate) (*NutritionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("CreateNutritionLog"); err != nil {
		return nil, err
	}
	id := create.ID
	if id == "" {
		id = uuid.NewString()
	}
	l := &NutritionLog{
		ID:        id,
		UserID:    create.UserID,
		Date:      create.Date,
		Calories:  create.Calories,
		Protein:   create.Protein,
		Carbs:     create.Carbs,
		Fat:       create.Fat,
		CreatedAt: m.next(),
	}
	m.nutritionLogs[id] = l
	cp := *l
	return &cp, nil
}

func (m *MockRepository) UpdateNutritionTotals(ctx context.Context, id string, totals NutritionTotals) (*NutritionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdateNutritionTotals"); err != nil {
		return nil, err
	}
	l, ok := m.nutritionLogs[id]
	if !ok {
		return nil, NewNotFoundError("nutrition_log", id)
	}
	l.Calories = totals.Calories
	l.Protein = totals.Protein
	l.Carbs = totals.Carbs
	l.Fat = totals.Fat
	cp := *l
	return &cp, nil
}

// Meals.

func (m *MockRepository) ListAvailableMeals(ctx context.Context) ([]MealRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListAvailableMeals"); err != nil {
		return nil, err
	}
	out := make([]MealRow, len(m.meals))
	copy(out, m.meals)
	return out, nil
}

// Meal plans.

func (m *MockRepository) ListMealPlansFrom(ctx context.Context, userID, date string) ([]MealPlanRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListMealPlansFrom"); err != nil {
		return nil, err
	}
	var rows []MealPlanRow
	for _, p := range m.mealPlans {
		if p.UserID == userID && p.Date >= date {
			rows = append(rows, *p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

func (m *MockRepository) DeleteMealPlanSlot(ctx context.Context, userID, date, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("DeleteMealPlanSlot"); err != nil {
		return err
	}
	m.deleteSlotLocked(userID, date, slot)
	return nil
}

func (m *MockRepository) deleteSlotLocked(userID, date, slot string) {
	for id, p := range m.mealPlans {
		if p.UserID == userID && p.Date == date && strings.EqualFold(p.MealTime, slot) {
			delete(m.mealPlans, id)
		}
	}
}

func (m *MockRepository) ReplaceMealPlanSlot(ctx context.Context, create MealPlanCreate) (*MealPlanRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("DeleteMealPlanSlot"); err != nil {
		return nil, err
	}
	m.deleteSlotLocked(create.UserID, create.Date, create.MealTime)

	// Insert phase fails independently so tests can cover the
	// delete-succeeded-insert-failed window.
	if err := m.checkError("CreateMealPlan"); err != nil {
		return nil, err
	}
	id := create.ID
	if id == "" {
		id = uuid.NewString()
	}
	p := &MealPlanRow{
		ID:        id,
		UserID:    create.UserID,
		MealID:    create.MealID,
		Date:      create.Date,
		MealTime:  create.MealTime,
		CreatedAt: m.next(),
	}
	m.mealPlans[id] = p
	cp := *p
	return &cp, nil
}

// Subscriptions.

func (m *MockRepository) GetActiveSubscription(ctx context.Context, userID string) (*SubscriptionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("GetActiveSubscription"); err != nil {
		return nil, err
	}
	var latest *SubscriptionRow
	for _, s := range m.subscriptions {
		if s.UserID == userID && s.Active {
			if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
				latest = s
			}
		}
	}
	if latest == nil {
		return nil, NewNotFoundError("subscription", userID)
	}
	cp := *latest
	return &cp, nil
}

func (m *MockRepository) DeactivateSubscriptions(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("DeactivateSubscriptions"); err != nil {
		return err
	}
	for _, s := range m.subscriptions {
		if s.UserID == userID {
			s.Active = false
		}
	}
	return nil
}

func (m *MockRepository) CreateSubscription(ctx context.Context, create SubscriptionCreate) (*SubscriptionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("CreateSubscription"); err != nil {
		return nil, err
	}
	id := create.ID
	if id == "" {
		id = uuid.NewString()
	}
	s := &SubscriptionRow{
		ID:             id,
		UserID:         create.UserID,
		PlanID:         create.PlanID,
		PlanName:       create.PlanName,
		StartDate:      create.StartDate,
		EndDate:        create.EndDate,
		GymAccess:      create.GymAccess,
		MealsRemaining: create.MealsRemaining,
		Active:         create.Active,
		CreatedAt:      m.next(),
	}
	m.subscriptions[id] = s
	cp := *s
	return &cp, nil
}

// ActiveSubscriptionCount reports how many rows are active for the user;
// tests use it to assert the single-active invariant.
func (m *MockRepository) ActiveSubscriptionCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.subscriptions {
		if s.UserID == userID && s.Active {
			n++
		}
	}
	return n
}

// Restaurants.

func (m *MockRepository) ListRestaurants(ctx context.Context) ([]RestaurantRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListRestaurants"); err != nil {
		return nil, err
	}
	out := make([]RestaurantRow, len(m.restaurants))
	copy(out, m.restaurants)
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out, nil
}

// Gyms.

func (m *MockRepository) ListGyms(ctx context.Context) ([]GymRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListGyms"); err != nil {
		return nil, err
	}
	out := make([]GymRow, len(m.gyms))
	copy(out, m.gyms)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
