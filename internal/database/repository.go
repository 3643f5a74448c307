package database

import "context"

// Repository provides typed access to the Nutrio tables.
type Repository struct {
	client *Client
}

// NewRepository creates a new repository on top of a Supabase client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// Per-table interfaces so stores depend only on the slice of the repository
// they actually use, and tests can substitute the in-memory mock.

type ProfilesRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, create ProfileCreate) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error)
}

type NutritionRepository interface {
	ListRecentNutritionLogs(ctx context.Context, userID string, limit int) ([]NutritionLog, error)
	GetNutritionLogByDate(ctx context.Context, userID, date string) (*NutritionLog, error)
	CreateNutritionLog(ctx context.Context, create NutritionLogCreate) (*NutritionLog, error)
	UpdateNutritionTotals(ctx context.Context, id string, totals NutritionTotals) (*NutritionLog, error)
}

type MealsRepository interface {
	ListAvailableMeals(ctx context.Context) ([]MealRow, error)
}

type MealPlansRepository interface {
	ListMealPlansFrom(ctx context.Context, userID, date string) ([]MealPlanRow, error)
	DeleteMealPlanSlot(ctx context.Context, userID, date, slot string) error
	ReplaceMealPlanSlot(ctx context.Context, create MealPlanCreate) (*MealPlanRow, error)
}

type SubscriptionsRepository interface {
	GetActiveSubscription(ctx context.Context, userID string) (*SubscriptionRow, error)
	DeactivateSubscriptions(ctx context.Context, userID string) error
	CreateSubscription(ctx context.Context, create SubscriptionCreate) (*SubscriptionRow, error)
}

type RestaurantsRepository interface {
	ListRestaurants(ctx context.Context) ([]RestaurantRow, error)
}

type GymsRepository interface {
	ListGyms(ctx context.Context) ([]GymRow, error)
}

var (
	_ ProfilesRepository      = (*Repository)(nil)
	_ NutritionRepository     = (*Repository)(nil)
	_ MealsRepository         = (*Repository)(nil)
	_ MealPlansRepository     = (*Repository)(nil)
	_ SubscriptionsRepository = (*Repository)(nil)
	_ RestaurantsRepository   = (*Repository)(nil)
	_ GymsRepository          = (*Repository)(nil)
)
