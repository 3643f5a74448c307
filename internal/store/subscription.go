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

// SubscriptionStore owns the plan catalogue and the user's subscription
// status. Unauthenticated users see the demo status.
type SubscriptionStore struct {
	backend  database.SubscriptionsRepository
	identity Identity
	prefs    Prefs
	log      *logger.Logger
	now      func() time.Time

	mu      sync.Mutex
	plans   []domain.Plan
	status  domain.SubscriptionStatus
	loading bool
	errMsg  string
}

// SubscriptionDeps wires a subscription store. Prefs and Logger are optional.
type SubscriptionDeps struct {
	Backend  database.SubscriptionsRepository
	Identity Identity
	Prefs    Prefs
	Logger   *logger.Logger
}

func NewSubscriptionStore(deps SubscriptionDeps) *SubscriptionStore {
	s := &SubscriptionStore{
		backend:  deps.Backend,
		identity: deps.Identity,
		prefs:    deps.Prefs,
		log:      deps.Logger,
		now:      time.Now,
		status:   domain.InactiveSubscription(),
	}
	if s.prefs == nil {
		s.prefs = NopPrefs{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	var saved []domain.Plan
	if ok, err := s.prefs.Get(prefPlans, &saved); err == nil && ok && len(saved) > 0 {
		s.plans = saved
	}
	return s
}

// Plans returns the purchasable tiers from the last fetch.
func (s *SubscriptionStore) Plans() []domain.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans
}

// Status returns the current subscription status.
func (s *SubscriptionStore) Status() domain.SubscriptionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SubscriptionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SubscriptionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *SubscriptionStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *SubscriptionStore) setErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// FetchPlans loads the plan catalogue. The set is fixed and not user-scoped;
// it is persisted so a cold start can render the paywall offline.
func (s *SubscriptionStore) FetchPlans(ctx context.Context) {
	plans := fallback.Plans()

	s.mu.Lock()
	s.plans = plans
	s.mu.Unlock()

	if err := s.prefs.Set(prefPlans, plans); err != nil {
		s.log.Warn("persisting plans failed", "error", err)
	}
}

// FetchSubscription refreshes the status. Unauthenticated users always get
// the demo status. On remote failure the demo status is substituted and the
// error recorded; a clean "no active row" becomes the inactive status.
func (s *SubscriptionStore) FetchSubscription(ctx context.Context) {
	userID := s.identity.CurrentUserID()
	if userID == "" {
		s.mu.Lock()
		s.status = fallback.DemoSubscription()
		s.mu.Unlock()
		return
	}

	s.setLoading(true)
	defer s.setLoading(false)

	s.ensurePlans(ctx)

	if err := s.loadStatus(ctx, userID); err != nil {
		s.log.Warn("subscription fetch failed", "error", err)
		s.mu.Lock()
		s.status = fallback.DemoSubscription()
		s.errMsg = err.Error()
		s.mu.Unlock()
		return
	}
	s.setErr("")
}

// Subscribe purchases a plan: start today, end after the plan's period, meal
// credits seeded from the period, any prior active row deactivated first. The
// status is refreshed from the source of truth before returning.
func (s *SubscriptionStore) Subscribe(ctx context.Context, planID string, withGymAccess bool) error {
	userID := s.identity.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("subscribe: %w: not authenticated", database.ErrUnauthorized)
	}

	s.ensurePlans(ctx)
	s.mu.Lock()
	plan := domain.FindPlan(s.plans, planID)
	s.mu.Unlock()
	if plan == nil {
		err := fmt.Errorf("subscribe: %w: plan %q", database.ErrNotFound, planID)
		s.setErr(err.Error())
		return err
	}

	start := s.now()
	end := plan.Duration.EndDateFrom(start)

	if err := s.backend.DeactivateSubscriptions(ctx, userID); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("subscribe: deactivate prior: %w", err)
	}

	_, err := s.backend.CreateSubscription(ctx, database.SubscriptionCreate{
		UserID:         userID,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		StartDate:      start.Format(database.DateLayout),
		EndDate:        end.Format(database.DateLayout),
		GymAccess:      withGymAccess,
		MealsRemaining: plan.Duration.Meals(),
		Active:         true,
	})
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("subscribe: %w", err)
	}

	if err := s.loadStatus(ctx, userID); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("subscribe: refresh status: %w", err)
	}
	s.setErr("")
	return nil
}

// CancelSubscription deactivates the active row(s) and resets the status to
// the canonical inactive shape without a re-fetch.
func (s *SubscriptionStore) CancelSubscription(ctx context.Context) error {
	userID := s.identity.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("cancel subscription: %w: not authenticated", database.ErrUnauthorized)
	}

	if err := s.backend.DeactivateSubscriptions(ctx, userID); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("cancel subscription: %w", err)
	}

	s.mu.Lock()
	s.status = domain.InactiveSubscription()
	s.mu.Unlock()
	s.setErr("")
	return nil
}

func (s *SubscriptionStore) ensurePlans(ctx context.Context) {
	s.mu.Lock()
	loaded := len(s.plans) > 0
	s.mu.Unlock()
	if !loaded {
		s.FetchPlans(ctx)
	}
}

// loadStatus replaces the status from the remote row. A missing row is the
// inactive status, not an error.
func (s *SubscriptionStore) loadStatus(ctx context.Context, userID string) error {
	row, err := s.backend.GetActiveSubscription(ctx, userID)
	if database.IsNotFound(err) {
		s.mu.Lock()
		s.status = domain.InactiveSubscription()
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.status = domain.SubscriptionFromRow(*row, s.plans)
	s.mu.Unlock()
	return nil
}
