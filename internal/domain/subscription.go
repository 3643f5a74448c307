package domain

import "github.com/nutrio-app/nutrio-go/internal/database"

// SubscriptionStatus is the user's current subscription as the app sees it.
// Plan is nil when the status is inactive or the row references a plan that
// is no longer offered. Dates use the wire layout; format for display with
// FormatDisplayDate.
type SubscriptionStatus struct {
	Active         bool   `json:"active"`
	Plan           *Plan  `json:"plan"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	GymAccess      bool   `json:"gymAccess"`
	MealsRemaining int    `json:"mealsRemaining"`
}

// InactiveSubscription is the status of a user with no active subscription.
func InactiveSubscription() SubscriptionStatus {
	return SubscriptionStatus{}
}

// SubscriptionFromRow maps a subscriptions row, resolving the plan against
// the offered plans.
func SubscriptionFromRow(row database.SubscriptionRow, plans []Plan) SubscriptionStatus {
	return SubscriptionStatus{
		Active:         row.Active,
		Plan:           FindPlan(plans, row.PlanID),
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		GymAccess:      row.GymAccess,
		MealsRemaining: row.MealsRemaining,
	}
}
