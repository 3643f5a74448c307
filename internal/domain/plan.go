package domain

import "time"

// PlanDuration is the billing and delivery period of a plan.
type PlanDuration string

const (
	DurationDaily   PlanDuration = "daily"
	DurationWeekly  PlanDuration = "weekly"
	DurationMonthly PlanDuration = "monthly"
)

// EndDateFrom returns the subscription end date for a period starting at the
// given day. Monthly follows calendar months rather than a fixed 30 days.
func (d PlanDuration) EndDateFrom(start time.Time) time.Time {
	switch d {
	case DurationDaily:
		return start.AddDate(0, 0, 1)
	case DurationWeekly:
		return start.AddDate(0, 0, 7)
	case DurationMonthly:
		return start.AddDate(0, 1, 0)
	default:
		return start
	}
}

// Meals returns how many meals the period includes, at three per day.
func (d PlanDuration) Meals() int {
	switch d {
	case DurationDaily:
		return 3
	case DurationWeekly:
		return 21
	case DurationMonthly:
		return 90
	default:
		return 0
	}
}

// Plan is a subscription tier offered to the user.
type Plan struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Duration    PlanDuration `json:"duration"`
	Features    []string     `json:"features"`
	Popular     bool         `json:"popular"`
}

// FindPlan returns the plan with the given id, or nil.
func FindPlan(plans []Plan, id string) *Plan {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}
