package dto

import "time"

type EntitlementOutput struct {
	OwnerID          string     `json:"owner_id"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	SubscribedPlan   string     `json:"subscribed_plan"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// IsFree reports whether only the free tier applies.
func (e EntitlementOutput) IsFree() bool {
	return e.Plan == "" || e.Plan == "free"
}

type SetSubscriptionInput struct {
	OwnerID          string
	Plan             string
	PriceID          string
	Status           string
	CurrentPeriodEnd *time.Time
}
