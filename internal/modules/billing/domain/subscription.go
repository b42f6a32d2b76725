package domain

import (
	"fmt"
	"strings"
	"time"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPlus Plan = "plus"
	PlanPro  Plan = "pro"
)

func ParsePlan(raw string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanFree:
		return PlanFree, nil
	case PlanPlus:
		return PlanPlus, nil
	case PlanPro:
		return PlanPro, nil
	default:
		return "", fmt.Errorf("unknown plan %q", raw)
	}
}

// Provider statuses that affect entitlement. Others (past_due, unpaid, ...)
// are stored as given and resolve to free.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
	StatusFree     = "free"
)

type Subscription struct {
	OwnerID          string
	Plan             Plan
	Status           string
	PriceID          string
	CurrentPeriodEnd *time.Time
	UpdatedAt        time.Time
}

// EffectivePlan is the plan the owner may use at now. A canceled
// subscription keeps its plan until the paid period ends.
func (s Subscription) EffectivePlan(now time.Time) Plan {
	switch s.Status {
	case StatusActive, StatusTrialing:
		return s.Plan
	case StatusCanceled:
		if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.After(now) {
			return s.Plan
		}
	}
	return PlanFree
}
