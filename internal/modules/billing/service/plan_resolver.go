package service

import (
	"fmt"
	"strings"

	"dawn/internal/modules/billing/domain"
	apperrors "dawn/internal/platform/errors"
)

// PlanResolver maps provider price ids to plans.
type PlanResolver struct {
	plusPriceID string
	proPriceID  string
}

// NewPlanResolver maps the pro price to pro; every other paid price is plus.
func NewPlanResolver(plusPriceID, proPriceID string) PlanResolver {
	return PlanResolver{plusPriceID: strings.TrimSpace(plusPriceID), proPriceID: strings.TrimSpace(proPriceID)}
}

// Known reports whether priceID is one of the configured prices.
func (r PlanResolver) Known(priceID string) bool {
	priceID = strings.TrimSpace(priceID)
	return priceID != "" && (priceID == r.plusPriceID || priceID == r.proPriceID)
}

// Resolve prefers an explicit plan and falls back to the price id.
func (r PlanResolver) Resolve(plan, priceID string) (domain.Plan, error) {
	if strings.TrimSpace(plan) != "" {
		p, err := domain.ParsePlan(plan)
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		return p, nil
	}
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return "", fmt.Errorf("%w: plan or price id is required", apperrors.ErrInvalidInput)
	}
	if r.proPriceID != "" && priceID == r.proPriceID {
		return domain.PlanPro, nil
	}
	return domain.PlanPlus, nil
}
