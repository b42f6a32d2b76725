package domain_test

import (
	"testing"
	"time"

	"dawn/internal/modules/billing/domain"
)

func TestEffectivePlan(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 4, 10, 7, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name string
		sub  domain.Subscription
		want domain.Plan
	}{
		{"active", domain.Subscription{Plan: domain.PlanPro, Status: "active"}, domain.PlanPro},
		{"trialing", domain.Subscription{Plan: domain.PlanPlus, Status: "trialing"}, domain.PlanPlus},
		{"canceled in period", domain.Subscription{Plan: domain.PlanPlus, Status: "canceled", CurrentPeriodEnd: &future}, domain.PlanPlus},
		{"canceled after period", domain.Subscription{Plan: domain.PlanPlus, Status: "canceled", CurrentPeriodEnd: &past}, domain.PlanFree},
		{"canceled without period", domain.Subscription{Plan: domain.PlanPlus, Status: "canceled"}, domain.PlanFree},
		{"past due", domain.Subscription{Plan: domain.PlanPro, Status: "past_due"}, domain.PlanFree},
		{"zero", domain.Subscription{}, domain.PlanFree},
	}
	for _, tc := range cases {
		if got := tc.sub.EffectivePlan(now); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestParsePlan(t *testing.T) {
	t.Parallel()
	if p, err := domain.ParsePlan(" PRO "); err != nil || p != domain.PlanPro {
		t.Fatalf("expected pro, got %q %v", p, err)
	}
	if _, err := domain.ParsePlan("gold"); err == nil {
		t.Fatal("expected unknown plan error")
	}
}
