package service_test

import (
	"errors"
	"testing"

	"dawn/internal/modules/billing/domain"
	"dawn/internal/modules/billing/service"
	apperrors "dawn/internal/platform/errors"
)

func TestPlanResolver(t *testing.T) {
	t.Parallel()
	r := service.NewPlanResolver("price_plus", "price_pro")
	cases := []struct {
		plan, price string
		want        domain.Plan
	}{
		{"", "price_pro", domain.PlanPro},
		{"", "price_plus", domain.PlanPlus},
		{"", "price_other", domain.PlanPlus},
		{"free", "price_pro", domain.PlanFree},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.plan, tc.price)
		if err != nil {
			t.Fatalf("resolve(%q,%q): %v", tc.plan, tc.price, err)
		}
		if got != tc.want {
			t.Fatalf("resolve(%q,%q) = %q want %q", tc.plan, tc.price, got, tc.want)
		}
	}
	if _, err := r.Resolve("", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !r.Known("price_plus") || r.Known("price_other") {
		t.Fatal("unexpected known price result")
	}
	if _, err := r.Resolve("gold", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
