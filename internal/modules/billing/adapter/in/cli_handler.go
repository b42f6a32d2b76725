package in

import (
	"context"
	"time"

	billingdto "dawn/internal/modules/billing/dto"
	billingin "dawn/internal/modules/billing/port/in"
)

type CLIHandler struct {
	usecase billingin.Usecase
}

func NewCLIHandler(usecase billingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, ownerID string) billingdto.EntitlementOutput {
	return h.usecase.Entitlement(ctx, ownerID)
}

func (h CLIHandler) Set(ctx context.Context, ownerID, plan, priceID, status string, periodEnd *time.Time) (billingdto.EntitlementOutput, error) {
	return h.usecase.SetSubscription(ctx, billingdto.SetSubscriptionInput{
		OwnerID:          ownerID,
		Plan:             plan,
		PriceID:          priceID,
		Status:           status,
		CurrentPeriodEnd: periodEnd,
	})
}

func (h CLIHandler) Cancel(ctx context.Context, ownerID string) (billingdto.EntitlementOutput, error) {
	return h.usecase.Cancel(ctx, ownerID)
}
