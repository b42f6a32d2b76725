package in

import (
	"context"

	"dawn/internal/modules/billing/dto"
)

type Usecase interface {
	// Entitlement never fails; lookup problems resolve to the free plan.
	Entitlement(ctx context.Context, ownerID string) dto.EntitlementOutput
	SetSubscription(ctx context.Context, input dto.SetSubscriptionInput) (dto.EntitlementOutput, error)
	Cancel(ctx context.Context, ownerID string) (dto.EntitlementOutput, error)
}
