package out

import (
	"context"

	"dawn/internal/modules/billing/domain"
)

type SubscriptionStore interface {
	// Load returns apperrors.ErrNotFound when the owner has no record.
	Load(ctx context.Context, ownerID string) (domain.Subscription, error)
	Save(ctx context.Context, sub domain.Subscription) error
}
