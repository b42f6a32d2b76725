package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dawn/internal/modules/billing/domain"
	"dawn/internal/modules/billing/dto"
	billingin "dawn/internal/modules/billing/port/in"
	billingout "dawn/internal/modules/billing/port/out"
	"dawn/internal/modules/billing/service"
	"dawn/internal/platform/clock"
	apperrors "dawn/internal/platform/errors"
)

type Interactor struct {
	store    billingout.SubscriptionStore
	resolver service.PlanResolver
	clock    clock.Clock
	logger   *zap.Logger
}

func NewInteractor(store billingout.SubscriptionStore, resolver service.PlanResolver, clk clock.Clock, logger *zap.Logger) billingin.Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{store: store, resolver: resolver, clock: clk, logger: logger}
}

func (i *Interactor) Entitlement(ctx context.Context, ownerID string) dto.EntitlementOutput {
	free := dto.EntitlementOutput{OwnerID: ownerID, Plan: string(domain.PlanFree), Status: domain.StatusFree, SubscribedPlan: string(domain.PlanFree)}
	if i.store == nil || strings.TrimSpace(ownerID) == "" {
		return free
	}
	sub, err := i.store.Load(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			i.logger.Warn("entitlement lookup failed, using free plan", zap.String("owner_id", ownerID), zap.Error(err))
		}
		return free
	}
	return i.toOutput(sub)
}

func (i *Interactor) SetSubscription(ctx context.Context, input dto.SetSubscriptionInput) (dto.EntitlementOutput, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return dto.EntitlementOutput{}, fmt.Errorf("%w: owner id is required", apperrors.ErrInvalidInput)
	}
	plan, err := i.resolver.Resolve(input.Plan, input.PriceID)
	if err != nil {
		return dto.EntitlementOutput{}, err
	}
	if input.Plan == "" && !i.resolver.Known(input.PriceID) {
		i.logger.Warn("unknown price id, mapped to plus", zap.String("price_id", input.PriceID))
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = domain.StatusActive
	}
	sub := domain.Subscription{
		OwnerID:          input.OwnerID,
		Plan:             plan,
		Status:           status,
		PriceID:          input.PriceID,
		CurrentPeriodEnd: input.CurrentPeriodEnd,
		UpdatedAt:        i.clock.Now(),
	}
	if err := i.store.Save(ctx, sub); err != nil {
		return dto.EntitlementOutput{}, err
	}
	i.logger.Info("subscription updated", zap.String("owner_id", sub.OwnerID), zap.String("plan", string(sub.Plan)), zap.String("status", sub.Status))
	return i.toOutput(sub), nil
}

func (i *Interactor) Cancel(ctx context.Context, ownerID string) (dto.EntitlementOutput, error) {
	if strings.TrimSpace(ownerID) == "" {
		return dto.EntitlementOutput{}, fmt.Errorf("%w: owner id is required", apperrors.ErrInvalidInput)
	}
	sub, err := i.store.Load(ctx, ownerID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return dto.EntitlementOutput{}, err
	}
	sub.OwnerID = ownerID
	sub.Plan = domain.PlanFree
	sub.Status = domain.StatusCanceled
	sub.UpdatedAt = i.clock.Now()
	if err := i.store.Save(ctx, sub); err != nil {
		return dto.EntitlementOutput{}, err
	}
	i.logger.Info("subscription canceled", zap.String("owner_id", ownerID))
	return i.toOutput(sub), nil
}

func (i *Interactor) toOutput(sub domain.Subscription) dto.EntitlementOutput {
	return dto.EntitlementOutput{
		OwnerID:          sub.OwnerID,
		Plan:             string(sub.EffectivePlan(i.clock.Now())),
		Status:           sub.Status,
		SubscribedPlan:   string(sub.Plan),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
}
