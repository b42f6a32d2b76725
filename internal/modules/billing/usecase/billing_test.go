package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingoutadapter "dawn/internal/modules/billing/adapter/out"
	"dawn/internal/modules/billing/domain"
	"dawn/internal/modules/billing/dto"
	billingin "dawn/internal/modules/billing/port/in"
	billingout "dawn/internal/modules/billing/port/out"
	"dawn/internal/modules/billing/service"
	"dawn/internal/modules/billing/usecase"
	"dawn/internal/platform/clock"
	apperrors "dawn/internal/platform/errors"
	"dawn/internal/platform/sqlitedb"
)

var now = time.Date(2026, 5, 2, 6, 45, 0, 0, time.UTC)

type harness struct {
	uc billingin.Usecase
}

func newSQLiteInteractor(t *testing.T) (*harness, func()) {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "dawn.db"))
	require.NoError(t, err)
	store, err := billingoutadapter.NewSQLiteSubscriptionStore(context.Background(), db)
	require.NoError(t, err)
	uc := usecase.NewInteractor(store, service.NewPlanResolver("price_plus", "price_pro"), clock.Fixed(now), zap.NewNop())
	return &harness{uc: uc}, func() { _ = db.Close() }
}

func TestEntitlementDefaultsToFree(t *testing.T) {
	t.Parallel()
	h, done := newSQLiteInteractor(t)
	defer done()
	got := h.uc.Entitlement(context.Background(), "device-1")
	assert.True(t, got.IsFree())
	assert.Equal(t, "free", got.Status)
}

func TestSetSubscriptionFromPriceID(t *testing.T) {
	t.Parallel()
	h, done := newSQLiteInteractor(t)
	defer done()
	ctx := context.Background()

	end := now.Add(30 * 24 * time.Hour)
	out, err := h.uc.SetSubscription(ctx, dto.SetSubscriptionInput{OwnerID: "device-1", PriceID: "price_pro", Status: "trialing", CurrentPeriodEnd: &end})
	require.NoError(t, err)
	assert.Equal(t, "pro", out.Plan)

	got := h.uc.Entitlement(ctx, "device-1")
	assert.Equal(t, "pro", got.Plan)
	assert.Equal(t, "trialing", got.Status)
	require.NotNil(t, got.CurrentPeriodEnd)
	assert.True(t, got.CurrentPeriodEnd.Equal(end))

	out, err = h.uc.SetSubscription(ctx, dto.SetSubscriptionInput{OwnerID: "device-1", PriceID: "price_unknown"})
	require.NoError(t, err)
	assert.Equal(t, "plus", out.Plan)
	assert.Equal(t, "active", out.Status)
}

func TestCanceledKeepsPlanUntilPeriodEnd(t *testing.T) {
	t.Parallel()
	h, done := newSQLiteInteractor(t)
	defer done()
	ctx := context.Background()

	end := now.Add(48 * time.Hour)
	_, err := h.uc.SetSubscription(ctx, dto.SetSubscriptionInput{OwnerID: "u1", Plan: "plus", Status: "canceled", CurrentPeriodEnd: &end})
	require.NoError(t, err)
	assert.Equal(t, "plus", h.uc.Entitlement(ctx, "u1").Plan)

	past := now.Add(-time.Minute)
	_, err = h.uc.SetSubscription(ctx, dto.SetSubscriptionInput{OwnerID: "u1", Plan: "plus", Status: "canceled", CurrentPeriodEnd: &past})
	require.NoError(t, err)
	assert.True(t, h.uc.Entitlement(ctx, "u1").IsFree())
}

func TestCancelResetsToFree(t *testing.T) {
	t.Parallel()
	h, done := newSQLiteInteractor(t)
	defer done()
	ctx := context.Background()

	_, err := h.uc.SetSubscription(ctx, dto.SetSubscriptionInput{OwnerID: "u1", Plan: "pro"})
	require.NoError(t, err)
	out, err := h.uc.Cancel(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "free", out.Plan)
	assert.Equal(t, "canceled", out.Status)
	assert.True(t, h.uc.Entitlement(ctx, "u1").IsFree())
}

func TestSetSubscriptionRequiresOwner(t *testing.T) {
	t.Parallel()
	h, done := newSQLiteInteractor(t)
	defer done()
	_, err := h.uc.SetSubscription(context.Background(), dto.SetSubscriptionInput{Plan: "pro"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (domain.Subscription, error) {
	return domain.Subscription{}, errors.New("disk on fire")
}
func (failingStore) Save(context.Context, domain.Subscription) error { return nil }

var _ billingout.SubscriptionStore = failingStore{}

func TestEntitlementLookupErrorResolvesToFree(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(failingStore{}, service.NewPlanResolver("", ""), clock.Fixed(now), zap.NewNop())
	got := uc.Entitlement(context.Background(), "u1")
	if !got.IsFree() {
		t.Fatalf("expected free plan on lookup error, got %+v", got)
	}
}
