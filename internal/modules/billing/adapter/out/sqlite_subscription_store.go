package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dawn/internal/modules/billing/domain"
	billingout "dawn/internal/modules/billing/port/out"
	apperrors "dawn/internal/platform/errors"
	"dawn/internal/platform/sqlitedb"
)

type SQLiteSubscriptionStore struct {
	db *sql.DB
}

func NewSQLiteSubscriptionStore(ctx context.Context, db *sql.DB) (billingout.SubscriptionStore, error) {
	store := &SQLiteSubscriptionStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSubscriptionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS subscriptions (
  owner_id TEXT PRIMARY KEY,
  plan TEXT NOT NULL,
  status TEXT NOT NULL,
  price_id TEXT,
  current_period_end TEXT,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create subscriptions table: %w", err)
	}
	return nil
}

func (s *SQLiteSubscriptionStore) Load(ctx context.Context, ownerID string) (domain.Subscription, error) {
	const query = `SELECT owner_id, plan, status, price_id, current_period_end, updated_at FROM subscriptions WHERE owner_id = ?`
	var (
		sub       domain.Subscription
		plan      string
		priceID   sql.NullString
		periodEnd sql.NullString
		updatedAt string
	)
	err := sqlitedb.Conn(ctx, s.db).QueryRowContext(ctx, query, ownerID).Scan(&sub.OwnerID, &plan, &sub.Status, &priceID, &periodEnd, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subscription{}, apperrors.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("load subscription: %w", err)
	}
	sub.Plan = domain.Plan(plan)
	sub.PriceID = priceID.String
	if periodEnd.Valid && periodEnd.String != "" {
		ts, err := time.Parse(time.RFC3339, periodEnd.String)
		if err != nil {
			return domain.Subscription{}, fmt.Errorf("parse period end: %w", err)
		}
		sub.CurrentPeriodEnd = &ts
	}
	if sub.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return domain.Subscription{}, fmt.Errorf("parse updated at: %w", err)
	}
	return sub, nil
}

func (s *SQLiteSubscriptionStore) Save(ctx context.Context, sub domain.Subscription) error {
	const stmt = `
INSERT INTO subscriptions (owner_id, plan, status, price_id, current_period_end, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(owner_id) DO UPDATE SET
  plan=excluded.plan,
  status=excluded.status,
  price_id=excluded.price_id,
  current_period_end=excluded.current_period_end,
  updated_at=excluded.updated_at;
`
	var periodEnd any
	if sub.CurrentPeriodEnd != nil {
		periodEnd = sub.CurrentPeriodEnd.UTC().Format(time.RFC3339)
	}
	_, err := sqlitedb.Conn(ctx, s.db).ExecContext(ctx, stmt,
		sub.OwnerID,
		string(sub.Plan),
		sub.Status,
		sub.PriceID,
		periodEnd,
		sub.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}
