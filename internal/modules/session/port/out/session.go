package out

import (
	"context"
	"time"

	billingdto "dawn/internal/modules/billing/dto"
	"dawn/internal/modules/session/domain"
)

type SessionRepository interface {
	// Save inserts or replaces the session with the same ID.
	Save(ctx context.Context, session domain.Session) error
	FindByID(ctx context.Context, id string) (domain.Session, error)
	// FindActive returns apperrors.ErrNoActiveSession when every session of
	// the owner is completed.
	FindActive(ctx context.Context, ownerID string) (domain.Session, error)
	// ListCompleted returns completed sessions newest first; limit <= 0
	// returns all of them.
	ListCompleted(ctx context.Context, ownerID string, limit int) ([]domain.Session, error)
	FindByStart(ctx context.Context, ownerID, deviceID string, startedAt time.Time) (domain.Session, error)
}

// JournalExporter writes a human-readable note for a completed session.
type JournalExporter interface {
	Export(ctx context.Context, session domain.Session) (string, error)
}

type EntitlementReader interface {
	Entitlement(ctx context.Context, ownerID string) billingdto.EntitlementOutput
}

// DeviceIdentity supplies the stable id of this installation.
type DeviceIdentity interface {
	DeviceID(ctx context.Context) (string, error)
}
