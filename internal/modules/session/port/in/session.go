package in

import (
	"context"

	"dawn/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	RecordTest(ctx context.Context, input dto.RecordTestInput) (dto.RecordTestOutput, error)
	RecordEnergy(ctx context.Context, input dto.RecordEnergyInput) (dto.SessionOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	GetActive(ctx context.Context, ownerID string) (dto.SessionOutput, error)
	Dashboard(ctx context.Context, ownerID string) (dto.DashboardOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
}
