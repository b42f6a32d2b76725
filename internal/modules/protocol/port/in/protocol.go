package in

import (
	"context"

	"dawn/internal/modules/protocol/dto"
)

type Usecase interface {
	Preview(ctx context.Context, input dto.PreviewInput) (dto.ProtocolOutput, error)
}
