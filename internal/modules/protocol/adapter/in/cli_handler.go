package in

import (
	"context"

	protocoldto "dawn/internal/modules/protocol/dto"
	protocolin "dawn/internal/modules/protocol/port/in"
)

type CLIHandler struct {
	usecase protocolin.Usecase
}

func NewCLIHandler(usecase protocolin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Preview(ctx context.Context, mode string, dayIndex int, deltas []int, maintenance bool) (protocoldto.ProtocolOutput, error) {
	return h.usecase.Preview(ctx, protocoldto.PreviewInput{
		Context:      mode,
		DayIndex:     dayIndex,
		RecentDeltas: deltas,
		Maintenance:  maintenance,
	})
}
