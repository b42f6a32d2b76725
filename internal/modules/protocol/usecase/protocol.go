package usecase

import (
	"context"
	"fmt"

	"dawn/internal/modules/protocol/domain"
	"dawn/internal/modules/protocol/dto"
	protocolin "dawn/internal/modules/protocol/port/in"
	apperrors "dawn/internal/platform/errors"
)

type Interactor struct{}

func NewInteractor() protocolin.Usecase {
	return &Interactor{}
}

func (i *Interactor) Preview(_ context.Context, input dto.PreviewInput) (dto.ProtocolOutput, error) {
	if input.DayIndex < 0 {
		return dto.ProtocolOutput{}, fmt.Errorf("%w: day index must be non-negative", apperrors.ErrInvalidInput)
	}
	ctx := domain.ParseContext(input.Context)
	var protocol domain.Protocol
	if input.Maintenance {
		protocol = domain.Maintenance(ctx)
	} else {
		protocol = domain.Select(ctx, input.DayIndex, input.RecentDeltas)
	}
	if err := protocol.Validate(); err != nil {
		return dto.ProtocolOutput{}, fmt.Errorf("select protocol: %w", err)
	}
	return toOutput(ctx, protocol), nil
}

func toOutput(ctx domain.Context, protocol domain.Protocol) dto.ProtocolOutput {
	steps := make([]dto.StepOutput, 0, len(protocol.Steps))
	for _, step := range protocol.Steps {
		out := dto.StepOutput{
			ID:              step.ID,
			Name:            step.Name,
			Kind:            string(step.Kind),
			DurationSeconds: step.DurationSeconds,
			Instructions:    step.Instructions,
		}
		if c := step.BreathCadence; c != nil {
			out.BreathCadence = &dto.BreathCadenceOutput{
				InhaleSeconds: c.InhaleSeconds,
				HoldSeconds:   c.HoldSeconds,
				ExhaleSeconds: c.ExhaleSeconds,
				Cycles:        c.Cycles,
			}
		}
		steps = append(steps, out)
	}
	return dto.ProtocolOutput{
		ID:                   protocol.ID,
		Name:                 protocol.Name,
		Context:              string(ctx),
		Maintenance:          protocol.IsMaintenance(),
		TotalDurationSeconds: protocol.TotalDurationSeconds,
		Steps:                steps,
	}
}
