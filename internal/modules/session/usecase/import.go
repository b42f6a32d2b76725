package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	protocoldomain "dawn/internal/modules/protocol/domain"
	scoringdomain "dawn/internal/modules/scoring/domain"
	"dawn/internal/modules/session/domain"
	sessiondto "dawn/internal/modules/session/dto"
	apperrors "dawn/internal/platform/errors"
)

// Import migrates a device-local export. Incomplete sessions are skipped;
// a session already stored for the same owner, device and start time is
// overwritten in place. New sessions always get a fresh id, never the
// export's own. The whole export lands in one transaction.
func (i *Interactor) Import(ctx context.Context, input sessiondto.ImportInput) (sessiondto.ImportOutput, error) {
	owner := strings.TrimSpace(input.OwnerID)
	if owner == "" {
		return sessiondto.ImportOutput{}, fmt.Errorf("%w: owner id is required", apperrors.ErrInvalidInput)
	}
	out := sessiondto.ImportOutput{}
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		for _, local := range input.Export.Sessions {
			if local.CompletedAt == nil {
				out.Skipped++
				continue
			}
			session := fromLocal(owner, input.Export.DeviceID, local)
			existing, err := i.repo.FindByStart(ctx, owner, session.DeviceID, session.StartedAt)
			switch {
			case err == nil:
				session.ID = existing.ID
				out.Updated++
			case errors.Is(err, apperrors.ErrNotFound):
				session.ID = i.svc.NewID()
				out.Imported++
			default:
				return err
			}
			if err := i.repo.Save(ctx, session); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sessiondto.ImportOutput{}, fmt.Errorf("import sessions: %w", err)
	}
	i.logger.Info("local sessions imported",
		zap.String("owner_id", owner),
		zap.Int("imported", out.Imported),
		zap.Int("updated", out.Updated),
		zap.Int("skipped", out.Skipped),
	)
	return out, nil
}

func fromLocal(owner, exportDevice string, local sessiondto.LocalSession) domain.Session {
	device := local.DeviceID
	if device == "" {
		device = exportDevice
	}
	session := domain.Session{
		OwnerID:             owner,
		DeviceID:            device,
		Context:             protocoldomain.ParseContext(local.Context),
		DayIndex:            max(local.DayIndex, 0),
		ProtocolID:          local.ProtocolID,
		Maintenance:         strings.HasPrefix(local.ProtocolID, "maintenance-"),
		StartedAt:           local.StartedAt.UTC(),
		WakeTimeReported:    local.WakeTimeReported,
		CompletedAt:         local.CompletedAt,
		ReactionPreScore:    local.ReactionPreScore,
		ReactionPostScore:   local.ReactionPostScore,
		EnergyPre:           validEnergy(local.EnergyPre),
		EnergyPost:          validEnergy(local.EnergyPost),
		ReactionPreSamples:  fromEvents(local.ReactionPreEvents),
		ReactionPostSamples: fromEvents(local.ReactionPostEvents),
	}
	minutes := 0
	if local.MinutesSavedEst != nil && *local.MinutesSavedEst > 0 {
		minutes = *local.MinutesSavedEst
	}
	session.MinutesSavedEst = &minutes
	return session
}

func validEnergy(v *int) *int {
	if v == nil || *v < domain.MinEnergy || *v > domain.MaxEnergy {
		return nil
	}
	return v
}

func fromEvents(events []sessiondto.ReactionEvent) []scoringdomain.ReactionSample {
	if len(events) == 0 {
		return nil
	}
	samples := make([]scoringdomain.ReactionSample, 0, len(events))
	for _, e := range events {
		shown := time.UnixMilli(e.StimulusShownAt).UTC()
		samples = append(samples, scoringdomain.SampleFromMS(shown, e.ReactionTimeMS))
	}
	return samples
}

func toSamples(reactions []sessiondto.ReactionInput) []scoringdomain.ReactionSample {
	samples := make([]scoringdomain.ReactionSample, 0, len(reactions))
	for _, r := range reactions {
		samples = append(samples, scoringdomain.ReactionSample{StimulusShownAt: r.StimulusShownAt, RespondedAt: r.RespondedAt})
	}
	return samples
}
