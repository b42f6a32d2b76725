package in

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sessiondto "dawn/internal/modules/session/dto"
	sessionin "dawn/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, ownerID, deviceID, mode string, wake *time.Time, acceptMaintenance bool) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{
		OwnerID:           ownerID,
		DeviceID:          deviceID,
		Context:           mode,
		WakeTimeReported:  wake,
		AcceptMaintenance: acceptMaintenance,
	})
}

// RecordTest records reaction times given in milliseconds, one stimulus
// every two seconds from now.
func (h CLIHandler) RecordTest(ctx context.Context, ownerID, sessionID, timing string, reactionMS []float64) (sessiondto.RecordTestOutput, error) {
	base := time.Now().UTC()
	reactions := make([]sessiondto.ReactionInput, 0, len(reactionMS))
	for i, ms := range reactionMS {
		shown := base.Add(time.Duration(i) * 2 * time.Second)
		reactions = append(reactions, sessiondto.ReactionInput{
			StimulusShownAt: shown,
			RespondedAt:     shown.Add(time.Duration(ms * float64(time.Millisecond))),
		})
	}
	return h.RecordReactions(ctx, ownerID, sessionID, timing, reactions)
}

func (h CLIHandler) RecordReactions(ctx context.Context, ownerID, sessionID, timing string, reactions []sessiondto.ReactionInput) (sessiondto.RecordTestOutput, error) {
	return h.usecase.RecordTest(ctx, sessiondto.RecordTestInput{OwnerID: ownerID, SessionID: sessionID, Timing: timing, Reactions: reactions})
}

func (h CLIHandler) RecordEnergy(ctx context.Context, ownerID, sessionID, timing string, rating int) (sessiondto.SessionOutput, error) {
	return h.usecase.RecordEnergy(ctx, sessiondto.RecordEnergyInput{OwnerID: ownerID, SessionID: sessionID, Timing: timing, Rating: rating})
}

func (h CLIHandler) Complete(ctx context.Context, ownerID, sessionID string) (sessiondto.CompleteOutput, error) {
	return h.usecase.Complete(ctx, sessiondto.CompleteInput{OwnerID: ownerID, SessionID: sessionID})
}

func (h CLIHandler) GetActive(ctx context.Context, ownerID string) (sessiondto.SessionOutput, error) {
	return h.usecase.GetActive(ctx, ownerID)
}

func (h CLIHandler) Dashboard(ctx context.Context, ownerID string) (sessiondto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx, ownerID)
}

// Import decodes a device-local export document and migrates it.
func (h CLIHandler) Import(ctx context.Context, ownerID string, payload []byte) (sessiondto.ImportOutput, error) {
	export := sessiondto.LocalExport{}
	if err := json.Unmarshal(payload, &export); err != nil {
		return sessiondto.ImportOutput{}, fmt.Errorf("decode export: %w", err)
	}
	return h.usecase.Import(ctx, sessiondto.ImportInput{OwnerID: ownerID, Export: export})
}
