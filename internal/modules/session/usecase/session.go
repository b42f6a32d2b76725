package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	protocoldomain "dawn/internal/modules/protocol/domain"
	protocoldto "dawn/internal/modules/protocol/dto"
	protocolin "dawn/internal/modules/protocol/port/in"
	"dawn/internal/modules/session/domain"
	sessiondto "dawn/internal/modules/session/dto"
	sessionin "dawn/internal/modules/session/port/in"
	sessionout "dawn/internal/modules/session/port/out"
	"dawn/internal/modules/session/service"
	apperrors "dawn/internal/platform/errors"
	"dawn/internal/platform/metrics"
	"dawn/internal/platform/tx"
)

const dashboardLimit = 50

// Policy holds the trial and adaptation knobs read from configuration.
type Policy struct {
	FreeFullSessions int
	ProgramDays      int
	HistoryWindow    int
}

type Interactor struct {
	svc          *service.SessionService
	repo         sessionout.SessionRepository
	protocols    protocolin.Usecase
	entitlements sessionout.EntitlementReader
	journal      sessionout.JournalExporter
	tx           tx.Manager
	policy       Policy
	metrics      *metrics.Recorder
	logger       *zap.Logger

	startMu sync.Mutex
}

func NewInteractor(
	svc *service.SessionService,
	repo sessionout.SessionRepository,
	protocols protocolin.Usecase,
	entitlements sessionout.EntitlementReader,
	journal sessionout.JournalExporter,
	txm tx.Manager,
	policy Policy,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) sessionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		svc:          svc,
		repo:         repo,
		protocols:    protocols,
		entitlements: entitlements,
		journal:      journal,
		tx:           txm,
		policy:       policy,
		metrics:      recorder,
		logger:       logger,
	}
}

// Start opens today's session. The active-session check and the insert run
// under one lock and one transaction so an owner never ends up with two
// open sessions.
func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	owner := strings.TrimSpace(input.OwnerID)
	if owner == "" {
		return sessiondto.StartOutput{}, fmt.Errorf("%w: owner id is required", apperrors.ErrInvalidInput)
	}
	plan := "free"
	if i.entitlements != nil {
		plan = i.entitlements.Entitlement(ctx, owner).Plan
	}

	i.startMu.Lock()
	defer i.startMu.Unlock()

	var (
		session domain.Session
		deltas  []int
	)
	out := sessiondto.StartOutput{ProgramDays: i.policy.ProgramDays, Plan: plan}
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := i.repo.FindActive(ctx, owner); err == nil {
			return apperrors.ErrActiveSessionExists
		} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
			return err
		}

		completed, err := i.repo.ListCompleted(ctx, owner, 0)
		if err != nil {
			return err
		}
		dayIndex := service.NextDayIndex(completed)

		maintenance := false
		if plan == "free" && dayIndex >= i.policy.FreeFullSessions {
			if !input.AcceptMaintenance {
				i.logger.Info("full protocol requires upgrade", zap.String("owner_id", owner), zap.Int("day_index", dayIndex))
				return apperrors.ErrUpgradeRequired
			}
			maintenance = true
		}

		deltas = service.RecentDeltas(completed, i.policy.HistoryWindow)
		protocol, err := i.protocols.Preview(ctx, protocoldto.PreviewInput{
			Context:      input.Context,
			DayIndex:     dayIndex,
			RecentDeltas: deltas,
			Maintenance:  maintenance,
		})
		if err != nil {
			return err
		}

		session = i.svc.NewSession(owner, input.DeviceID, protocoldomain.Context(protocol.Context), dayIndex, protocol.ID, maintenance, input.WakeTimeReported)
		if err := i.repo.Save(ctx, session); err != nil {
			return err
		}
		out.SessionID = session.ID
		out.DayIndex = dayIndex
		out.StartedAt = session.StartedAt
		out.Protocol = protocol
		return nil
	})
	if err != nil {
		return sessiondto.StartOutput{}, err
	}

	i.metrics.SessionStarted(out.Protocol.Context, session.Maintenance)
	i.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("protocol_id", out.Protocol.ID),
		zap.Int("day_index", out.DayIndex),
		zap.Ints("recent_deltas", deltas),
	)
	return out, nil
}

func (i *Interactor) RecordTest(ctx context.Context, input sessiondto.RecordTestInput) (sessiondto.RecordTestOutput, error) {
	timing, err := domain.ParseTiming(input.Timing)
	if err != nil {
		return sessiondto.RecordTestOutput{}, err
	}
	session, err := i.load(ctx, input.OwnerID, input.SessionID)
	if err != nil {
		return sessiondto.RecordTestOutput{}, err
	}
	result, err := session.RecordTest(timing, toSamples(input.Reactions))
	if err != nil {
		return sessiondto.RecordTestOutput{}, err
	}
	if err := i.repo.Save(ctx, session); err != nil {
		return sessiondto.RecordTestOutput{}, err
	}
	i.metrics.ReactionScored(string(timing), result.Score)
	i.logger.Debug("reaction test recorded",
		zap.String("session_id", session.ID),
		zap.String("timing", string(timing)),
		zap.Int("score", result.Score),
		zap.Int("samples", len(input.Reactions)),
	)
	return sessiondto.RecordTestOutput{
		SessionID: session.ID,
		Timing:    string(timing),
		Score:     result.Score,
		MedianMS:  result.MedianMS,
		MeanMS:    result.MeanMS,
		BestMS:    result.BestMS,
		WorstMS:   result.WorstMS,
		Samples:   len(input.Reactions),
	}, nil
}

func (i *Interactor) RecordEnergy(ctx context.Context, input sessiondto.RecordEnergyInput) (sessiondto.SessionOutput, error) {
	timing, err := domain.ParseTiming(input.Timing)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	session, err := i.load(ctx, input.OwnerID, input.SessionID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if err := session.RecordEnergy(timing, input.Rating); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if err := i.repo.Save(ctx, session); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Complete(ctx context.Context, input sessiondto.CompleteInput) (sessiondto.CompleteOutput, error) {
	session, err := i.load(ctx, input.OwnerID, input.SessionID)
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	minutes, err := session.Complete(i.svc.Now())
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	if err := i.repo.Save(ctx, session); err != nil {
		return sessiondto.CompleteOutput{}, err
	}

	improvement, _ := session.Improvement()
	i.metrics.SessionCompleted(improvement.Improved, minutes)

	journalPath := ""
	if i.journal != nil {
		journalPath, err = i.journal.Export(ctx, session)
		if err != nil {
			i.logger.Warn("journal export failed", zap.String("session_id", session.ID), zap.Error(err))
			journalPath = ""
		}
	}

	completed, err := i.repo.ListCompleted(ctx, session.OwnerID, 0)
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	i.logger.Info("session completed",
		zap.String("session_id", session.ID),
		zap.Int("delta", improvement.Delta),
		zap.Int("minutes_saved", minutes),
	)

	return sessiondto.CompleteOutput{
		SessionID:     session.ID,
		CompletedAt:   *session.CompletedAt,
		PreScore:      session.ReactionPreScore,
		PostScore:     session.ReactionPostScore,
		Delta:         improvement.Delta,
		PercentChange: improvement.PercentChange,
		Improved:      improvement.Improved,
		MinutesSaved:  minutes,
		DayIndex:      session.DayIndex,
		NextDayIndex:  service.NextDayIndex(completed),
		ProgramDays:   i.policy.ProgramDays,
		JournalPath:   journalPath,
	}, nil
}

func (i *Interactor) GetActive(ctx context.Context, ownerID string) (sessiondto.SessionOutput, error) {
	session, err := i.repo.FindActive(ctx, ownerID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Dashboard(ctx context.Context, ownerID string) (sessiondto.DashboardOutput, error) {
	completed, err := i.repo.ListCompleted(ctx, ownerID, 0)
	if err != nil {
		return sessiondto.DashboardOutput{}, err
	}
	shown := completed
	if len(shown) > dashboardLimit {
		shown = shown[:dashboardLimit]
	}
	sessions := make([]sessiondto.SessionOutput, 0, len(shown))
	for _, session := range shown {
		sessions = append(sessions, toOutput(session))
	}
	return sessiondto.DashboardOutput{
		Sessions:          sessions,
		DayIndex:          service.NextDayIndex(completed),
		ProgramDays:       i.policy.ProgramDays,
		Streak:            service.Streak(completed, i.svc.Now()),
		TotalMinutesSaved: service.TotalMinutesSaved(completed),
		RecentDeltas:      service.RecentDeltas(completed, i.policy.HistoryWindow),
	}, nil
}

func (i *Interactor) load(ctx context.Context, ownerID, sessionID string) (domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return i.repo.FindActive(ctx, ownerID)
	}
	session, err := i.repo.FindByID(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if ownerID != "" && session.OwnerID != ownerID {
		return domain.Session{}, apperrors.ErrNotFound
	}
	return session, nil
}

func toOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		SessionID:        session.ID,
		OwnerID:          session.OwnerID,
		DeviceID:         session.DeviceID,
		Context:          string(session.Context),
		DayIndex:         session.DayIndex,
		ProtocolID:       session.ProtocolID,
		Maintenance:      session.Maintenance,
		StartedAt:        session.StartedAt,
		WakeTimeReported: session.WakeTimeReported,
		CompletedAt:      session.CompletedAt,
		PreScore:         session.ReactionPreScore,
		PostScore:        session.ReactionPostScore,
		EnergyPre:        session.EnergyPre,
		EnergyPost:       session.EnergyPost,
		MinutesSaved:     session.MinutesSavedEst,
	}
}
