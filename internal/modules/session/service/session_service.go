package service

import (
	"time"

	protocoldomain "dawn/internal/modules/protocol/domain"
	scoringdomain "dawn/internal/modules/scoring/domain"
	"dawn/internal/modules/session/domain"
	"dawn/internal/platform/clock"
	"dawn/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewSessionService(clock clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, idGen: idGen}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) NewID() string {
	return s.idGen.New()
}

// NewSession opens a session for the selected protocol.
func (s *SessionService) NewSession(ownerID, deviceID string, ctx protocoldomain.Context, dayIndex int, protocolID string, maintenance bool, wake *time.Time) domain.Session {
	return domain.Session{
		ID:               s.idGen.New(),
		OwnerID:          ownerID,
		DeviceID:         deviceID,
		Context:          ctx,
		DayIndex:         dayIndex,
		ProtocolID:       protocolID,
		Maintenance:      maintenance,
		StartedAt:        s.clock.Now(),
		WakeTimeReported: wake,
	}
}

// NextDayIndex is one past the highest day index among completed sessions,
// or 0 with no history.
func NextDayIndex(completed []domain.Session) int {
	next := 0
	for _, session := range completed {
		if !session.IsCompleted() {
			continue
		}
		if session.DayIndex+1 > next {
			next = session.DayIndex + 1
		}
	}
	return next
}

// RecentDeltas takes completed sessions newest first and returns the score
// deltas of the latest window sessions in chronological order.
func RecentDeltas(newestFirst []domain.Session, window int) []int {
	if window > 0 && len(newestFirst) > window {
		newestFirst = newestFirst[:window]
	}
	pairs := make([]scoringdomain.ScorePair, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		if newestFirst[i].IsCompleted() {
			pairs = append(pairs, newestFirst[i].ScorePair())
		}
	}
	return scoringdomain.RecentDeltas(pairs)
}

// Streak counts consecutive UTC calendar days with a completed session,
// ending today or yesterday.
func Streak(completed []domain.Session, now time.Time) int {
	days := map[time.Time]bool{}
	for _, session := range completed {
		if session.CompletedAt != nil {
			days[day(*session.CompletedAt)] = true
		}
	}
	cursor := day(now)
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func TotalMinutesSaved(completed []domain.Session) int {
	total := 0
	for _, session := range completed {
		if session.MinutesSavedEst != nil {
			total += *session.MinutesSavedEst
		}
	}
	return total
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
