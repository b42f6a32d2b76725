package domain

import (
	"fmt"
	"strings"
	"time"

	protocoldomain "dawn/internal/modules/protocol/domain"
	scoringdomain "dawn/internal/modules/scoring/domain"
	apperrors "dawn/internal/platform/errors"
)

const SchemaVersion = 1

// Timing distinguishes the test taken before the protocol from the one after.
type Timing string

const (
	TimingPre  Timing = "pre"
	TimingPost Timing = "post"
)

func ParseTiming(raw string) (Timing, error) {
	switch Timing(strings.ToLower(strings.TrimSpace(raw))) {
	case TimingPre:
		return TimingPre, nil
	case TimingPost:
		return TimingPost, nil
	default:
		return "", fmt.Errorf("%w: timing must be pre or post, got %q", apperrors.ErrInvalidInput, raw)
	}
}

const (
	MinEnergy = 1
	MaxEnergy = 5
)

// Session is one morning run. Outcome fields stay nil until their phase is
// recorded; a session with CompletedAt set is final.
type Session struct {
	ID               string
	OwnerID          string
	DeviceID         string
	Context          protocoldomain.Context
	DayIndex         int
	ProtocolID       string
	Maintenance      bool
	StartedAt        time.Time
	WakeTimeReported *time.Time
	CompletedAt      *time.Time

	ReactionPreScore  *int
	ReactionPostScore *int
	EnergyPre         *int
	EnergyPost        *int
	MinutesSavedEst   *int

	ReactionPreSamples  []scoringdomain.ReactionSample
	ReactionPostSamples []scoringdomain.ReactionSample
}

func (s Session) IsCompleted() bool {
	return s.CompletedAt != nil
}

// RecordTest scores samples and stores them for the given timing. The post
// test requires a pre test.
func (s *Session) RecordTest(timing Timing, samples []scoringdomain.ReactionSample) (scoringdomain.ReactionTestResult, error) {
	if s.IsCompleted() {
		return scoringdomain.ReactionTestResult{}, apperrors.ErrSessionCompleted
	}
	result := scoringdomain.ComputeReactionScore(samples)
	kept := append([]scoringdomain.ReactionSample(nil), samples...)
	switch timing {
	case TimingPre:
		s.ReactionPreScore = intPtr(result.Score)
		s.ReactionPreSamples = kept
	case TimingPost:
		if s.ReactionPreScore == nil {
			return scoringdomain.ReactionTestResult{}, fmt.Errorf("%w: pre-test must be recorded before post-test", apperrors.ErrInvalidInput)
		}
		s.ReactionPostScore = intPtr(result.Score)
		s.ReactionPostSamples = kept
	default:
		return scoringdomain.ReactionTestResult{}, fmt.Errorf("%w: unknown timing %q", apperrors.ErrInvalidInput, timing)
	}
	return result, nil
}

// RecordEnergy stores a 1-5 self rating. The post rating follows the post test.
func (s *Session) RecordEnergy(timing Timing, rating int) error {
	if s.IsCompleted() {
		return apperrors.ErrSessionCompleted
	}
	if rating < MinEnergy || rating > MaxEnergy {
		return fmt.Errorf("%w: energy rating must be between %d and %d", apperrors.ErrInvalidInput, MinEnergy, MaxEnergy)
	}
	switch timing {
	case TimingPre:
		s.EnergyPre = intPtr(rating)
	case TimingPost:
		if s.ReactionPostScore == nil {
			return fmt.Errorf("%w: post-test must be recorded before post energy", apperrors.ErrInvalidInput)
		}
		s.EnergyPost = intPtr(rating)
	default:
		return fmt.Errorf("%w: unknown timing %q", apperrors.ErrInvalidInput, timing)
	}
	return nil
}

// Complete finalises the session. Minutes saved are estimated only when both
// scores exist; a skipped post test records zero.
func (s *Session) Complete(at time.Time) (int, error) {
	if s.IsCompleted() {
		return 0, apperrors.ErrSessionCompleted
	}
	minutes := 0
	if s.ReactionPreScore != nil && s.ReactionPostScore != nil {
		minutes = scoringdomain.EstimateMinutesSaved(*s.ReactionPreScore, *s.ReactionPostScore, s.DayIndex)
	}
	completed := at
	s.CompletedAt = &completed
	s.MinutesSavedEst = intPtr(minutes)
	return minutes, nil
}

// Improvement compares the two scores; ok is false until both exist.
func (s Session) Improvement() (scoringdomain.Improvement, bool) {
	if s.ReactionPreScore == nil || s.ReactionPostScore == nil {
		return scoringdomain.Improvement{}, false
	}
	return scoringdomain.ComputeImprovement(*s.ReactionPreScore, *s.ReactionPostScore), true
}

func (s Session) ScorePair() scoringdomain.ScorePair {
	return scoringdomain.ScorePair{Pre: s.ReactionPreScore, Post: s.ReactionPostScore}
}

func intPtr(v int) *int {
	return &v
}
