package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	protocoldomain "dawn/internal/modules/protocol/domain"
	scoringdomain "dawn/internal/modules/scoring/domain"
	"dawn/internal/modules/session/domain"
	sessionout "dawn/internal/modules/session/port/out"
	apperrors "dawn/internal/platform/errors"
)

// FileSessionRepository keeps every session in one JSON document. It suits
// a single device without a database.
type FileSessionRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileSessionRepository(path string) sessionout.SessionRepository {
	return &FileSessionRepository{path: path}
}

type fileDocument struct {
	SchemaVersion int           `json:"schema_version"`
	Sessions      []fileSession `json:"sessions"`
}

type fileSession struct {
	ID                  string                         `json:"id"`
	OwnerID             string                         `json:"owner_id"`
	DeviceID            string                         `json:"device_id"`
	Context             string                         `json:"context"`
	DayIndex            int                            `json:"day_index"`
	ProtocolID          string                         `json:"protocol_id"`
	Maintenance         bool                           `json:"maintenance"`
	StartedAt           time.Time                      `json:"started_at"`
	WakeTimeReported    *time.Time                     `json:"wake_time_reported"`
	CompletedAt         *time.Time                     `json:"completed_at"`
	ReactionPreScore    *int                           `json:"reaction_pre_score"`
	ReactionPostScore   *int                           `json:"reaction_post_score"`
	EnergyPre           *int                           `json:"energy_pre"`
	EnergyPost          *int                           `json:"energy_post"`
	MinutesSavedEst     *int                           `json:"minutes_saved_est"`
	ReactionPreSamples  []scoringdomain.ReactionSample `json:"reaction_pre_samples,omitempty"`
	ReactionPostSamples []scoringdomain.ReactionSample `json:"reaction_post_samples,omitempty"`
}

func (s *FileSessionRepository) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	record := toFile(session)
	replaced := false
	for idx := range doc.Sessions {
		if doc.Sessions[idx].ID == session.ID {
			if doc.Sessions[idx].OwnerID != session.OwnerID {
				return fmt.Errorf("%w: session %s belongs to another owner", apperrors.ErrInvalidInput, session.ID)
			}
			doc.Sessions[idx] = record
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Sessions = append(doc.Sessions, record)
	}
	return s.write(doc)
}

func (s *FileSessionRepository) FindByID(_ context.Context, id string) (domain.Session, error) {
	return s.find(func(f fileSession) bool { return f.ID == id }, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound))
}

func (s *FileSessionRepository) FindActive(_ context.Context, ownerID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return domain.Session{}, err
	}
	var active *fileSession
	for idx := range doc.Sessions {
		f := &doc.Sessions[idx]
		if f.OwnerID != ownerID || f.CompletedAt != nil {
			continue
		}
		if active == nil || f.StartedAt.After(active.StartedAt) {
			active = f
		}
	}
	if active == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return fromFile(*active), nil
}

func (s *FileSessionRepository) ListCompleted(_ context.Context, ownerID string, limit int) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	out := []domain.Session{}
	for _, f := range doc.Sessions {
		if f.OwnerID == ownerID && f.CompletedAt != nil {
			out = append(out, fromFile(f))
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		ca, cb := *out[a].CompletedAt, *out[b].CompletedAt
		if !ca.Equal(cb) {
			return ca.After(cb)
		}
		return out[a].StartedAt.After(out[b].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileSessionRepository) FindByStart(_ context.Context, ownerID, deviceID string, startedAt time.Time) (domain.Session, error) {
	return s.find(func(f fileSession) bool {
		return f.OwnerID == ownerID && f.DeviceID == deviceID && f.StartedAt.Equal(startedAt)
	}, apperrors.ErrNotFound)
}

func (s *FileSessionRepository) find(match func(fileSession) bool, notFound error) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return domain.Session{}, err
	}
	for _, f := range doc.Sessions {
		if match(f) {
			return fromFile(f), nil
		}
	}
	return domain.Session{}, notFound
}

func (s *FileSessionRepository) read() (fileDocument, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileDocument{SchemaVersion: domain.SchemaVersion}, nil
		}
		return fileDocument{}, fmt.Errorf("read sessions: %w", err)
	}
	doc := fileDocument{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fileDocument{}, fmt.Errorf("decode sessions: %w", err)
	}
	return doc, nil
}

func (s *FileSessionRepository) write(doc fileDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	doc.SchemaVersion = domain.SchemaVersion
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace sessions: %w", err)
	}
	return nil
}

func toFile(s domain.Session) fileSession {
	return fileSession{
		ID:                  s.ID,
		OwnerID:             s.OwnerID,
		DeviceID:            s.DeviceID,
		Context:             string(s.Context),
		DayIndex:            s.DayIndex,
		ProtocolID:          s.ProtocolID,
		Maintenance:         s.Maintenance,
		StartedAt:           s.StartedAt,
		WakeTimeReported:    s.WakeTimeReported,
		CompletedAt:         s.CompletedAt,
		ReactionPreScore:    s.ReactionPreScore,
		ReactionPostScore:   s.ReactionPostScore,
		EnergyPre:           s.EnergyPre,
		EnergyPost:          s.EnergyPost,
		MinutesSavedEst:     s.MinutesSavedEst,
		ReactionPreSamples:  s.ReactionPreSamples,
		ReactionPostSamples: s.ReactionPostSamples,
	}
}

func fromFile(f fileSession) domain.Session {
	return domain.Session{
		ID:                  f.ID,
		OwnerID:             f.OwnerID,
		DeviceID:            f.DeviceID,
		Context:             protocoldomain.Context(f.Context),
		DayIndex:            f.DayIndex,
		ProtocolID:          f.ProtocolID,
		Maintenance:         f.Maintenance,
		StartedAt:           f.StartedAt,
		WakeTimeReported:    f.WakeTimeReported,
		CompletedAt:         f.CompletedAt,
		ReactionPreScore:    f.ReactionPreScore,
		ReactionPostScore:   f.ReactionPostScore,
		EnergyPre:           f.EnergyPre,
		EnergyPost:          f.EnergyPost,
		MinutesSavedEst:     f.MinutesSavedEst,
		ReactionPreSamples:  f.ReactionPreSamples,
		ReactionPostSamples: f.ReactionPostSamples,
	}
}
