package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	protocoldomain "dawn/internal/modules/protocol/domain"
	scoringdomain "dawn/internal/modules/scoring/domain"
	"dawn/internal/modules/session/domain"
	sessionout "dawn/internal/modules/session/port/out"
	apperrors "dawn/internal/platform/errors"
	"dawn/internal/platform/sqlitedb"
)

// Fixed width keeps lexical order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const sessionColumns = `id, owner_id, device_id, context, day_index, protocol_id, maintenance, started_at,
  wake_time_reported, completed_at, reaction_pre_score, reaction_post_score, energy_pre, energy_post, minutes_saved_est`

type SQLiteSessionRepository struct {
	db  *sql.DB
	txm *sqlitedb.TxManager
}

func NewSQLiteSessionRepository(ctx context.Context, db *sql.DB) (sessionout.SessionRepository, error) {
	repo := &SQLiteSessionRepository{db: db, txm: sqlitedb.NewTxManager(db)}
	if err := repo.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (s *SQLiteSessionRepository) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  device_id TEXT NOT NULL,
  context TEXT NOT NULL,
  day_index INTEGER NOT NULL,
  protocol_id TEXT NOT NULL,
  maintenance INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  wake_time_reported TEXT,
  completed_at TEXT,
  reaction_pre_score INTEGER,
  reaction_post_score INTEGER,
  energy_pre INTEGER,
  energy_post INTEGER,
  minutes_saved_est INTEGER
);
CREATE INDEX IF NOT EXISTS sessions_owner_completed ON sessions (owner_id, completed_at);
CREATE INDEX IF NOT EXISTS sessions_owner_device_start ON sessions (owner_id, device_id, started_at);
CREATE TABLE IF NOT EXISTS reaction_samples (
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  timing TEXT NOT NULL,
  seq INTEGER NOT NULL,
  stimulus_shown_at TEXT NOT NULL,
  responded_at TEXT NOT NULL,
  PRIMARY KEY (session_id, timing, seq)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create session tables: %w", err)
	}
	return nil
}

func (s *SQLiteSessionRepository) Save(ctx context.Context, session domain.Session) error {
	return s.txm.Within(ctx, func(ctx context.Context) error {
		q := sqlitedb.Conn(ctx, s.db)
		var stored string
		err := q.QueryRowContext(ctx, `SELECT owner_id FROM sessions WHERE id = ?`, session.ID).Scan(&stored)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("lookup session owner: %w", err)
		case stored != session.OwnerID:
			return fmt.Errorf("%w: session %s belongs to another owner", apperrors.ErrInvalidInput, session.ID)
		}
		const stmt = `
INSERT INTO sessions (` + sessionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  device_id=excluded.device_id,
  context=excluded.context,
  day_index=excluded.day_index,
  protocol_id=excluded.protocol_id,
  maintenance=excluded.maintenance,
  started_at=excluded.started_at,
  wake_time_reported=excluded.wake_time_reported,
  completed_at=excluded.completed_at,
  reaction_pre_score=excluded.reaction_pre_score,
  reaction_post_score=excluded.reaction_post_score,
  energy_pre=excluded.energy_pre,
  energy_post=excluded.energy_post,
  minutes_saved_est=excluded.minutes_saved_est;
`
		_, err = q.ExecContext(ctx, stmt,
			session.ID,
			session.OwnerID,
			session.DeviceID,
			string(session.Context),
			session.DayIndex,
			session.ProtocolID,
			session.Maintenance,
			formatTime(session.StartedAt),
			nullTime(session.WakeTimeReported),
			nullTime(session.CompletedAt),
			nullInt(session.ReactionPreScore),
			nullInt(session.ReactionPostScore),
			nullInt(session.EnergyPre),
			nullInt(session.EnergyPost),
			nullInt(session.MinutesSavedEst),
		)
		if err != nil {
			return fmt.Errorf("upsert session: %w", err)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM reaction_samples WHERE session_id = ?`, session.ID); err != nil {
			return fmt.Errorf("clear reaction samples: %w", err)
		}
		if err := insertSamples(ctx, q, session.ID, domain.TimingPre, session.ReactionPreSamples); err != nil {
			return err
		}
		return insertSamples(ctx, q, session.ID, domain.TimingPost, session.ReactionPostSamples)
	})
}

func insertSamples(ctx context.Context, q sqlitedb.Querier, sessionID string, timing domain.Timing, samples []scoringdomain.ReactionSample) error {
	for seq, sample := range samples {
		_, err := q.ExecContext(ctx,
			`INSERT INTO reaction_samples (session_id, timing, seq, stimulus_shown_at, responded_at) VALUES (?, ?, ?, ?, ?)`,
			sessionID, string(timing), seq, formatTime(sample.StimulusShownAt), formatTime(sample.RespondedAt),
		)
		if err != nil {
			return fmt.Errorf("insert reaction sample: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSessionRepository) FindByID(ctx context.Context, id string) (domain.Session, error) {
	sessions, err := s.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return sessions[0], nil
}

func (s *SQLiteSessionRepository) FindActive(ctx context.Context, ownerID string) (domain.Session, error) {
	sessions, err := s.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? AND completed_at IS NULL ORDER BY started_at DESC LIMIT 1`, ownerID)
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return sessions[0], nil
}

func (s *SQLiteSessionRepository) ListCompleted(ctx context.Context, ownerID string, limit int) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE owner_id = ? AND completed_at IS NOT NULL ORDER BY completed_at DESC, started_at DESC`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

func (s *SQLiteSessionRepository) FindByStart(ctx context.Context, ownerID, deviceID string, startedAt time.Time) (domain.Session, error) {
	sessions, err := s.query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? AND device_id = ? AND started_at = ? LIMIT 1`,
		ownerID, deviceID, formatTime(startedAt),
	)
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, apperrors.ErrNotFound
	}
	return sessions[0], nil
}

// query drains the session rows before loading samples; the pool has a
// single connection.
func (s *SQLiteSessionRepository) query(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	q := sqlitedb.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	sessions := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	_ = rows.Close()

	for idx := range sessions {
		if err := s.loadSamples(ctx, q, &sessions[idx]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (s *SQLiteSessionRepository) loadSamples(ctx context.Context, q sqlitedb.Querier, session *domain.Session) error {
	rows, err := q.QueryContext(ctx, `SELECT timing, stimulus_shown_at, responded_at FROM reaction_samples WHERE session_id = ? ORDER BY timing, seq`, session.ID)
	if err != nil {
		return fmt.Errorf("query reaction samples: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var timing, shown, responded string
		if err := rows.Scan(&timing, &shown, &responded); err != nil {
			return fmt.Errorf("scan reaction sample: %w", err)
		}
		sample := scoringdomain.ReactionSample{}
		if sample.StimulusShownAt, err = parseTime(shown); err != nil {
			return err
		}
		if sample.RespondedAt, err = parseTime(responded); err != nil {
			return err
		}
		switch domain.Timing(timing) {
		case domain.TimingPre:
			session.ReactionPreSamples = append(session.ReactionPreSamples, sample)
		case domain.TimingPost:
			session.ReactionPostSamples = append(session.ReactionPostSamples, sample)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate reaction samples: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session                domain.Session
		contextName, startedAt string
		wake, completed        sql.NullString
		preScore, postScore    sql.NullInt64
		energyPre, energyPost  sql.NullInt64
		minutesSaved           sql.NullInt64
	)
	err := row.Scan(
		&session.ID,
		&session.OwnerID,
		&session.DeviceID,
		&contextName,
		&session.DayIndex,
		&session.ProtocolID,
		&session.Maintenance,
		&startedAt,
		&wake,
		&completed,
		&preScore,
		&postScore,
		&energyPre,
		&energyPost,
		&minutesSaved,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, apperrors.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	session.Context = protocoldomain.Context(contextName)
	if session.StartedAt, err = parseTime(startedAt); err != nil {
		return domain.Session{}, err
	}
	if session.WakeTimeReported, err = parseNullTime(wake); err != nil {
		return domain.Session{}, err
	}
	if session.CompletedAt, err = parseNullTime(completed); err != nil {
		return domain.Session{}, err
	}
	session.ReactionPreScore = intFromNull(preScore)
	session.ReactionPostScore = intFromNull(postScore)
	session.EnergyPre = intFromNull(energyPre)
	session.EnergyPost = intFromNull(energyPost)
	session.MinutesSavedEst = intFromNull(minutesSaved)
	return session, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return t, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
