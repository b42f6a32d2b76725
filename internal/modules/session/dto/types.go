package dto

import (
	"time"

	protocoldto "dawn/internal/modules/protocol/dto"
)

type StartInput struct {
	OwnerID           string
	DeviceID          string
	Context           string
	WakeTimeReported  *time.Time
	AcceptMaintenance bool
}

type StartOutput struct {
	SessionID   string                     `json:"session_id"`
	DayIndex    int                        `json:"day_index"`
	ProgramDays int                        `json:"program_days"`
	Plan        string                     `json:"plan"`
	StartedAt   time.Time                  `json:"started_at"`
	Protocol    protocoldto.ProtocolOutput `json:"protocol"`
}

// ReactionInput is one tap: the stimulus time and the response time.
type ReactionInput struct {
	StimulusShownAt time.Time
	RespondedAt     time.Time
}

type RecordTestInput struct {
	OwnerID   string
	SessionID string
	Timing    string
	Reactions []ReactionInput
}

type RecordTestOutput struct {
	SessionID string `json:"session_id"`
	Timing    string `json:"timing"`
	Score     int    `json:"score"`
	MedianMS  int    `json:"median_ms"`
	MeanMS    int    `json:"mean_ms"`
	BestMS    int    `json:"best_ms"`
	WorstMS   int    `json:"worst_ms"`
	Samples   int    `json:"samples"`
}

type RecordEnergyInput struct {
	OwnerID   string
	SessionID string
	Timing    string
	Rating    int
}

type CompleteInput struct {
	OwnerID   string
	SessionID string
}

type CompleteOutput struct {
	SessionID     string    `json:"session_id"`
	CompletedAt   time.Time `json:"completed_at"`
	PreScore      *int      `json:"pre_score"`
	PostScore     *int      `json:"post_score"`
	Delta         int       `json:"delta"`
	PercentChange int       `json:"percent_change"`
	Improved      bool      `json:"improved"`
	MinutesSaved  int       `json:"minutes_saved"`
	DayIndex      int       `json:"day_index"`
	NextDayIndex  int       `json:"next_day_index"`
	ProgramDays   int       `json:"program_days"`
	JournalPath   string    `json:"journal_path"`
}

type SessionOutput struct {
	SessionID        string     `json:"session_id"`
	OwnerID          string     `json:"owner_id"`
	DeviceID         string     `json:"device_id"`
	Context          string     `json:"context"`
	DayIndex         int        `json:"day_index"`
	ProtocolID       string     `json:"protocol_id"`
	Maintenance      bool       `json:"maintenance"`
	StartedAt        time.Time  `json:"started_at"`
	WakeTimeReported *time.Time `json:"wake_time_reported"`
	CompletedAt      *time.Time `json:"completed_at"`
	PreScore         *int       `json:"pre_score"`
	PostScore        *int       `json:"post_score"`
	EnergyPre        *int       `json:"energy_pre"`
	EnergyPost       *int       `json:"energy_post"`
	MinutesSaved     *int       `json:"minutes_saved"`
}

type DashboardOutput struct {
	Sessions          []SessionOutput `json:"sessions"`
	DayIndex          int             `json:"day_index"`
	ProgramDays       int             `json:"program_days"`
	Streak            int             `json:"streak"`
	TotalMinutesSaved int             `json:"total_minutes_saved"`
	RecentDeltas      []int           `json:"recent_deltas"`
}

// LocalExport is the JSON document a device keeps before it has an account.
type LocalExport struct {
	DeviceID    string         `json:"device_id"`
	Sessions    []LocalSession `json:"sessions"`
	DayIndex    int            `json:"day_index"`
	Entitlement string         `json:"entitlement"`
	Migrated    bool           `json:"migrated"`
}

type LocalSession struct {
	ID                 string          `json:"id"`
	DeviceID           string          `json:"device_id"`
	StartedAt          time.Time       `json:"started_at"`
	WakeTimeReported   *time.Time      `json:"wake_time_reported"`
	Context            string          `json:"context"`
	ProtocolID         string          `json:"protocol_id"`
	DayIndex           int             `json:"day_index"`
	CompletedAt        *time.Time      `json:"completed_at"`
	ReactionPreScore   *int            `json:"reaction_pre_score"`
	ReactionPostScore  *int            `json:"reaction_post_score"`
	EnergyPre          *int            `json:"energy_pre"`
	EnergyPost         *int            `json:"energy_post"`
	MinutesSavedEst    *int            `json:"minutes_saved_est"`
	ReactionPreEvents  []ReactionEvent `json:"reaction_pre_events"`
	ReactionPostEvents []ReactionEvent `json:"reaction_post_events"`
}

// ReactionEvent times are Unix milliseconds.
type ReactionEvent struct {
	Timestamp       int64   `json:"timestamp"`
	StimulusShownAt int64   `json:"stimulus_shown_at"`
	ReactionTimeMS  float64 `json:"reaction_time_ms"`
}

type ImportInput struct {
	OwnerID string
	Export  LocalExport
}

type ImportOutput struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}
