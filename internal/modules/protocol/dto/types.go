package dto

type PreviewInput struct {
	Context      string
	DayIndex     int
	RecentDeltas []int
	Maintenance  bool
}

type BreathCadenceOutput struct {
	InhaleSeconds int `json:"inhale_seconds"`
	HoldSeconds   int `json:"hold_seconds"`
	ExhaleSeconds int `json:"exhale_seconds"`
	Cycles        int `json:"cycles"`
}

type StepOutput struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Kind            string               `json:"type"`
	DurationSeconds int                  `json:"duration_seconds"`
	Instructions    string               `json:"instructions"`
	BreathCadence   *BreathCadenceOutput `json:"breath_cadence,omitempty"`
}

type ProtocolOutput struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Context              string       `json:"context"`
	Maintenance          bool         `json:"maintenance"`
	TotalDurationSeconds int          `json:"total_duration_seconds"`
	Steps                []StepOutput `json:"steps"`
}
