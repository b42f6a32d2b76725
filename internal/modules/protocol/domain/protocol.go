package domain

import (
	"fmt"
	"strings"
)

type Context string

const (
	ContextStandard Context = "standard"
	ContextLowLight Context = "low_light"
	ContextGentle   Context = "gentle"
)

// ParseContext maps free text to a known context. Anything unrecognised is
// standard.
func ParseContext(raw string) Context {
	switch Context(strings.ToLower(strings.TrimSpace(raw))) {
	case ContextLowLight:
		return ContextLowLight
	case ContextGentle:
		return ContextGentle
	default:
		return ContextStandard
	}
}

func (c Context) normalized() Context {
	return ParseContext(string(c))
}

type StepKind string

const (
	StepLight     StepKind = "light"
	StepBreath    StepKind = "breath"
	StepMovement  StepKind = "movement"
	StepHydration StepKind = "hydration"
)

type BreathCadence struct {
	InhaleSeconds int `json:"inhale_seconds"`
	HoldSeconds   int `json:"hold_seconds"`
	ExhaleSeconds int `json:"exhale_seconds"`
	Cycles        int `json:"cycles"`
}

// CycleSeconds is the length of one inhale-hold-exhale round.
func (b BreathCadence) CycleSeconds() int {
	return b.InhaleSeconds + b.HoldSeconds + b.ExhaleSeconds
}

type Step struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	DurationSeconds int            `json:"duration_seconds"`
	Instructions    string         `json:"instructions"`
	Kind            StepKind       `json:"type"`
	BreathCadence   *BreathCadence `json:"breath_cadence,omitempty"`
}

type Protocol struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	TotalDurationSeconds int    `json:"total_duration_seconds"`
	Steps                []Step `json:"steps"`
}

// IsMaintenance reports whether p is the shortened maintenance protocol.
func (p Protocol) IsMaintenance() bool {
	return strings.HasPrefix(p.ID, maintenancePrefix)
}

func (p Protocol) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("protocol id is required")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("protocol %s has no steps", p.ID)
	}
	total := 0
	for _, step := range p.Steps {
		if step.DurationSeconds <= 0 {
			return fmt.Errorf("step %s: duration must be positive", step.ID)
		}
		if step.BreathCadence != nil {
			if step.Kind != StepBreath {
				return fmt.Errorf("step %s: cadence on a %s step", step.ID, step.Kind)
			}
			c := step.BreathCadence
			if c.InhaleSeconds <= 0 || c.ExhaleSeconds <= 0 || c.HoldSeconds < 0 || c.Cycles <= 0 {
				return fmt.Errorf("step %s: invalid breath cadence", step.ID)
			}
		}
		total += step.DurationSeconds
	}
	if total != p.TotalDurationSeconds {
		return fmt.Errorf("protocol %s: total %ds does not match steps %ds", p.ID, p.TotalDurationSeconds, total)
	}
	return nil
}

func newProtocol(id, name string, steps ...Step) Protocol {
	total := 0
	for _, s := range steps {
		total += s.DurationSeconds
	}
	return Protocol{ID: id, Name: name, TotalDurationSeconds: total, Steps: steps}
}
