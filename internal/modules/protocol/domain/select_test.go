package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"dawn/internal/modules/protocol/domain"
)

func stepIDs(p domain.Protocol) []string {
	ids := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSelectByContextAndDeltas(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		ctx    domain.Context
		day    int
		deltas []int
		id     string
		steps  []string
	}{
		{"standard no history", domain.ContextStandard, 0, nil, "standard-day0",
			[]string{"light-standard", "breath-standard", "movement-standard", "hydration"}},
		{"standard gentler", domain.ContextStandard, 4, []int{-1, -2, -3}, "standard-day4-gentle",
			[]string{"light-standard", "breath-gentle", "movement-standard", "hydration"}},
		{"standard intense", domain.ContextStandard, 5, []int{6, 7, 8}, "standard-day5-intense",
			[]string{"light-standard", "breath-intense", "movement-extended", "hydration"}},
		{"standard only last three count", domain.ContextStandard, 6, []int{-9, 10, 6, 7}, "standard-day6-intense",
			[]string{"light-standard", "breath-intense", "movement-extended", "hydration"}},
		{"standard threshold is strict", domain.ContextStandard, 2, []int{6, 5, 8}, "standard-day2",
			[]string{"light-standard", "breath-standard", "movement-standard", "hydration"}},
		{"two deltas do not adapt", domain.ContextStandard, 2, []int{-1, -1}, "standard-day2",
			[]string{"light-standard", "breath-standard", "movement-standard", "hydration"}},
		{"low light gentler", domain.ContextLowLight, 3, []int{0, 0, 0}, "low_light-day3-gentle",
			[]string{"light-low-light", "breath-gentle", "movement-standard", "hydration"}},
		{"low light intense keeps standard breath", domain.ContextLowLight, 3, []int{9, 9, 9}, "low_light-day3-intense",
			[]string{"light-low-light", "breath-standard", "movement-extended", "hydration"}},
		{"gentle ignores intense", domain.ContextGentle, 1, []int{20, 30, 40}, "gentle-day1-intense",
			[]string{"light-gentle", "breath-gentle", "movement-gentle", "hydration"}},
		{"gentle ignores gentler", domain.ContextGentle, 1, []int{-5, -5, -5}, "gentle-day1-gentle",
			[]string{"light-gentle", "breath-gentle", "movement-gentle", "hydration"}},
		{"unknown context", domain.Context("sunrise"), 0, nil, "standard-day0",
			[]string{"light-standard", "breath-standard", "movement-standard", "hydration"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := domain.Select(tc.ctx, tc.day, tc.deltas)
			if p.ID != tc.id {
				t.Fatalf("id: got %q want %q", p.ID, tc.id)
			}
			if diff := cmp.Diff(tc.steps, stepIDs(p)); diff != "" {
				t.Fatalf("steps mismatch (-want +got):\n%s", diff)
			}
			if err := p.Validate(); err != nil {
				t.Fatalf("validate: %v", err)
			}
		})
	}
}

func TestSelectNameAndTotal(t *testing.T) {
	t.Parallel()
	p := domain.Select(domain.ContextStandard, 6, nil)
	if p.Name != "Day 7 Protocol" {
		t.Fatalf("unexpected name %q", p.Name)
	}
	if p.TotalDurationSeconds != 150+180+180+90 {
		t.Fatalf("unexpected total %d", p.TotalDurationSeconds)
	}
	if got := domain.Select(domain.ContextLowLight, 0, []int{6, 7, 8}).TotalDurationSeconds; got != 180+180+210+90 {
		t.Fatalf("unexpected low light intense total %d", got)
	}
}

func TestSelectDoesNotShareCatalogSteps(t *testing.T) {
	t.Parallel()
	first := domain.Select(domain.ContextStandard, 0, nil)
	first.Steps[1].BreathCadence.Cycles = 1
	first.Steps[0].DurationSeconds = 1

	second := domain.Select(domain.ContextStandard, 0, nil)
	if second.Steps[1].BreathCadence.Cycles != 18 {
		t.Fatalf("catalog cadence was mutated: %+v", second.Steps[1].BreathCadence)
	}
	if second.Steps[0].DurationSeconds != 150 {
		t.Fatalf("catalog duration was mutated: %d", second.Steps[0].DurationSeconds)
	}
}

func TestMaintenanceIndependentOfContext(t *testing.T) {
	t.Parallel()
	standard := domain.Maintenance(domain.ContextStandard)
	for _, ctx := range []domain.Context{domain.ContextLowLight, domain.ContextGentle} {
		p := domain.Maintenance(ctx)
		if p.ID != "maintenance-"+string(ctx) {
			t.Fatalf("unexpected id %q", p.ID)
		}
		if diff := cmp.Diff(standard.Steps, p.Steps); diff != "" {
			t.Fatalf("maintenance steps differ for %s:\n%s", ctx, diff)
		}
	}
	if len(standard.Steps) != 3 || standard.TotalDurationSeconds != 180 {
		t.Fatalf("unexpected maintenance shape: %d steps, %ds", len(standard.Steps), standard.TotalDurationSeconds)
	}
	if standard.Name != "Maintenance Protocol" || !standard.IsMaintenance() {
		t.Fatalf("unexpected maintenance identity: %+v", standard)
	}
	cadence := standard.Steps[1].BreathCadence
	if cadence == nil || *cadence != (domain.BreathCadence{InhaleSeconds: 4, HoldSeconds: 0, ExhaleSeconds: 4, Cycles: 6}) {
		t.Fatalf("unexpected maintenance cadence: %+v", cadence)
	}
	if err := standard.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestParseContext(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Context{
		"standard":   domain.ContextStandard,
		" LOW_LIGHT": domain.ContextLowLight,
		"gentle":     domain.ContextGentle,
		"":           domain.ContextStandard,
		"outdoors":   domain.ContextStandard,
	}
	for raw, want := range cases {
		if got := domain.ParseContext(raw); got != want {
			t.Fatalf("ParseContext(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestValidateRejectsBrokenTotals(t *testing.T) {
	t.Parallel()
	p := domain.Select(domain.ContextGentle, 0, nil)
	p.TotalDurationSeconds++
	if err := p.Validate(); err == nil {
		t.Fatal("expected total mismatch error")
	}
	p = domain.Select(domain.ContextGentle, 0, nil)
	p.Steps[3].BreathCadence = &domain.BreathCadence{InhaleSeconds: 1, ExhaleSeconds: 1, Cycles: 1}
	if err := p.Validate(); err == nil {
		t.Fatal("expected cadence on hydration step to fail")
	}
}
