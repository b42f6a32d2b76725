package player

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	protocoldto "dawn/internal/modules/protocol/dto"
)

func TestBreathCue(t *testing.T) {
	t.Parallel()

	box := protocoldto.BreathCadenceOutput{InhaleSeconds: 4, HoldSeconds: 4, ExhaleSeconds: 6, Cycles: 2}
	noHold := protocoldto.BreathCadenceOutput{InhaleSeconds: 4, ExhaleSeconds: 6, Cycles: 3}

	cases := []struct {
		name    string
		cadence protocoldto.BreathCadenceOutput
		elapsed int
		want    Cue
	}{
		{"start", box, 0, Cue{Phase: PhaseInhale, Remaining: 4, Cycle: 1}},
		{"hold", box, 5, Cue{Phase: PhaseHold, Remaining: 3, Cycle: 1}},
		{"exhale", box, 8, Cue{Phase: PhaseExhale, Remaining: 6, Cycle: 1}},
		{"second cycle", box, 14, Cue{Phase: PhaseInhale, Remaining: 4, Cycle: 2}},
		{"capped cycle", box, 30, Cue{Phase: PhaseInhale, Remaining: 2, Cycle: 2}},
		{"no hold skips to exhale", noHold, 4, Cue{Phase: PhaseExhale, Remaining: 6, Cycle: 1}},
		{"empty cadence", protocoldto.BreathCadenceOutput{}, 3, Cue{Phase: PhaseInhale, Cycle: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := BreathCue(tc.cadence, tc.elapsed); got != tc.want {
				t.Fatalf("BreathCue(%d) = %+v, want %+v", tc.elapsed, got, tc.want)
			}
		})
	}
}

func twoSteps() protocoldto.ProtocolOutput {
	return protocoldto.ProtocolOutput{
		ID:                   "standard-day1",
		Name:                 "Standard Morning Protocol",
		TotalDurationSeconds: 5,
		Steps: []protocoldto.StepOutput{
			{ID: "a", Name: "Light", DurationSeconds: 2},
			{ID: "b", Name: "Breath", DurationSeconds: 3, BreathCadence: &protocoldto.BreathCadenceOutput{InhaleSeconds: 1, ExhaleSeconds: 2, Cycles: 1}},
		},
	}
}

func TestPlayerAdvancesOnTicks(t *testing.T) {
	t.Parallel()

	m := New(twoSteps())
	if m.Init() == nil {
		t.Fatalf("expected first tick")
	}
	m, _ = m.Update(tickMsg{seq: m.seq})
	m, _ = m.Update(tickMsg{seq: m.seq})
	if m.Step() != 1 || m.Elapsed() != 0 {
		t.Fatalf("step=%d elapsed=%d, want 1/0", m.Step(), m.Elapsed())
	}

	var cmd tea.Cmd
	for range 3 {
		m, cmd = m.Update(tickMsg{seq: m.seq})
	}
	if !m.Finished() {
		t.Fatalf("expected player to finish")
	}
	fin, ok := cmd().(FinishedMsg)
	if !ok || fin.ProtocolID != "standard-day1" || fin.Skipped != 0 {
		t.Fatalf("unexpected finish: %#v", cmd())
	}
}

func TestPlayerPauseDropsPendingTicks(t *testing.T) {
	t.Parallel()

	m := New(twoSteps())
	stale := m.seq
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Playing() || cmd != nil {
		t.Fatalf("expected paused without tick")
	}
	m, _ = m.Update(tickMsg{seq: stale})
	if m.Elapsed() != 0 {
		t.Fatalf("paused player advanced")
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Playing() || cmd == nil {
		t.Fatalf("expected resume with tick")
	}
}

func TestPlayerSkipLastStepFinishes(t *testing.T) {
	t.Parallel()

	m := New(twoSteps())
	skip := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	m, _ = m.Update(skip)
	m, cmd := m.Update(skip)
	if !m.Finished() || cmd == nil {
		t.Fatalf("expected finish after skipping every step")
	}
	if fin := cmd().(FinishedMsg); fin.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", fin.Skipped)
	}
}
