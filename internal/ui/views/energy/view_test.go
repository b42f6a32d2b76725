package energy

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEnergyCursorIsClamped(t *testing.T) {
	t.Parallel()

	m := New("pre")
	for range 10 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if got := m.Rating(); got != 5 {
		t.Fatalf("rating = %d, want 5", got)
	}
	for range 10 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	}
	if got := m.Rating(); got != 1 {
		t.Fatalf("rating = %d, want 1", got)
	}
}

func TestEnergyDigitSubmits(t *testing.T) {
	t.Parallel()

	m := New("post")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	rated, ok := cmd().(RatedMsg)
	if !ok {
		t.Fatalf("unexpected msg type")
	}
	if rated.Timing != "post" || rated.Rating != 4 {
		t.Fatalf("rated = %+v, want post/4", rated)
	}
	if m.Rating() != 4 {
		t.Fatalf("cursor not moved to 4")
	}
}

func TestEnergyEnterSubmitsDefault(t *testing.T) {
	t.Parallel()

	m := New("pre")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	if rated := cmd().(RatedMsg); rated.Rating != 3 {
		t.Fatalf("rating = %d, want 3", rated.Rating)
	}
}
