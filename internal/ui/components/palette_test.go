package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  []string
	}{
		{input: "", want: []string{"start", "maintenance", "dashboard", "skip-post-test", "home", "quit"}},
		{input: "s", want: []string{"start", "skip-post-test"}},
		{input: "start ", want: []string{"start standard", "start low_light", "start gentle"}},
		{input: "start lo", want: []string{"start low_light"}},
		{input: "home x", want: nil},
		{input: "zzz", want: nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, Suggest(tc.input)); diff != "" {
			t.Fatalf("Suggest(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"dash":            "dashboard",
		"st gentle":       "start gentle",
		"s":               "s",
		"  quit ":         "quit",
		"bogus":           "bogus",
		"":                "",
		"start low_light": "start low_light",
	}
	for in, want := range cases {
		if got := expand(in); got != want {
			t.Fatalf("expand(%q) = %q, want %q", in, got, want)
		}
	}
}

func typeText(p Palette, s string) Palette {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func TestPaletteTabCompletesContext(t *testing.T) {
	t.Parallel()

	p := NewPalette()
	p.Open()
	p = typeText(p, "start g")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette should close on enter")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "start gentle" {
		t.Fatalf("submit = %#v, want start gentle", msg)
	}
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()

	p := NewPalette()
	p.Open()
	p = typeText(p, "dash")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("palette should close on esc")
	}
	if _, ok := cmd().(PaletteCancelMsg); !ok {
		t.Fatalf("expected cancel msg")
	}
}
