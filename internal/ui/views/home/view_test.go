package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	protocoldto "dawn/internal/modules/protocol/dto"
)

type fakePort struct {
	mode     string
	dayIndex int
	deltas   []int
	err      error
}

func (f *fakePort) Preview(_ context.Context, mode string, dayIndex int, deltas []int, _ bool) (protocoldto.ProtocolOutput, error) {
	f.mode = mode
	f.dayIndex = dayIndex
	f.deltas = deltas
	if f.err != nil {
		return protocoldto.ProtocolOutput{}, f.err
	}
	return protocoldto.ProtocolOutput{ID: mode + "-day0", Name: "Preview " + mode, TotalDurationSeconds: 300}, nil
}

func TestSetProgressLoadsPreviewForSelectedContext(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	m := New(port)
	cmd := m.SetProgress(4, []int{3, -1})
	if cmd == nil {
		t.Fatalf("expected preview command")
	}
	msg, ok := cmd().(PreviewLoadedMsg)
	if !ok {
		t.Fatalf("unexpected msg type")
	}
	if msg.Context != "standard" || port.dayIndex != 4 || len(port.deltas) != 2 {
		t.Fatalf("preview call = %+v, port = %+v", msg, port)
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(msg)
	if m.loading {
		t.Fatalf("expected loading to stop")
	}
	if !strings.Contains(m.View(), "Preview standard") {
		t.Fatalf("view missing protocol name")
	}
}

func TestPreviewForOtherContextIsIgnored(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m, _ = m.Update(PreviewLoadedMsg{Context: "gentle", Protocol: protocoldto.ProtocolOutput{Name: "Stale"}})
	if m.protocol.Name != "" {
		t.Fatalf("stale preview applied: %+v", m.protocol)
	}
}

func TestPreviewErrorIsShown(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{err: errors.New("boom")})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(PreviewLoadedMsg{Context: "standard", Err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Fatalf("view missing error")
	}
}

func TestNilPortSkipsLoading(t *testing.T) {
	t.Parallel()

	m := New(nil)
	if m.loading {
		t.Fatalf("nil port should not be loading")
	}
	if cmd := m.SetProgress(1, nil); cmd != nil {
		t.Fatalf("expected no command without a port")
	}
	if got := m.SelectedContext(); got != "standard" {
		t.Fatalf("SelectedContext = %q, want standard", got)
	}
}
