package reaction

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func fixedDelay() time.Duration { return 700 * time.Millisecond }

func space() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}} }

func newTestModel(c *fakeClock) Model {
	return New("pre", WithClock(c.Now), WithDelay(fixedDelay))
}

func TestReactionRecordsTapAfterStimulus(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)}
	m := newTestModel(clk)

	m, cmd := m.Update(space())
	if cmd == nil || !m.Running() {
		t.Fatalf("expected test to start")
	}

	clk.Advance(700 * time.Millisecond)
	m, _ = m.Update(stimulusMsg{seq: m.seq})
	if m.state != stateReady {
		t.Fatalf("state = %v, want ready", m.state)
	}

	clk.Advance(250 * time.Millisecond)
	m, cmd = m.Update(space())
	if cmd == nil {
		t.Fatalf("expected feedback command")
	}
	got := m.Reactions()
	if len(got) != 1 {
		t.Fatalf("reactions = %d, want 1", len(got))
	}
	if ms := got[0].RespondedAt.Sub(got[0].StimulusShownAt).Milliseconds(); ms != 250 {
		t.Fatalf("reaction = %dms, want 250", ms)
	}
}

func TestReactionIgnoresEarlyTap(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)}
	m := newTestModel(clk)
	m, _ = m.Update(space())

	clk.Advance(200 * time.Millisecond)
	m, _ = m.Update(space())
	if len(m.Reactions()) != 0 {
		t.Fatalf("early tap must not be recorded")
	}
	if !m.early {
		t.Fatalf("expected early flag")
	}
	if m.state != stateWaiting {
		t.Fatalf("state = %v, want waiting", m.state)
	}
}

func TestReactionIgnoresStaleStimulus(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)}
	m := newTestModel(clk)
	m, _ = m.Update(space())

	m, _ = m.Update(stimulusMsg{seq: m.seq - 1})
	if m.state != stateWaiting {
		t.Fatalf("stale stimulus changed state to %v", m.state)
	}
}

func TestReactionFinishesAfterDuration(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)}
	m := newTestModel(clk)
	m, _ = m.Update(space())

	clk.Advance(time.Second)
	m, _ = m.Update(stimulusMsg{seq: m.seq})
	clk.Advance(300 * time.Millisecond)
	m, _ = m.Update(space())

	clk.Advance(DefaultDuration)
	m, cmd := m.Update(tickMsg{})
	if !m.Done() {
		t.Fatalf("expected test to be complete")
	}
	if cmd == nil {
		t.Fatalf("expected done command")
	}
	done, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want DoneMsg", cmd())
	}
	if done.Timing != "pre" || len(done.Reactions) != 1 {
		t.Fatalf("unexpected done message: %+v", done)
	}

	// Late feedback ticks after completion are dropped.
	m, cmd = m.Update(feedbackDoneMsg{seq: m.seq})
	if cmd != nil || !m.Done() {
		t.Fatalf("late feedback must be ignored")
	}
}

func TestReactionFeedbackSchedulesNextStimulus(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)}
	m := newTestModel(clk)
	m, _ = m.Update(space())
	m, _ = m.Update(stimulusMsg{seq: m.seq})
	clk.Advance(400 * time.Millisecond)
	m, _ = m.Update(space())

	before := m.seq
	m, cmd := m.Update(feedbackDoneMsg{seq: m.seq})
	if cmd == nil {
		t.Fatalf("expected next stimulus to be scheduled")
	}
	if m.state != stateWaiting || m.seq != before+1 {
		t.Fatalf("state=%v seq=%d, want waiting/%d", m.state, m.seq, before+1)
	}
}
