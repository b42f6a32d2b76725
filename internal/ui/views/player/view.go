package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	protocoldto "dawn/internal/modules/protocol/dto"
	"dawn/internal/ui/theme"
)

// ─── breath cues ─────────────────────────────────────────────────────────────

type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold   Phase = "hold"
	PhaseExhale Phase = "exhale"
)

// Cue is the breath guidance for a moment inside a breath step.
type Cue struct {
	Phase     Phase
	Remaining int
	Cycle     int
}

// BreathCue maps seconds elapsed in a breath step onto the cadence.
// Phases with zero length are skipped and the cycle count is capped.
func BreathCue(c protocoldto.BreathCadenceOutput, elapsed int) Cue {
	cycle := c.InhaleSeconds + c.HoldSeconds + c.ExhaleSeconds
	if cycle <= 0 {
		return Cue{Phase: PhaseInhale, Cycle: 1}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	n := elapsed/cycle + 1
	if c.Cycles > 0 && n > c.Cycles {
		n = c.Cycles
	}
	pos := elapsed % cycle
	switch {
	case pos < c.InhaleSeconds:
		return Cue{Phase: PhaseInhale, Remaining: c.InhaleSeconds - pos, Cycle: n}
	case pos < c.InhaleSeconds+c.HoldSeconds:
		return Cue{Phase: PhaseHold, Remaining: c.InhaleSeconds + c.HoldSeconds - pos, Cycle: n}
	default:
		return Cue{Phase: PhaseExhale, Remaining: cycle - pos, Cycle: n}
	}
}

// ─── messages ────────────────────────────────────────────────────────────────

// FinishedMsg is emitted after the last step ends or is skipped.
type FinishedMsg struct {
	ProtocolID string
	Skipped    int
}

type tickMsg struct{ seq int }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Pause key.Binding
	Skip  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Skip:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip step")),
	}
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Pause, k.Skip} }

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	protocol protocoldto.ProtocolOutput
	step     int
	elapsed  int
	total    int
	skipped  int
	playing  bool
	finished bool
	seq      int
	keys     keyMap
	help     help.Model
	overall  progress.Model
	stepBar  progress.Model
	width    int
	height   int
}

func New(p protocoldto.ProtocolOutput) Model {
	return Model{
		protocol: p,
		playing:  true,
		keys:     defaultKeys(),
		help:     help.New(),
		overall:  progress.New(progress.WithGradient(string(theme.Ember), string(theme.Sun)), progress.WithoutPercentage()),
		stepBar:  progress.New(progress.WithSolidFill(string(theme.Sky)), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd {
	if len(m.protocol.Steps) == 0 {
		return m.finishCmd()
	}
	return tick(m.seq)
}

// Step returns the index of the current step.
func (m Model) Step() int { return m.step }

func (m Model) Elapsed() int { return m.elapsed }

func (m Model) Playing() bool { return m.playing }

func (m Model) Finished() bool { return m.finished }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.finished {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := min(max(msg.Width-8, 10), 72)
		m.overall.Width = w
		m.stepBar.Width = w
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Pause):
			m.playing = !m.playing
			m.seq++
			if m.playing {
				return m, tick(m.seq)
			}
		case key.Matches(msg, m.keys.Skip):
			m.skipped++
			m.total += m.current().DurationSeconds - m.elapsed
			return m.advance()
		}

	case tickMsg:
		if msg.seq != m.seq || !m.playing {
			return m, nil
		}
		m.elapsed++
		m.total++
		if m.elapsed >= m.current().DurationSeconds {
			return m.advance()
		}
		return m, tick(m.seq)
	}
	return m, nil
}

func (m Model) View() string {
	if m.finished || len(m.protocol.Steps) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Good.Render("Protocol complete"))
	}
	s := m.current()
	p := m.protocol

	var sb strings.Builder
	header := fmt.Sprintf("%s  %s remaining", p.Name, clock(p.TotalDurationSeconds-m.total))
	if !m.playing {
		header += "  " + theme.Hot.Render("paused")
	}
	sb.WriteString(theme.Muted.Render(header) + "\n")
	sb.WriteString(m.overall.ViewAs(ratio(m.total, p.TotalDurationSeconds)) + "\n\n")

	sb.WriteString(theme.Muted.Render(fmt.Sprintf("Step %d of %d", m.step+1, len(p.Steps))) + "\n")
	sb.WriteString(theme.Title.Render(s.Name) + "\n")
	sb.WriteString(theme.Hot.Render(clock(s.DurationSeconds-m.elapsed)) + "\n\n")

	if s.BreathCadence != nil {
		cue := BreathCue(*s.BreathCadence, m.elapsed)
		sb.WriteString(theme.Stimulus.Render(fmt.Sprintf("%s %d", cue.Phase, cue.Remaining)) + "\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("Cycle %d of %d", cue.Cycle, s.BreathCadence.Cycles)) + "\n\n")
	}

	sb.WriteString(m.stepBar.ViewAs(ratio(m.elapsed, s.DurationSeconds)) + "\n\n")
	sb.WriteString(lipgloss.NewStyle().Width(min(max(m.width-8, 20), 72)).Render(s.Instructions) + "\n\n")
	sb.WriteString(m.help.View(m.keys))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) current() protocoldto.StepOutput {
	return m.protocol.Steps[m.step]
}

func (m Model) advance() (Model, tea.Cmd) {
	m.seq++
	m.elapsed = 0
	if m.step >= len(m.protocol.Steps)-1 {
		m.finished = true
		return m, m.finishCmd()
	}
	m.step++
	if !m.playing {
		return m, nil
	}
	return m, tick(m.seq)
}

func (m Model) finishCmd() tea.Cmd {
	done := FinishedMsg{ProtocolID: m.protocol.ID, Skipped: m.skipped}
	return func() tea.Msg { return done }
}

func tick(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{seq: seq} })
}

func ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(done) / float64(total)
	return min(max(r, 0), 1)
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
